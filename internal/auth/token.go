// Package auth provides JWT token generation, validation and HTTP middleware
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/userhub/user-service/internal/models"
)

// Claims is the identity payload carried by an access token
type Claims struct {
	UserID   int
	Email    string
	UserName string
	Role     models.Role
	Active   bool
}

// TokenGenerator handles JWT token generation and validation.
// Access and refresh tokens are signed with different secrets.
type TokenGenerator struct {
	accessSecret       string
	refreshSecret      string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		accessSecret:       accessSecret,
		refreshSecret:      refreshSecret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// GenerateTokens generates both access and refresh tokens for a user.
// The access token carries the full identity payload, the refresh token only the user ID.
func (tg *TokenGenerator) GenerateTokens(user *models.User) (string, string, error) {
	accessToken, err := tg.GenerateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := tg.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken creates an access token with the user's identity in the payload
func (tg *TokenGenerator) GenerateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.UserName,
		"role":     string(user.Role),
		"active":   user.Active,
		"exp":      time.Now().Add(tg.accessTokenExpiry).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.accessSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a refresh token carrying only the user ID
func (tg *TokenGenerator) GenerateRefreshToken(userID int) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tg.refreshTokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "refresh",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.refreshSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the identity claims
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := tg.parse(tokenString, tg.accessSecret, "access")
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(float64) // JWT claims decode numbers as float64
	if !ok {
		return nil, fmt.Errorf("user_id not found in token")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("email not found in token")
	}

	username, ok := claims["username"].(string)
	if !ok {
		return nil, fmt.Errorf("username not found in token")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("role not found in token")
	}

	active, _ := claims["active"].(bool)

	return &Claims{
		UserID:   int(userID),
		Email:    email,
		UserName: username,
		Role:     models.Role(role),
		Active:   active,
	}, nil
}

// ValidateRefreshToken validates a refresh token and returns the user ID it was issued for
func (tg *TokenGenerator) ValidateRefreshToken(tokenString string) (int, error) {
	claims, err := tg.parse(tokenString, tg.refreshSecret, "refresh")
	if err != nil {
		return 0, err
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in token")
	}

	return int(userID), nil
}

// parse verifies the signature, expiry and token type against the given secret
func (tg *TokenGenerator) parse(tokenString, secret, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != expectedType {
		return nil, fmt.Errorf("token is not a %s token", expectedType)
	}

	return claims, nil
}
