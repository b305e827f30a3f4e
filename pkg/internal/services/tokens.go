package services

import (
	"fmt"
	"strconv"
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const accessTokenIssuer = "hypernet.community"

type AccessTokenClaims struct {
	jwt.RegisteredClaims

	AccountID uint   `json:"aid"`
	Name      string `json:"name"`
}

func getTokenSecret() ([]byte, error) {
	secret := viper.GetString("security.jwt_secret")
	if len(secret) == 0 {
		return nil, fmt.Errorf("security.jwt_secret is not configured")
	}
	return []byte(secret), nil
}

func NewAccessToken(account models.Account) (string, error) {
	secret, err := getTokenSecret()
	if err != nil {
		return "", err
	}

	ttl := viper.GetDuration("security.token_ttl")
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	now := time.Now()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    accessTokenIssuer,
			Subject:   strconv.Itoa(int(account.ID)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: account.ID,
		Name:      account.Name,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ReadAccessToken(token string) (AccessTokenClaims, error) {
	var claims AccessTokenClaims

	secret, err := getTokenSecret()
	if err != nil {
		return claims, err
	}

	if _, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(token *jwt.Token) (any, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(accessTokenIssuer),
	); err != nil {
		return claims, fmt.Errorf("invalid access token: %v", err)
	}

	return claims, nil
}
