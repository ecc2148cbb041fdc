package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"joiny/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errWrongTokenType = errors.New("wrong token type")

type jwtClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
}

// JWT issues and verifies HS256 access/refresh pairs.
type JWT struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWT returns a signer whose tokens carry the user id as subject.
func NewJWT(secret string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

var (
	_ domain.TokenIssuer   = (*JWT)(nil)
	_ domain.TokenVerifier = (*JWT)(nil)
)

func (j *JWT) IssuePair(user *domain.User) (domain.TokenPair, error) {
	access, err := j.sign(user, tokenTypeAccess, j.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := j.sign(user, tokenTypeRefresh, j.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *JWT) sign(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := j.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  user.Username,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return tokenString, nil
}

func (j *JWT) VerifyAccess(token string) (*domain.Requester, error) {
	return j.verify(token, tokenTypeAccess)
}

func (j *JWT) VerifyRefresh(token string) (*domain.Requester, error) {
	return j.verify(token, tokenTypeRefresh)
}

func (j *JWT) verify(tokenString, tokenType string) (*domain.Requester, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.TokenType != tokenType {
		return nil, errWrongTokenType
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	return &domain.Requester{UserID: id, Username: claims.Username}, nil
}
