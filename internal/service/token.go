package service

import (
	"fmt"
	"time"

	"accounts/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL access token 有效時間
const DefaultTokenTTL = 120 * time.Minute

var timeNow = time.Now

// Claims 定義 JWT 負載內容
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer 以 HS256 簽發與驗證 access token
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer ttl <= 0 時使用 DefaultTokenTTL
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue 回傳簽好的 token 與到期時間
func (t *TokenIssuer) Issue(id uuid.UUID, role model.Role) (string, time.Time, error) {
	now := timeNow()
	exp := now.Add(t.ttl)
	claims := Claims{
		UserID: id.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("IssueToken: %w", err)
	}
	return signed, exp, nil
}

// Validate 驗證簽章、演算法與期限，所有失敗皆回傳 ErrInvalidToken
func (t *TokenIssuer) Validate(token string) (model.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: bad user_id", model.ErrInvalidToken)
	}
	role := model.Role(claims.Role)
	if !role.Valid() {
		return model.Identity{}, fmt.Errorf("%w: bad role", model.ErrInvalidToken)
	}
	return model.Identity{UserID: id, Role: role}, nil
}

// ValidateOptional 空字串或無效 token 一律視為匿名
func (t *TokenIssuer) ValidateOptional(token string) model.Identity {
	if token == "" {
		return model.Identity{}
	}
	id, err := t.Validate(token)
	if err != nil {
		return model.Identity{}
	}
	return id
}
