package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmptyToken 未携带令牌
	ErrEmptyToken = errors.New("token is empty")
	// ErrTokenExpired 令牌已过期
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken 签名错误、格式错误或声明不合法
	ErrInvalidToken = errors.New("invalid token")
)

// UserInfo 令牌中携带的用户信息
type UserInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// Claims 令牌载荷: {"user": {"id", "email"}} 加标准声明
type Claims struct {
	User UserInfo `json:"user"`
	jwt.RegisteredClaims
}

// TokenManager 负责签发和校验 HS256 令牌
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager 创建令牌管理器
func NewManager(secret, issuer string, expirationHours int) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(expirationHours) * time.Hour,
		now:    time.Now,
	}
}

// TTL 令牌有效期
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken 为用户签发令牌
func (m *TokenManager) GenerateToken(userID uint, email string) (string, error) {
	if userID == 0 {
		return "", errors.New("invalid user ID")
	}

	now := m.now()
	claims := Claims{
		User: UserInfo{ID: userID, Email: email},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken 校验令牌。过期返回 ErrTokenExpired，其余失败统一为 ErrInvalidToken。
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrEmptyToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User.ID == 0 || claims.Subject != fmt.Sprint(claims.User.ID) {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}

	return claims, nil
}
