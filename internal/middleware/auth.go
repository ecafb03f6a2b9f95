package middleware

import (
	"net/http"
	"strings"

	"shortlink-service/internal/apperr"
	"shortlink-service/internal/service"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticator 校验令牌并返回调用者身份
type Authenticator interface {
	Authenticate(token string) (*service.Principal, error)
}

// AuthMiddleware Bearer 令牌认证中间件
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := authenticator.Authenticate(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			e := apperr.From(err)
			c.AbortWithStatusJSON(e.Status, gin.H{"error": e.Message})
			return
		}

		// 将用户信息存入上下文
		c.Set(principalKey, principal)
		c.Set("user_id", principal.UserID)
		c.Next()
	}
}

// bearerToken 提取 "Bearer <token>" 中的令牌，格式不对时视为未携带
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// PrincipalFrom 取出认证中间件写入的调用者身份
func PrincipalFrom(c *gin.Context) (*service.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*service.Principal)
	return p, ok && p != nil
}

// RequirePrincipal 取不到身份时直接返回 401
func RequirePrincipal(c *gin.Context) (*service.Principal, bool) {
	p, ok := PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
	}
	return p, ok
}
