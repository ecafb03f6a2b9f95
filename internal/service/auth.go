package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"shortlink-service/internal/apperr"
	"shortlink-service/internal/model"
	"shortlink-service/internal/repository"
	auth "shortlink-service/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore 认证服务依赖的用户存储
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AuthService 注册、登录和令牌校验
type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
	logger *zap.SugaredLogger
	// 用户不存在时用来比较的哈希
	dummy []byte
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, logger *zap.SugaredLogger) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	return &AuthService{users: users, tokens: tokens, logger: logger.Named("auth"), dummy: dummy}
}

// Register 创建用户，只保存密码的 bcrypt 哈希
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("姓名、邮箱和密码均为必填项")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperr.Validation("姓名不能超过 50 个字符")
	}
	if !isEmail(email) {
		return nil, apperr.Validation("邮箱格式不正确")
	}
	if validate.Var(password, "strongpwd") != nil {
		return nil, apperr.Validation("密码长度为 8 到 72 位，且必须包含大写字母、小写字母、数字和一个特殊字符 (" + passwordSymbols + ")")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, apperr.Internal("注册失败", err)
	}
	if exists {
		return nil, emailTaken()
	}

	user := &model.User{Name: name, Email: email}
	if err := user.SetPassword(password); err != nil {
		return nil, apperr.Internal("密码加密失败", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken()
		}
		return nil, apperr.Internal("创建用户失败", err)
	}

	s.logger.Infow("用户注册成功", "user_id", user.ID)
	return user, nil
}

func emailTaken() *apperr.Error {
	return apperr.Conflict("该邮箱已被注册").WithStatus(http.StatusUnauthorized)
}

// Login 校验邮箱和密码并签发令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", apperr.Validation("邮箱和密码均为必填项")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// 用户不存在时也做一次哈希比较，让两种失败的耗时接近
			_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
			return "", apperr.NotFound("该邮箱对应的用户不存在").WithStatus(http.StatusBadRequest)
		}
		return "", apperr.Internal("登录失败", err)
	}

	if !user.CheckPassword(password) {
		return "", apperr.Unauthorized("密码错误").WithStatus(http.StatusBadRequest)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", apperr.Internal("生成令牌失败", err)
	}
	return token, nil
}

// Authenticate 校验 Bearer 令牌。缺失或过期为 401，其余无效令牌为 403。
func (s *AuthService) Authenticate(token string) (*Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmptyToken):
			return nil, apperr.Unauthorized("未提供认证令牌")
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperr.Unauthorized("认证令牌已过期")
		default:
			return nil, apperr.Forbidden("无效的认证令牌")
		}
	}
	return &Principal{UserID: claims.User.ID, Email: claims.User.Email}, nil
}

// CurrentUser 返回调用者自己的用户记录
func (s *AuthService) CurrentUser(ctx context.Context, p *Principal) (*model.User, error) {
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, apperr.Internal("获取用户失败", err)
	}
	return user, nil
}
