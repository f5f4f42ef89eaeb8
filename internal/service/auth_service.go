package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"aurabox/internal/model"
	"aurabox/internal/model/auth"
	"aurabox/internal/pkg/id"
	"aurabox/internal/pkg/jwt"
	"aurabox/internal/pkg/password"
	authRepo "aurabox/internal/repository/auth"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUserAlreadyExists = errors.New("用户已存在")
	ErrEmailTaken        = errors.New("邮箱已被注册")
	ErrInvalidPassword   = errors.New("密码错误")
	ErrUserBanned        = errors.New("用户已被禁用")
)

// AuthService 认证服务
// 只负责签发身份令牌，组件通过令牌中的身份决定是否计入游客额度
type AuthService struct {
	userRepo authRepo.UserStore
	jwt      *jwt.JWT
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo authRepo.UserStore, jwtSecret string, accessTokenExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt.NewJWT(jwtSecret, accessTokenExpiry),
	}
}

// JWT 令牌工具（供认证中间件使用）
func (s *AuthService) JWT() *jwt.JWT {
	return s.jwt
}

// TokenResult 令牌签发结果
type TokenResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
	Identity    model.Identity
	User        *auth.User
}

// Anonymous 匿名登录，不落库
func (s *AuthService) Anonymous(_ context.Context) (*TokenResult, error) {
	userID := id.New()
	token, err := s.jwt.GenerateToken(userID, "", true)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate anonymous token")
		return nil, errors.New("生成Token失败")
	}

	return &TokenResult{
		AccessToken: token,
		ExpiresIn:   int(s.jwt.GetExpiration().Seconds()),
		TokenType:   "Bearer",
		Identity:    model.AnonymousIdentity(userID),
	}, nil
}

// RegisterResult 注册结果
type RegisterResult struct {
	UserID   string
	Username string
	Status   string
}

// Register 用户注册
// 使用基本类型参数，不依赖Handler层的Request类型
func (s *AuthService) Register(ctx context.Context, username, email, pwd, nickname string) (*RegisterResult, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUserAlreadyExists
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := password.Hash(pwd)
	if errors.Is(err, password.ErrTooShort) {
		return nil, err
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, errors.New("密码加密失败")
	}

	user := &auth.User{
		ID:       id.New(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Status:   auth.UserStatusActive,
	}
	if nickname != "" {
		user.Profile = &auth.UserProfile{Nickname: nickname}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, authRepo.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		log.Error().Err(err).Msg("failed to create user")
		return nil, errors.New("创建用户失败")
	}

	return &RegisterResult{
		UserID:   user.ID,
		Username: user.Username,
		Status:   string(user.Status),
	}, nil
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, username, pwd string) (*TokenResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, authRepo.ErrNotFound) {
			log.Error().Err(err).Msg("failed to find user")
		}
		return nil, ErrUserNotFound
	}

	if !password.Verify(pwd, user.Password) {
		return nil, ErrInvalidPassword
	}
	if !user.CanSignIn() {
		return nil, ErrUserBanned
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, user.Username, false)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, errors.New("生成Token失败")
	}

	if err := s.userRepo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		// 不影响登录流程，只记录警告
		log.Warn().Err(err).Msg("failed to update last login time")
	}

	return &TokenResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwt.GetExpiration().Seconds()),
		TokenType:   "Bearer",
		Identity:    model.AuthenticatedIdentity(user.ID),
		User:        user,
	}, nil
}

// GetUserByID 根据ID获取用户信息
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, authRepo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// SetUserStatus 按用户名启用或禁用账号
func (s *AuthService) SetUserStatus(ctx context.Context, username string, status auth.UserStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid user status %q", status)
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, authRepo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.userRepo.UpdateStatus(ctx, user.ID, status); err != nil {
		return err
	}

	log.Info().Str("username", username).Str("status", status.String()).Msg("user status updated")
	return nil
}

// IdentityFromToken 解析令牌得到访问者身份
func (s *AuthService) IdentityFromToken(tokenString string) (model.Identity, error) {
	return IdentityFromClaims(s.jwt, tokenString)
}

// IdentityFromClaims 校验令牌并转换为身份
func IdentityFromClaims(j *jwt.JWT, tokenString string) (model.Identity, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return model.NoIdentity(), err
	}
	if claims.Anonymous {
		return model.AnonymousIdentity(claims.UserID), nil
	}
	return model.AuthenticatedIdentity(claims.UserID), nil
}
