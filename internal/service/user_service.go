package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type UserService struct {
	repo        UserStore
	sessions    SessionStore
	communities CommunityStore
	notifier    Notifier
	hashCost    int
}

// RegisterInput 注册请求
type RegisterInput struct {
	Username    string     `json:"username" validate:"required,min=4,max=32"`
	Password    string     `json:"password" validate:"required,min=6,max=72"`
	Email       string     `json:"email" validate:"required,email"`
	Fullname    string     `json:"fullname" validate:"max=64"`
	PhoneNumber string     `json:"phoneNumber" validate:"max=32"`
	Role        model.Role `json:"usertype" validate:"omitempty,oneof=member reviewer"`
}

type LoginResult struct {
	User *model.User
	*pkg.Pair
}

// CurrentUser 用户信息 + 所在社区
type CurrentUser struct {
	*model.User
	Communities []model.Community `json:"communities"`
}

func NewUserService(repo UserStore, sessions SessionStore, communities CommunityStore, notifier Notifier) *UserService {
	return &UserService{
		repo:        repo,
		sessions:    sessions,
		communities: communities,
		notifier:    notifier,
		hashCost:    bcrypt.DefaultCost,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = model.RoleMember
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, pkg.InternalError(err)
	}

	user := &model.User{
		Username:    in.Username,
		Password:    string(hash),
		Email:       in.Email,
		Fullname:    strings.TrimSpace(in.Fullname),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Role:        in.Role,
	}
	if err = s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 未审核的用户不能登录
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, pkg.ValidationError("username and password are required")
	}
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if !user.Verified {
		return nil, pkg.ForbiddenError("verification pending")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.AuthError("invalid credentials")
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Pair: pair}, nil
}

func (s *UserService) issue(ctx context.Context, user *model.User) (*pkg.Pair, error) {
	pair, err := pkg.GeneratePair(user.ID, string(user.Role))
	if err != nil {
		return nil, pkg.InternalError(err)
	}
	// 新 token 覆盖旧 token，旧设备随之下线
	if err = s.sessions.Save(ctx, user.ID, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, pkg.InternalError(err)
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return pkg.InternalError(err)
	}
	return nil
}

// Authenticate 校验 access token 且必须是 redis 中记录的最新 token
func (s *UserService) Authenticate(ctx context.Context, token string) (*pkg.Claims, error) {
	claims, err := pkg.ParseAccess(token)
	if err != nil {
		return nil, pkg.AuthError("invalid or expired token")
	}
	current, err := s.sessions.AccessToken(ctx, claims.UserID)
	if err != nil && !pkg.IsNotFound(err) {
		return nil, pkg.InternalError(err)
	}
	if err != nil || current != token {
		return nil, pkg.AuthError("account has been logged in elsewhere")
	}
	if err = s.sessions.Extend(ctx, claims.UserID); err != nil {
		slog.WarnContext(ctx, "extend session failed", "user_id", claims.UserID, "err", err)
	}
	return claims, nil
}

// Refresh 刷新后旧的 refresh token 作废
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	if refreshToken == "" {
		return nil, pkg.AuthError("unauthorized request")
	}
	claims, err := pkg.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkg.AuthError(err.Error())
	}
	stored, err := s.sessions.RefreshToken(ctx, claims.UserID)
	if err != nil && !pkg.IsNotFound(err) {
		return nil, pkg.InternalError(err)
	}
	if err != nil || stored != refreshToken {
		return nil, pkg.AuthError("refresh token is expired or used")
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if pkg.IsNotFound(err) {
			return nil, pkg.AuthError("invalid refresh token")
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *UserService) Current(ctx context.Context, userID uint64) (*CurrentUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.communities.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{User: user, Communities: list}, nil
}

// ChangePassword 登录态修改密码，成功后强制重新登录
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return pkg.ValidationError("new password must be at least 6 characters")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.AuthError("old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return pkg.InternalError(err)
	}
	if err = s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, userID)
}

// Verify 管理员审核，通知失败不影响结果
func (s *UserService) Verify(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.repo.SetVerified(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if nerr := s.notifier.NotifyVerified(ctx, user); nerr != nil {
			slog.WarnContext(ctx, "verify notification failed", "user_id", userID, "err", nerr)
		}
	}
	return user, nil
}

func (s *UserService) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if role != "" && !role.Valid() {
		return nil, pkg.ValidationError("unknown role")
	}
	return s.repo.ListByRole(ctx, role)
}

// Delete 删除用户并使其会话失效
func (s *UserService) Delete(ctx context.Context, userID uint64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		slog.WarnContext(ctx, "drop session of deleted user failed", "user_id", userID, "err", err)
	}
	return nil
}

// Brief 实时连接建立时取用户名
func (s *UserService) Brief(ctx context.Context, userID uint64) (model.UserBrief, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return model.UserBrief{}, err
	}
	return model.UserBrief{ID: user.ID, Username: user.Username}, nil
}
