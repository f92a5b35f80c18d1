package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"accounts/internal/metrics"
	"accounts/internal/model"
	"accounts/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewAccount 建立帳號所需資料，Password 為明文
type NewAccount struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// LoginResult 登入成功後回傳的 token 與使用者
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *model.User
}

// AccountService 帳號相關 use-case；每個 use-case 在單一 transaction 內完成，本身不保存狀態
type AccountService struct {
	repo     store.Repository
	hasher   *PasswordHasher
	tokens   *TokenIssuer
	throttle *LoginThrottle
	log      zerolog.Logger
}

type Option func(*AccountService)

func WithThrottle(t *LoginThrottle) Option {
	return func(s *AccountService) { s.throttle = t }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *AccountService) { s.log = l }
}

func NewAccountService(repo store.Repository, hasher *PasswordHasher, tokens *TokenIssuer, opts ...Option) *AccountService {
	s := &AccountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// normalizeEmail 只去除前後空白，大小寫照原樣儲存與比對
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// Register 自行註冊，角色固定為 user
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	return s.create(ctx, NewAccount{Name: name, Email: email, Password: password, Role: model.RoleUser})
}

// CreateUser 管理員建立帳號，角色由呼叫端指定
func (s *AccountService) CreateUser(ctx context.Context, in NewAccount) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, model.ErrInvalidRole
	}
	return s.create(ctx, in)
}

func (s *AccountService) create(ctx context.Context, in NewAccount) (*model.User, error) {
	email := normalizeEmail(in.Email)
	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("CreateAccount: hash: %w", err)
	}

	u := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	err = s.repo.InTx(ctx, func(r store.Repository) error {
		existing, err := r.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return model.ErrEmailTaken
		}
		return r.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	metrics.AccountTransitions.WithLabelValues("create").Inc()
	return u, nil
}

// Login 驗證帳密並簽發 token。email 不存在、密碼錯誤、帳號停用、角色與端點不符
// 皆回傳 ErrInvalidCredentials。
func (s *AccountService) Login(ctx context.Context, email, password string, required model.Role) (*LoginResult, error) {
	email = normalizeEmail(email)
	role := string(required)

	if err := s.throttle.Check(ctx, email); err != nil {
		if errors.Is(err, model.ErrTooManyAttempts) {
			metrics.LoginAttempts.WithLabelValues(role, metrics.LoginThrottled).Inc()
			return nil, err
		}
		s.log.Warn().Err(err).Msg("login throttle unavailable")
	}

	var u *model.User
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		var err error
		u, err = r.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}

	if u == nil {
		s.hasher.CompareDummy(ctx, password)
		return nil, s.loginFailed(ctx, email, role)
	}
	if err := s.hasher.Compare(ctx, u.PasswordHash, password); err != nil {
		if !errors.Is(err, model.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, s.loginFailed(ctx, email, role)
	}
	if u.IsDeleted() || Authorize([]model.Role{required}, u.Role) != nil {
		return nil, s.loginFailed(ctx, email, role)
	}

	token, exp, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle reset failed")
	}
	metrics.LoginAttempts.WithLabelValues(role, metrics.LoginSuccess).Inc()
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: u}, nil
}

func (s *AccountService) loginFailed(ctx context.Context, email, role string) error {
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable")
	}
	metrics.LoginAttempts.WithLabelValues(role, metrics.LoginFailed).Inc()
	return model.ErrInvalidCredentials
}

func (s *AccountService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u *model.User
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		var err error
		u, err = r.GetByID(ctx, id)
		return err
	})
	return u, err
}

func (s *AccountService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*model.User, error) {
	return s.mutate(ctx, id, func(r store.Repository) error {
		return r.UpdateName(ctx, id, strings.TrimSpace(name))
	})
}

// UpdatePassword 先雜湊再寫入，雜湊在 transaction 之外進行
func (s *AccountService) UpdatePassword(ctx context.Context, id uuid.UUID, password string) (*model.User, error) {
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("UpdatePassword: hash: %w", err)
	}
	return s.mutate(ctx, id, func(r store.Repository) error {
		return r.UpdatePassword(ctx, id, hash)
	})
}

func (s *AccountService) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, model.ErrInvalidRole
	}
	u, err := s.mutate(ctx, id, func(r store.Repository) error {
		return r.UpdateRole(ctx, id, role)
	})
	if err == nil {
		metrics.AccountTransitions.WithLabelValues("update_role").Inc()
	}
	return u, err
}

// Deactivate ACTIVE -> DEACTIVATED；已停用時回傳 ErrInvalidStateTransition
func (s *AccountService) Deactivate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.transition(ctx, id, "deactivate", func(r store.Repository, u *model.User) error {
		if u.IsDeleted() {
			return fmt.Errorf("%w: account already deactivated", model.ErrInvalidStateTransition)
		}
		return r.Deactivate(ctx, id)
	})
}

// Reactivate DEACTIVATED -> ACTIVE；仍啟用時回傳 ErrInvalidStateTransition
func (s *AccountService) Reactivate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.transition(ctx, id, "reactivate", func(r store.Repository, u *model.User) error {
		if !u.IsDeleted() {
			return fmt.Errorf("%w: account already active", model.ErrInvalidStateTransition)
		}
		return r.Reactivate(ctx, id)
	})
}

// transition 鎖定該列後檢查目前狀態再變更，兩個並行請求只有一個會成功
func (s *AccountService) transition(ctx context.Context, id uuid.UUID, action string, apply func(store.Repository, *model.User) error) (*model.User, error) {
	u, err := s.mutate(ctx, id, func(r store.Repository) error {
		current, err := r.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return apply(r, current)
	})
	if err != nil {
		return nil, err
	}
	metrics.AccountTransitions.WithLabelValues(action).Inc()
	s.log.Info().Str("user_id", id.String()).Str("action", action).Msg("account transition")
	return u, nil
}

// mutate 在同一個 transaction 內套用變更並重新讀取
func (s *AccountService) mutate(ctx context.Context, id uuid.UUID, apply func(store.Repository) error) (*model.User, error) {
	var u *model.User
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		if err := apply(r); err != nil {
			return err
		}
		var err error
		u, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListAccounts 依條件過濾並分頁；Total 為符合條件的總筆數
func (s *AccountService) ListAccounts(ctx context.Context, f model.UserFilter, p model.Paging) (model.Page[model.User], error) {
	if err := p.Validate(); err != nil {
		return model.Page[model.User]{}, err
	}
	if f.Role != nil && !f.Role.Valid() {
		return model.Page[model.User]{}, model.ErrInvalidRole
	}

	page := model.Page[model.User]{Page: p.Page, PageSize: p.PageSize}
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		total, err := r.Count(ctx, f)
		if err != nil {
			return err
		}
		items, err := r.List(ctx, f, p)
		if err != nil {
			return err
		}
		page.Total = total
		page.Items = items
		return nil
	})
	if err != nil {
		return model.Page[model.User]{}, err
	}
	return page, nil
}
