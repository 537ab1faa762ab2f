package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cartify_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// refreshTokenBytes は64文字の16進数文字列になります。
	refreshTokenBytes = 32

	defaultRefreshTTL  = 30 * 24 * time.Hour
	defaultMaxSessions = 5
)

// ログイン時にユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Update は名前・メールアドレス・電話番号・パスワード・ロールを保存します。
	Update(ctx context.Context, user *entity.User) error

	// List returns every user ordered by id.
	List(ctx context.Context) ([]*entity.User, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email, role string) (string, error)
	// ExpiresIn returns the access token lifetime in seconds.
	ExpiresIn() int64
}

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name  string
	Email string
	Phone *string
}

// ClientInfo describes the client a session is issued to.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// Tokens is the result of a login or a refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *entity.User
}

// SessionConfig bounds refresh sessions.
type SessionConfig struct {
	RefreshTTL         time.Duration
	MaxSessionsPerUser int
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	cfg          SessionConfig
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// cfgのゼロ値はデフォルト（30日、1ユーザー5セッション）に置き換えられます。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator, cfg SessionConfig) *authUsecase {
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.MaxSessionsPerUser <= 0 {
		cfg.MaxSessionsPerUser = defaultMaxSessions
	}
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		cfg:          cfg,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup はハッシュ化されたパスワードで新規ユーザーを顧客ロールで登録します。
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	// パスワード強度を検証
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: hashed,
		Phone:    in.Phone,
		Role:     entity.RoleCustomer,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、アクセストークンとリフレッシュトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string, client ClientInfo) (*Tokens, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(ctx, user, client)
}

// Refresh はリフレッシュトークンをローテーションします。
// 使用済みのトークンは失効し、新しいトークンの組が返されます。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*Tokens, error) {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.IsRevoked() {
		// 失効済みトークンの再利用は漏洩の兆候なので全セッションを失効させる
		slog.Warn("revoked refresh token reused", "user_id", session.UserID, "remote_addr", client.IPAddress)
		if err := u.sessions.RevokeAllByUserID(ctx, session.UserID); err != nil {
			return nil, err
		}
		return nil, ErrSessionRevoked
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}
	return u.issue(ctx, user, client)
}

// Logout はリフレッシュセッションを失効させます。既に存在しない場合も成功扱いです。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	err := u.sessions.Revoke(ctx, refreshToken)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// Me はログインユーザーを返します。
func (u *authUsecase) Me(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// UpdateProfile は名前・メールアドレス・電話番号を更新します。
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Email = normalizeEmail(in.Email)
	user.Phone = in.Phone
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword は現在のパスワードを確認してから変更し、すべてのリフレッシュセッションを失効させます。
func (u *authUsecase) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}
	if err := u.sessions.RevokeAllByUserID(ctx, userID); err != nil {
		return fmt.Errorf("password changed but sessions were not revoked: %w", err)
	}
	slog.Info("password changed", "user_id", userID)
	return nil
}

// ListUsers returns every account. Admin only.
func (u *authUsecase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return u.users.List(ctx)
}

// EnsureAdmin は指定メールアドレスの管理者を作成します。
// 既にユーザーが存在する場合は管理者ロールに昇格させるだけで、パスワードは変更しません。
func (u *authUsecase) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	user, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return nil
		}
		user.Role = entity.RoleAdmin
		if err := u.users.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		slog.Info("user promoted to admin", "email", email)
		return nil
	case !errors.Is(err, ErrUserNotFound):
		return err
	}

	if err := validatePassword(password); err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	admin := &entity.User{Name: name, Email: email, Password: hashed, Role: entity.RoleAdmin}
	if err := u.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	slog.Info("admin seeded", "email", email)
	return nil
}

// issue signs an access token and opens a refresh session, evicting the oldest
// sessions once the per-user cap is reached.
func (u *authUsecase) issue(ctx context.Context, user *entity.User, client ClientInfo) (*Tokens, error) {
	access, err := u.jwtGenerator.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for ; count >= int64(u.cfg.MaxSessionsPerUser); count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &entity.Session{
		ID:        refresh,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.cfg.RefreshTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    u.jwtGenerator.ExpiresIn(),
		User:         user,
	}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
