package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/infra/config"
	"github.com/skabera/TaskManagementSystem/internal/infra/logger"
	"github.com/skabera/TaskManagementSystem/internal/infra/security"
	"github.com/skabera/TaskManagementSystem/internal/repository"
)

const (
	otpPurposeLogin = "login"

	loginRateLimitScope     = "login"
	registerRateLimitScope  = "register"
	verifyOTPRateLimitScope = "verify_otp"
	refreshRateLimitScope   = "refresh"

	defaultOTPTTL         = 5 * time.Minute
	defaultOTPMaxAttempts = 5
	defaultRefreshTTL     = 7 * 24 * time.Hour

	refreshTokenBytes = 32
)

var (
	// ErrInvalidCredentials indicates the email or password is incorrect.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOTP indicates the code is wrong, expired, or consumed.
	ErrInvalidOTP = errors.New("invalid or expired otp")
	// ErrInactiveAccount indicates the account is disabled.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrEmailTaken indicates an account with this email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRefreshToken indicates the refresh token does not exist or was revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrExpiredRefreshToken indicates the refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token expired")
	// ErrInvalidAccessToken indicates the access token is malformed or signature validation failed.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the access token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
)

// ValidationError aggregates registration input violations so the caller
// can surface them itemized.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Messages, "; ")
}

// AuthTokens bundles the issued token pair.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RegisterInput captures a registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IP        string
	UserAgent string
}

// LoginInput captures a credential check request.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// LoginResult is either an OTP challenge or an issued token pair.
type LoginResult struct {
	Account           domain.Account
	ChallengeRequired bool
	Tokens            *AuthTokens
}

// VerifyOTPInput captures an OTP verification request.
type VerifyOTPInput struct {
	Email     string
	Code      string
	IP        string
	UserAgent string
}

// RefreshInput captures a token renewal request.
type RefreshInput struct {
	RefreshToken string
	IP           string
	UserAgent    string
}

// AuthService coordinates registration, the two-step login flow, and
// token issuance.
type AuthService struct {
	cfg               *config.AppConfig
	accounts          port.AccountRepository
	tokens            port.TokenRepository
	otps              port.OTPStore
	rateLimits        port.RateLimitStore
	events            port.EventPublisher
	audit             port.AuditRepository
	jwt               *security.JWTManager
	passwordValidator *security.PasswordValidator
	logger            *zap.Logger
	now               func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	tokens port.TokenRepository,
	otps port.OTPStore,
	rateLimits port.RateLimitStore,
	events port.EventPublisher,
	audit port.AuditRepository,
	jwtManager *security.JWTManager,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *AuthService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		cfg:               cfg,
		accounts:          accounts,
		tokens:            tokens,
		otps:              otps,
		rateLimits:        rateLimits,
		events:            events,
		audit:             audit,
		jwt:               jwtManager,
		passwordValidator: validator,
		logger:            log,
		now:               time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *AuthService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Register validates the input, creates a pending account with two-factor
// login enabled, and issues the first OTP challenge. The passcode is
// persisted before the notification event goes out; a publish failure is
// logged and never fails the registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	now := s.now().UTC()

	if err := enforceRateLimit(ctx, s.rateLimits, s.logger, registerRateLimitScope, input.IP, s.cfg.RateLimit.RegisterMaxAttempts, s.cfg.RateLimit.WindowDuration, now); err != nil {
		return domain.Account{}, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	password := input.Password

	var violations []string
	if email == "" {
		violations = append(violations, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		violations = append(violations, "email format is invalid")
	}
	if firstName == "" {
		violations = append(violations, "first name is required")
	}
	if lastName == "" {
		violations = append(violations, "last name is required")
	}
	if password == "" {
		violations = append(violations, "password is required")
	} else if err := s.passwordValidator.Validate(password, email, firstName, lastName); err != nil {
		violations = append(violations, err.Error())
	}
	if len(violations) > 0 {
		return domain.Account{}, &ValidationError{Messages: violations}
	}

	if existing, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, fmt.Errorf("lookup account: %w", err)
		}
	} else if existing != nil {
		return domain.Account{}, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:               uuid.NewString(),
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		PasswordHash:     passwordHash,
		PasswordAlgo:     "argon2id",
		Status:           domain.AccountStatusPending,
		TwoFactorEnabled: true,
		EmailVerified:    false,
		IsActive:         true,
		CreatedAt:        now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent register can slip past the lookup above; the
		// unique index is the arbiter.
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	if err := s.issueOTP(ctx, account, now); err != nil {
		return domain.Account{}, err
	}

	if s.events != nil {
		event := domain.AccountRegisteredEvent{
			EventID:      uuid.NewString(),
			AccountID:    account.ID,
			Email:        account.Email,
			RegisteredAt: now,
		}
		if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
			s.logger.Warn("publish account registered failed",
				zap.String("account_id", account.ID),
				zap.Error(err),
			)
		}
	}

	s.recordAudit(ctx, "account.registered", "account", account.ID, account.ID, input.IP, input.UserAgent, now)

	account.PasswordHash = ""
	return account, nil
}

// Login validates credentials. With two-factor enabled it stores a fresh
// OTP, overwriting any prior code, and returns a challenge without
// tokens. With two-factor disabled it issues the token pair directly.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	now := s.now().UTC()

	if err := enforceRateLimit(ctx, s.rateLimits, s.logger, loginRateLimitScope, input.IP, s.cfg.RateLimit.LoginMaxAttempts, s.cfg.RateLimit.WindowDuration, now); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive || account.Status == domain.AccountStatusDisabled {
		return nil, ErrInactiveAccount
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	if account.TwoFactorEnabled {
		if err := s.issueOTP(ctx, *account, now); err != nil {
			return nil, err
		}
		s.recordAudit(ctx, "auth.otp_challenge", "account", account.ID, account.ID, input.IP, input.UserAgent, now)
		return &LoginResult{Account: sanitized, ChallengeRequired: true}, nil
	}

	tokens, err := s.issueTokens(ctx, *account, input.IP, input.UserAgent, now)
	if err != nil {
		return nil, err
	}

	s.finishLogin(ctx, *account, input.IP, input.UserAgent, now)

	return &LoginResult{Account: sanitized, Tokens: tokens}, nil
}

// VerifyOTP checks the submitted code against the stored challenge. A
// mismatch bumps the attempt counter and leaves the stored code intact
// until the cap invalidates it; a match consumes the code, activates the
// account, and issues the token pair.
func (s *AuthService) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*LoginResult, error) {
	now := s.now().UTC()

	if err := enforceRateLimit(ctx, s.rateLimits, s.logger, verifyOTPRateLimitScope, input.IP, s.cfg.RateLimit.VerifyOTPMaxAttempts, s.cfg.RateLimit.WindowDuration, now); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" {
		return nil, ErrInvalidOTP
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	record, err := s.otps.Fetch(ctx, otpPurposeLogin, account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("fetch otp: %w", err)
	}

	if !record.ExpiresAt.After(now) {
		if err := s.otps.Delete(ctx, otpPurposeLogin, account.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("delete expired otp failed", zap.String("account_id", account.ID), zap.Error(err))
		}
		return nil, ErrInvalidOTP
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		attempts, err := s.otps.IncrementAttempts(ctx, otpPurposeLogin, account.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("increment otp attempts failed", zap.String("account_id", account.ID), zap.Error(err))
		}
		if attempts >= s.otpMaxAttempts() {
			if err := s.otps.Delete(ctx, otpPurposeLogin, account.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("invalidate otp failed", zap.String("account_id", account.ID), zap.Error(err))
			}
		}
		return nil, ErrInvalidOTP
	}

	// Single use: the code is gone before tokens are issued.
	if err := s.otps.Delete(ctx, otpPurposeLogin, account.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("consume otp: %w", err)
	}

	if !account.EmailVerified {
		if err := s.accounts.MarkEmailVerified(ctx, account.ID, now); err != nil {
			return nil, fmt.Errorf("mark email verified: %w", err)
		}
		account.EmailVerified = true
		account.Status = domain.AccountStatusActive
	}

	tokens, err := s.issueTokens(ctx, *account, input.IP, input.UserAgent, now)
	if err != nil {
		return nil, err
	}

	s.finishLogin(ctx, *account, input.IP, input.UserAgent, now)

	sanitized := *account
	sanitized.PasswordHash = ""

	return &LoginResult{Account: sanitized, Tokens: tokens}, nil
}

// Refresh rotates a valid refresh token into a fresh pair. The presented
// token, along with every other outstanding token for the account, is
// revoked in the process.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*LoginResult, error) {
	now := s.now().UTC()

	if err := enforceRateLimit(ctx, s.rateLimits, s.logger, refreshRateLimitScope, input.IP, s.cfg.RateLimit.RefreshMaxAttempts, s.cfg.RateLimit.WindowDuration, now); err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(input.RefreshToken)
	if raw == "" {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.tokens.GetRefreshTokenByHash(ctx, security.HashToken(raw))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	if stored.RevokedAt != nil {
		return nil, ErrInvalidRefreshToken
	}
	if !stored.ExpiresAt.After(now) {
		return nil, ErrExpiredRefreshToken
	}

	account, err := s.accounts.GetByID(ctx, stored.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !account.IsActive || account.Status == domain.AccountStatusDisabled {
		return nil, ErrInactiveAccount
	}

	tokens, err := s.issueTokens(ctx, *account, input.IP, input.UserAgent, now)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "auth.token_refreshed", "account", account.ID, account.ID, input.IP, input.UserAgent, now)

	sanitized := *account
	sanitized.PasswordHash = ""

	return &LoginResult{Account: sanitized, Tokens: tokens}, nil
}

// ParseAccessToken validates a bearer token and returns its claims.
func (s *AuthService) ParseAccessToken(token string) (*security.AccessTokenClaims, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// issueOTP generates and stores a fresh passcode, then publishes the
// delivery event. Storage is a single atomic Redis transaction, so a
// re-login always replaces the previous challenge wholesale.
func (s *AuthService) issueOTP(ctx context.Context, account domain.Account, now time.Time) error {
	code, err := security.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	record, err := s.otps.Store(ctx, otpPurposeLogin, account.ID, code, s.otpTTL())
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if s.events != nil {
		event := domain.OTPIssuedEvent{
			EventID:   uuid.NewString(),
			AccountID: account.ID,
			Email:     account.Email,
			Code:      code,
			Purpose:   otpPurposeLogin,
			IssuedAt:  now,
			ExpiresAt: record.ExpiresAt,
		}
		if err := s.events.PublishOTPIssued(ctx, event); err != nil {
			s.logger.Warn("publish otp issued failed",
				zap.String("account_id", account.ID),
				zap.String("email", logger.MaskEmail(account.Email)),
				zap.Error(err),
			)
		}
	}

	return nil
}

// issueTokens rotates the refresh token family and signs a fresh access
// token.
func (s *AuthService) issueTokens(ctx context.Context, account domain.Account, ip, userAgent string, now time.Time) (*AuthTokens, error) {
	revoked, err := s.tokens.RevokeRefreshTokensForAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh tokens: %w", err)
	}
	if revoked > 0 {
		s.logger.Debug("rotated refresh tokens",
			zap.String("account_id", account.ID),
			zap.Int("revoked", revoked),
		)
	}

	raw, err := security.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refresh := domain.RefreshToken{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		TokenHash: security.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL()),
	}
	if ip = strings.TrimSpace(ip); ip != "" {
		refresh.IP = &ip
	}
	if userAgent = strings.TrimSpace(userAgent); userAgent != "" {
		refresh.UserAgent = &userAgent
	}

	if err := s.tokens.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	access, expiresAt, err := s.jwt.Issue(account)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: raw,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) finishLogin(ctx context.Context, account domain.Account, ip, userAgent string, now time.Time) {
	if err := s.accounts.RecordLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("record login failed", zap.String("account_id", account.ID), zap.Error(err))
	}

	if s.events != nil {
		event := domain.LoginSucceededEvent{
			EventID:   uuid.NewString(),
			AccountID: account.ID,
			Email:     account.Email,
			LoginAt:   now,
		}
		if ip = strings.TrimSpace(ip); ip != "" {
			event.IP = &ip
		}
		if userAgent = strings.TrimSpace(userAgent); userAgent != "" {
			event.UserAgent = &userAgent
		}
		if err := s.events.PublishLoginSucceeded(ctx, event); err != nil {
			s.logger.Warn("publish login succeeded failed", zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	s.recordAudit(ctx, "auth.login", "account", account.ID, account.ID, ip, userAgent, now)
}

func (s *AuthService) recordAudit(ctx context.Context, action, entityType, entityID, actorID, ip, userAgent string, now time.Time) {
	if s.audit == nil {
		return
	}

	entry := domain.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		CreatedAt:  now,
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	if ip = strings.TrimSpace(ip); ip != "" {
		entry.IP = &ip
	}
	if userAgent = strings.TrimSpace(userAgent); userAgent != "" {
		entry.UserAgent = &userAgent
	}

	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuthService) otpTTL() time.Duration {
	if s.cfg != nil && s.cfg.OTP.TTL > 0 {
		return s.cfg.OTP.TTL
	}
	return defaultOTPTTL
}

func (s *AuthService) otpMaxAttempts() int {
	if s.cfg != nil && s.cfg.OTP.MaxAttempts > 0 {
		return s.cfg.OTP.MaxAttempts
	}
	return defaultOTPMaxAttempts
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.cfg != nil && s.cfg.JWT.RefreshTokenTTL > 0 {
		return s.cfg.JWT.RefreshTokenTTL
	}
	return defaultRefreshTTL
}
