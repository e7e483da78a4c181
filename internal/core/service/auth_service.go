package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountExists      = errors.New("username or email already registered")
	ErrLoginLocked        = errors.New("too many failed login attempts")
)

const (
	maxLoginAttempts = 5
	loginLockout     = 15 * time.Minute
)

// TokenIssuer signs session tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(account domain.Account) (string, error)
}

type RegisterRequest struct {
	Username string
	Password string
	Email    string
	Phone    string
	DOB      *time.Time
	Role     string
}

type AuthService struct {
	accounts   port.AccountRepository
	cache      port.CacheRepository
	tokens     TokenIssuer
	bcryptCost int
	opts       options
}

// NewAuthService wires account storage and token signing. cache may be nil,
// which disables the login lockout.
func NewAuthService(accounts port.AccountRepository, cache port.CacheRepository, tokens TokenIssuer, opts ...Option) *AuthService {
	return &AuthService{
		accounts:   accounts,
		cache:      cache,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		opts:       buildOptions(opts),
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (domain.Account, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Password == "" || req.Email == "" {
		return domain.Account{}, fmt.Errorf("%w: username, password and email are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return domain.Account{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.CreateAccount(ctx, domain.Account{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		DOB:          req.DOB,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    s.opts.now(),
	})
	if errors.Is(err, port.ErrDuplicate) {
		return domain.Account{}, ErrAccountExists
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.opts.audit.Record(ctx, domain.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    account.ID,
		Action:     domain.AuditAccountCreate,
		Resource:   "account",
		ResourceID: strconv.FormatInt(account.ID, 10),
		Detail:     string(account.Role),
		CreatedAt:  s.opts.now(),
	})
	return account, nil
}

// Login checks the password and returns the account with a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Account, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Account{}, "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	if s.cache != nil {
		remaining, err := s.cache.LoginLockRemaining(ctx, username)
		if err != nil {
			log.Printf("auth: check login lock for %s: %v", username, err)
		} else if remaining > 0 {
			return domain.Account{}, "", fmt.Errorf("%w: retry in %s", ErrLoginLocked, remaining.Round(time.Second))
		}
	}

	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Account{}, "", s.loginFailed(ctx, username)
	}
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return domain.Account{}, "", s.loginFailed(ctx, username)
	}

	if s.cache != nil {
		if err := s.cache.ClearLoginFailures(ctx, username); err != nil {
			log.Printf("auth: clear login failures for %s: %v", username, err)
		}
	}

	token, err := s.tokens.Issue(*account)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("issue token: %w", err)
	}
	return *account, token, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username string) error {
	if s.cache == nil {
		return ErrInvalidCredentials
	}

	attempts, err := s.cache.RecordLoginFailure(ctx, username)
	if err != nil {
		log.Printf("auth: record login failure for %s: %v", username, err)
		return ErrInvalidCredentials
	}

	if attempts >= maxLoginAttempts {
		if err := s.cache.LockLogin(ctx, username, loginLockout); err != nil {
			log.Printf("auth: lock login for %s: %v", username, err)
		}
		if err := s.cache.ClearLoginFailures(ctx, username); err != nil {
			log.Printf("auth: clear login failures for %s: %v", username, err)
		}
	}
	return ErrInvalidCredentials
}
