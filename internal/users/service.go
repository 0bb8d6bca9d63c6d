package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/portfolioapi/internal/apierr"
	"github.com/2beens/portfolioapi/internal/auth"
	"github.com/2beens/portfolioapi/internal/telemetry/metrics"
	"github.com/2beens/portfolioapi/internal/telemetry/tracing"
	"github.com/2beens/portfolioapi/pkg"
	"github.com/2beens/portfolioapi/pkg/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrUserExists         = apierr.Conflict("User already exists")
	ErrInvalidCredentials = apierr.New(http.StatusUnauthorized, "Invalid credentials")
)

// compared against when the email is unknown, so both failures cost the same
const timingPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i"

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users_test

type usersRepo interface {
	Create(ctx context.Context, user *User) error
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type tokenIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, claims *auth.Claims) error
}

type Service struct {
	repo    usersRepo
	tokens  tokenIssuer
	metrics *metrics.Manager

	// ability to inject password hashing (for unit testing, bcrypt with the real cost is slow)
	HashPasswordFunc  func(password string) (string, error)
	CheckPasswordFunc func(password, hash string) bool
}

func NewService(repo usersRepo, tokens tokenIssuer, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:              repo,
		tokens:            tokens,
		metrics:           metricsManager,
		HashPasswordFunc:  pkg.HashPassword,
		CheckPasswordFunc: pkg.CheckPasswordHash,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (_ *User, _ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.register")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, "", err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, "", fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return nil, "", ErrUserExists
	}

	passwordHash, err := s.HashPasswordFunc(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// lost the race against a concurrent registration
		if pkg.IsUniqueViolationError(err) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterUserRegistrations.Inc()
	}
	log.Debugf("new user registered: [%s] %s", user.Username, user.ID)

	return user, token, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (_ *User, _ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.login")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, "", err
	}

	user, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, "", fmt.Errorf("get user by email: %w", err)
		}
		s.CheckPasswordFunc(in.Password, timingPasswordHash)
		s.failedLogin()
		return nil, "", ErrInvalidCredentials
	}

	if !s.CheckPasswordFunc(in.Password, user.PasswordHash) {
		s.failedLogin()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

func (s *Service) failedLogin() {
	if s.metrics != nil {
		s.metrics.CounterFailedLogins.Inc()
	}
}

func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.logout")
	defer span.End()

	if err := s.tokens.Revoke(ctx, claims); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.me")
	defer span.End()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apierr.NotFound("User not found")
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// Resolve returns the identity of an existing user, ErrUserNotFound if the user is gone
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (*auth.Identity, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}
