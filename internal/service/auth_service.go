package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/repository"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthConfig defines configuration for session tokens.
type AuthConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// AuthService authenticates users through the login guard and issues session tokens.
// Unknown users and wrong passwords produce the same message so that callers cannot
// probe which identities exist.
type AuthService struct {
	users     authUserRepository
	guard     *LoginGuard
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, guard *LoginGuard, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	return &AuthService{users: users, guard: guard, validator: validate, logger: logger, metrics: metrics, config: config, now: time.Now}
}

// Authenticate runs the login checks in order: rate limit, account, secret.
func (s *AuthService) Authenticate(ctx context.Context, identity, secret string) (models.LoginOutcome, *models.User, error) {
	outcome, err := s.guard.Check(ctx, identity)
	if err != nil {
		return "", nil, err
	}
	if outcome == models.LoginLocked {
		return models.LoginLocked, nil, nil
	}

	user, err := s.users.FindByUsername(ctx, identity)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", nil, appErrors.Storage(err, "failed to load users")
		}
		return s.fail(ctx, identity)
	}
	if !user.Active() {
		return models.LoginAccountDisabled, nil, nil
	}
	if !PasswordMatches(user.Password, secret) {
		return s.fail(ctx, identity)
	}
	if err := s.guard.RecordSuccess(ctx, identity); err != nil {
		return "", nil, err
	}
	return models.LoginAllowed, user, nil
}

func (s *AuthService) fail(ctx context.Context, identity string) (models.LoginOutcome, *models.User, error) {
	if err := s.guard.RecordFailure(ctx, identity); err != nil {
		return "", nil, err
	}
	return models.LoginBadCredentials, nil, nil
}

// Login authenticates the request and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	outcome, user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveLogin(string(outcome))

	switch outcome {
	case models.LoginLocked:
		s.logger.Warn("login locked", zap.String("username", req.Username))
		return nil, appErrors.ErrAccountLocked
	case models.LoginAccountDisabled:
		s.logger.Warn("login to disabled account", zap.String("username", req.Username))
		return nil, appErrors.ErrInactiveAccount
	case models.LoginBadCredentials:
		s.logger.Warn("login failed", zap.String("username", req.Username))
		return nil, appErrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}
	issuedAt := s.now().UTC()
	s.logger.Info("login succeeded", zap.String("username", user.Username), zap.String("role", string(user.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(expiresAt.Sub(issuedAt).Seconds()),
		IssuedAt:    issuedAt,
		User:        models.UserInfo{Username: user.Username, Role: user.Role},
	}, nil
}

// ValidateToken verifies a session token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateToken(user *models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims := &models.JWTClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// HashPassword produces the bcrypt hash stored in the user table.
func HashPassword(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordMatches compares a secret against a stored bcrypt hash. Rows written before
// hashing was introduced hold the plain secret and are compared in constant time.
func PasswordMatches(stored, secret string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1
}

func isBcryptHash(value string) bool {
	return len(value) == 60 && (strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$"))
}
