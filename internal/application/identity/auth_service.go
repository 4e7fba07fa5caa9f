package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/partner"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/auth"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LoginMetrics receives login outcomes
type LoginMetrics interface {
	RecordLogin(ctx context.Context, success bool)
}

// AuthService logs portal users in and resolves the principal of requests
type AuthService struct {
	userRepo       identity.UserRepository
	customerRepo   partner.CustomerRepository
	sessions       identity.SessionStore
	jwtService     *auth.JWTService
	sessionTTL     time.Duration
	config         config.PortalConfig
	clock          shared.Clock
	eventPublisher shared.EventPublisher
	metrics        LoginMetrics
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	customerRepo partner.CustomerRepository,
	sessions identity.SessionStore,
	jwtService *auth.JWTService,
	sessionCfg config.SessionConfig,
	portalCfg config.PortalConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		sessions:     sessions,
		jwtService:   jwtService,
		sessionTTL:   sessionCfg.TTL,
		config:       portalCfg,
		clock:        shared.SystemClock{},
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for UserLoggedIn events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the login outcome recorder
func (s *AuthService) SetMetrics(m LoginMetrics) {
	s.metrics = m
}

// SetClock replaces the wall clock, used by tests
func (s *AuthService) SetClock(c shared.Clock) {
	s.clock = c
}

// Login authenticates a portal user and opens a session. Every failure
// yields the same error result, whatever its cause.
func (s *AuthService) Login(ctx context.Context, input LoginInput) *LoginResult {
	email := identity.NormalizeEmail(input.Email)
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login",
		telemetry.WithAttribute(telemetry.SpanAttrEmail, email),
	)
	defer span.End()

	result, err := s.login(ctx, email, input.Password)
	if s.metrics != nil {
		s.metrics.RecordLogin(ctx, err == nil)
	}
	if err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Customer login failed",
			zap.String("email", email),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return &LoginResult{Status: StatusError, Message: MsgLoginFailed}
	}

	logger.WithLogger(ctx, s.logger).Info("Customer logged in",
		zap.String("email", email),
		zap.Bool("api_keys_issued", result.APIKey != ""),
	)
	return result
}

func (s *AuthService) login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.VerifyPassword(password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "password mismatch")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("USER_DISABLED", "user is disabled")
	}

	sid, err := auth.NewSessionID()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	session := identity.NewSession(sid, user, now, s.sessionTTL)

	user.RecordLogin(now)
	var apiKey, apiSecret string
	if s.config.IssueAPIKeys {
		if apiKey, apiSecret, err = user.RotateAPICredentials(); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	token, err := s.jwtService.GenerateAccessToken(auth.TokenInput{
		UserID:    user.ID,
		Email:     user.Email,
		Roles:     user.Roles,
		SessionID: sid,
	})
	if err != nil {
		_ = s.sessions.Delete(ctx, sid)
		return nil, err
	}

	s.publishEvents(ctx, user)

	return &LoginResult{
		Status:    StatusSuccess,
		Message:   MsgLoginSuccessful,
		SessionID: sid,
		Email:     user.Email,
		Redirect:  s.config.LoginRedirect,
		Token:     token.Token,
		ExpiresAt: &token.ExpiresAt,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Session:   session,
	}, nil
}

// Logout ends the session. Unknown sessions are ignored.
func (s *AuthService) Logout(ctx context.Context, sid string) {
	if sid == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to delete session", zap.Error(err))
	}
}

// ResolveSession returns the principal of a live session
func (s *AuthService) ResolveSession(ctx context.Context, sid string) (*Principal, error) {
	session, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &Principal{
		UserID:    session.UserID,
		Email:     session.Email,
		Roles:     session.Roles,
		SessionID: session.ID,
		Method:    AuthMethodSession,
	}, nil
}

// AuthenticateToken validates an access token. The token's session must
// still exist, so logging out revokes it.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("UNAUTHORIZED", "Invalid or expired token", err)
	}
	principal, err := s.ResolveSession(ctx, claims.SessionID)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("UNAUTHORIZED", "Session has ended", err)
	}
	principal.Method = AuthMethodToken
	return principal, nil
}

// AuthenticateAPIKey checks an api_key/api_secret pair
func (s *AuthService) AuthenticateAPIKey(ctx context.Context, apiKey, apiSecret string) (*Principal, error) {
	user, err := s.userRepo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.CanLogin() || !user.VerifyAPISecret(apiSecret) {
		return nil, shared.ErrUnauthorized
	}
	return &Principal{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
		Method: AuthMethodAPIKey,
	}, nil
}

// CurrentUser describes the user behind a principal
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := &UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName(),
		Phone:     user.Phone,
		UserType:  string(user.UserType),
		Roles:     user.Roles,
		LastLogin: user.LastLoginAt,
	}
	customer, err := s.customerRepo.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		info.Customer = customer.Name
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	return info, nil
}

func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to publish login events", zap.Error(err))
	}
}
