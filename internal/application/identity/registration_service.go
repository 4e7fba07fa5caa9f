package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/partner"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/infrastructure/phone"
	"github.com/vellap/portal/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxNameAttempts bounds the "<name> - N" suffix search for customer names
const maxNameAttempts = 100

// RegistrationMetrics receives registration outcomes
type RegistrationMetrics interface {
	RecordRegistration(ctx context.Context, outcome string)
}

// RegistrationService registers portal customers
type RegistrationService struct {
	txScope        TransactionScope
	userRepo       identity.UserRepository
	authService    *AuthService
	phones         *phone.Normalizer
	config         config.PortalConfig
	eventPublisher shared.EventPublisher
	metrics        RegistrationMetrics
	logger         *zap.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	txScope TransactionScope,
	userRepo identity.UserRepository,
	authService *AuthService,
	phones *phone.Normalizer,
	cfg config.PortalConfig,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		txScope:     txScope,
		userRepo:    userRepo,
		authService: authService,
		phones:      phones,
		config:      cfg,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for registration events
func (s *RegistrationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the registration outcome recorder
func (s *RegistrationService) SetMetrics(m RegistrationMetrics) {
	s.metrics = m
}

// RegisterCustomer creates a website user, its customer, the Customer role
// grant and an address in one transaction. The result is always non-nil; its
// Outcome tells how the call ended.
func (s *RegistrationService) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) *RegistrationResult {
	input.Email = identity.NormalizeEmail(input.Email)
	ctx, span := telemetry.StartServiceSpan(ctx, "registration", "register",
		telemetry.WithAttribute(telemetry.SpanAttrEmail, input.Email),
	)
	defer span.End()

	result := s.register(ctx, input)
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, string(result.Outcome))
	if s.metrics != nil {
		s.metrics.RecordRegistration(ctx, string(result.Outcome))
	}
	return result
}

func (s *RegistrationService) register(ctx context.Context, input RegisterCustomerInput) *RegistrationResult {
	log := logger.WithLogger(ctx, s.logger).With(zap.String("email", input.Email))

	if input.Email == "" || input.Password == "" {
		return failure(OutcomeInvalid, errors.New("email and password are required"))
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		log.Error("Failed to check existing user", zap.Error(err))
		return failure(OutcomeFailed, err)
	}
	if exists {
		return existsResult(input.Email)
	}

	// numbers libphonenumber cannot place are stored as entered
	if normalized, err := s.phones.Normalize(input.Phone); err == nil {
		input.Phone = normalized
	} else {
		log.Debug("Keeping phone as entered", zap.String("phone", input.Phone), zap.Error(err))
		input.Phone = strings.TrimSpace(input.Phone)
	}

	var (
		user     *identity.User
		customer *partner.Customer
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		user, customer, txErr = s.createRecords(ctx, repos, input)
		return txErr
	})
	if err != nil {
		switch outcome := classify(err); outcome {
		case OutcomeExists:
			return existsResult(input.Email)
		case OutcomeInvalid:
			log.Info("Registration rejected", zap.Error(err))
			return failure(outcome, err)
		default:
			log.Error("Registration failed", zap.Error(err))
			return failure(outcome, err)
		}
	}

	s.publishEvents(ctx, user, customer)
	log.Info("Customer registered",
		zap.String("user_id", user.ID.String()),
		zap.String("customer", customer.Name),
	)

	result := &RegistrationResult{
		Outcome:  OutcomeRegistered,
		Status:   StatusSuccess,
		Message:  MsgRegistrationSuccessful,
		Email:    user.Email,
		Customer: customer.Name,
		Redirect: s.config.LoginRedirect,
	}
	if s.config.LoginAfterRegister && s.authService != nil {
		login := s.authService.Login(ctx, LoginInput{Email: input.Email, Password: input.Password})
		if login.Succeeded() {
			result.SessionID = login.SessionID
			result.Token = login.Token
			result.APIKey = login.APIKey
			result.APISecret = login.APISecret
			result.Session = login.Session
		}
	}
	return result
}

func (s *RegistrationService) createRecords(
	ctx context.Context,
	repos TransactionalRepositories,
	input RegisterCustomerInput,
) (*identity.User, *partner.Customer, error) {
	user, err := identity.NewWebsiteUser(input.Email, input.FirstName, input.LastName, input.Phone, input.Password)
	if err != nil {
		return nil, nil, err
	}
	grants, err := repos.UserRepo().CountRoleGrants(ctx, user.ID, identity.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}
	if grants == 0 {
		if _, err := user.GrantRole(identity.RoleCustomer); err != nil {
			return nil, nil, err
		}
	}
	if err := repos.UserRepo().Create(ctx, user); err != nil {
		return nil, nil, err
	}

	customer, err := partner.NewCustomerFromProfile(partner.CustomerProfile{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		CompanyName: input.CompanyName,
		Email:       user.Email,
		Phone:       user.Phone,
	})
	if err != nil {
		return nil, nil, err
	}
	customer.LinkUser(user.ID)
	name, err := uniqueCustomerName(ctx, repos.CustomerRepo(), customer.CustomerName)
	if err != nil {
		return nil, nil, err
	}
	customer.Rename(name)
	if err := repos.CustomerRepo().Create(ctx, customer); err != nil {
		return nil, nil, err
	}

	address, err := partner.NewAddress(customer.CustomerName, partner.PostalFields{
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
		Phone:        user.Phone,
	})
	if err != nil {
		return nil, nil, err
	}
	if address.Name, err = repos.AddressRepo().NextName(ctx); err != nil {
		return nil, nil, err
	}
	address.AddLink(partner.LinkDoctypeCustomer, customer.Name)
	address.AddLink(partner.LinkDoctypeUser, user.Email)
	if err := repos.AddressRepo().Create(ctx, address); err != nil {
		return nil, nil, err
	}

	return user, customer, nil
}

func uniqueCustomerName(ctx context.Context, repo partner.CustomerRepository, base string) (string, error) {
	for n := 0; n < maxNameAttempts; n++ {
		candidate := partner.DedupedName(base, n)
		taken, err := repo.ExistsByName(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", shared.NewDomainErrorf("ALREADY_EXISTS", "no free customer name for %q", base)
}

func (s *RegistrationService) publishEvents(ctx context.Context, user *identity.User, customer *partner.Customer) {
	events := append(user.GetDomainEvents(), customer.GetDomainEvents()...)
	user.ClearDomainEvents()
	customer.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to publish registration events", zap.Error(err))
	}
}

// classify maps a transaction error to a registration outcome
func classify(err error) RegistrationOutcome {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return OutcomeExists
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && strings.HasPrefix(domainErr.Code, "INVALID_") {
		return OutcomeInvalid
	}
	return OutcomeFailed
}

func failure(outcome RegistrationOutcome, err error) *RegistrationResult {
	return &RegistrationResult{
		Outcome: outcome,
		Status:  StatusError,
		Message: MsgRegistrationFailed + err.Error(),
	}
}

func existsResult(email string) *RegistrationResult {
	return &RegistrationResult{
		Outcome:  OutcomeExists,
		Status:   StatusExists,
		Message:  MsgUserExists,
		Email:    email,
		Redirect: RedirectLogin,
	}
}
