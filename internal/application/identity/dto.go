package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/identity"
)

// Portal result statuses
const (
	StatusSuccess = "success"
	StatusExists  = "exists"
	StatusError   = "error"
)

// Portal result messages
const (
	MsgRegistrationSuccessful = "Registration successful."
	MsgUserExists             = "User already exists. Please log in."
	MsgRegistrationFailed     = "Registration failed: "
	MsgLoginSuccessful        = "Login successful."
	MsgLoginFailed            = "Login failed. Check credentials."
)

// RedirectLogin sends an existing user to the login page
const RedirectLogin = "login"

// RegistrationOutcome classifies a register_customer call
type RegistrationOutcome string

const (
	OutcomeRegistered RegistrationOutcome = "registered"
	OutcomeExists     RegistrationOutcome = "exists"
	OutcomeInvalid    RegistrationOutcome = "invalid"
	OutcomeFailed     RegistrationOutcome = "failed"
)

// RegisterCustomerInput contains the fields of the registration form
type RegisterCustomerInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Phone        string
	CompanyName  string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string
}

// RegistrationResult is the flat portal response of register_customer.
// Session fields are filled when the user was logged in right away.
type RegistrationResult struct {
	Outcome   RegistrationOutcome `json:"-"`
	Status    string              `json:"status"`
	Message   string              `json:"message"`
	Email     string              `json:"email,omitempty"`
	Customer  string              `json:"customer,omitempty"`
	Redirect  string              `json:"redirect,omitempty"`
	SessionID string              `json:"session_id,omitempty"`
	Token     string              `json:"token,omitempty"`
	APIKey    string              `json:"api_key,omitempty"`
	APISecret string              `json:"api_secret,omitempty"`

	Session *identity.Session `json:"-"`
}

// LoginInput contains the credentials of login_customer
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the flat portal response of login_customer
type LoginResult struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	SessionID string     `json:"session_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Redirect  string     `json:"redirect,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	APIKey    string     `json:"api_key,omitempty"`
	APISecret string     `json:"api_secret,omitempty"`

	Session *identity.Session `json:"-"`
}

// Succeeded reports whether the login established a session
func (r *LoginResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess && r.SessionID != ""
}

// AuthMethod names how a request was authenticated
type AuthMethod string

const (
	AuthMethodSession AuthMethod = "session"
	AuthMethodToken   AuthMethod = "token"
	AuthMethodAPIKey  AuthMethod = "api_key"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Roles     []string
	SessionID string
	Method    AuthMethod
}

// HasRole reports whether the principal holds role
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserInfo describes the logged-in user for the portal
type UserInfo struct {
	ID        uuid.UUID  `json:"id" swaggertype:"string" format:"uuid"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone,omitempty"`
	UserType  string     `json:"user_type"`
	Roles     []string   `json:"roles"`
	Customer  string     `json:"customer,omitempty"`
	LastLogin *time.Time `json:"last_login_at,omitempty"`
}
