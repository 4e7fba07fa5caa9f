package identity

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/vellap/portal/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserType separates portal users from desk users
type UserType string

const (
	UserTypeWebsite UserType = "Website User"
	UserTypeSystem  UserType = "System User"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a login identity
// It is the aggregate root for credentials and role grants
type User struct {
	shared.BaseAggregateRoot
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	PasswordHash  string
	Enabled       bool
	UserType      UserType
	Roles         []string // Stored in separate table, loaded by repository
	APIKey        string
	APISecretHash string
	LastLoginAt   *time.Time
}

// NewWebsiteUser creates an enabled portal user.
// The first name falls back to the local part of the email.
func NewWebsiteUser(email, firstName, lastName, phone, password string) (*User, error) {
	return newUser(UserTypeWebsite, email, firstName, lastName, phone, password)
}

// NewSystemUser creates an enabled desk user
func NewSystemUser(email, firstName, lastName, password string) (*User, error) {
	return newUser(UserTypeSystem, email, firstName, lastName, "", password)
}

func newUser(userType UserType, email, firstName, lastName, phone, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashSecret(password)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}

	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		firstName = strings.Split(email, "@")[0]
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         firstName,
		LastName:          strings.TrimSpace(lastName),
		Phone:             strings.TrimSpace(phone),
		PasswordHash:      passwordHash,
		Enabled:           true,
		UserType:          userType,
		Roles:             make([]string, 0),
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashSecret(newPassword)
	if err != nil {
		return shared.NewDomainErrorWithCause("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}

	u.PasswordHash = passwordHash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// GrantRole adds a role if the user does not hold it yet.
// Returns false when the role was already granted.
func (u *User) GrantRole(role string) (bool, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return false, shared.NewDomainError("INVALID_ROLE", "Role cannot be empty")
	}
	if u.HasRole(role) {
		return false, nil
	}

	u.Roles = append(u.Roles, role)
	u.Touch()
	u.AddDomainEvent(NewUserRoleGrantedEvent(u, role))
	return true, nil
}

// HasRole reports whether the user holds the role
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// CanLogin reports whether the user may authenticate
func (u *User) CanLogin() bool {
	return u.Enabled
}

// Disable blocks future logins
func (u *User) Disable() {
	u.Enabled = false
	u.Touch()
	u.IncrementVersion()
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
	u.AddDomainEvent(NewUserLoggedInEvent(u, at))
}

// RotateAPICredentials issues a new API secret, generating the key on first use.
// The plain secret is returned once; only its hash is kept.
func (u *User) RotateAPICredentials() (apiKey, apiSecret string, err error) {
	if u.APIKey == "" {
		if u.APIKey, err = randomToken(8); err != nil {
			return "", "", err
		}
	}
	if apiSecret, err = randomToken(8); err != nil {
		return "", "", err
	}
	hash, err := hashSecret(apiSecret)
	if err != nil {
		return "", "", shared.NewDomainErrorWithCause("API_SECRET_HASH_ERROR", "Failed to hash API secret", err)
	}

	u.APISecretHash = hash
	u.Touch()
	u.IncrementVersion()
	return u.APIKey, apiSecret, nil
}

// VerifyAPISecret checks an API secret against the stored hash
func (u *User) VerifyAPISecret(secret string) bool {
	if u.APISecretHash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.APISecretHash), []byte(secret)) == nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
