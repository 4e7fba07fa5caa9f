package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	identityapp "github.com/vellap/portal/internal/application/identity"
	"github.com/vellap/portal/internal/domain/identity"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/interfaces/http/middleware"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) RegisterCustomer(ctx context.Context, input identityapp.RegisterCustomerInput) *identityapp.RegistrationResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*identityapp.RegistrationResult)
}

type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Login(ctx context.Context, input identityapp.LoginInput) *identityapp.LoginResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*identityapp.LoginResult)
}

func (m *MockSessionManager) Logout(ctx context.Context, sid string) {
	m.Called(ctx, sid)
}

func (m *MockSessionManager) CurrentUser(ctx context.Context, userID uuid.UUID) (*identityapp.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserInfo), args.Error(1)
}

var testCookie = config.SessionConfig{
	TTL:        72 * time.Hour,
	CookieName: "sid",
	Path:       "/",
	SameSite:   "strict",
}

func newPortalRouter(reg *MockRegistrar, sm *MockSessionManager, p *identityapp.Principal) *gin.Engine {
	h := NewPortalHandler(reg, sm, testCookie)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(func(c *gin.Context) {
		if p != nil {
			c.Set(middleware.PrincipalKey, p)
		}
		c.Next()
	})
	r.POST("/portal/register_customer", h.RegisterCustomer)
	r.POST("/portal/login_customer", h.LoginCustomer)
	r.POST("/portal/logout", h.Logout)
	r.GET("/portal/me", h.Me)
	return r
}

func testSession() *identity.Session {
	created := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)
	return &identity.Session{
		ID:        strings.Repeat("ab", 32),
		UserID:    uuid.New(),
		Email:     "jane@example.com",
		Roles:     []string{identity.RoleCustomer},
		CreatedAt: created,
		ExpiresAt: created.Add(72 * time.Hour),
	}
}

func sessionCookie(t *testing.T, header http.Header) *http.Cookie {
	t.Helper()
	resp := http.Response{Header: header}
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func TestPortalHandler_RegisterCustomer(t *testing.T) {
	t.Run("registered and logged in", func(t *testing.T) {
		reg := new(MockRegistrar)
		session := testSession()
		reg.On("RegisterCustomer", mock.Anything, mock.MatchedBy(func(in identityapp.RegisterCustomerInput) bool {
			return in.Email == "jane@example.com" && in.CompanyName == "Acme Ltd" && in.PostalCode == "10115"
		})).Return(&identityapp.RegistrationResult{
			Outcome:   identityapp.OutcomeRegistered,
			Status:    identityapp.StatusSuccess,
			Message:   identityapp.MsgRegistrationSuccessful,
			Email:     "jane@example.com",
			Customer:  "Acme Ltd",
			Redirect:  "/all-products",
			SessionID: session.ID,
			Session:   session,
		})

		w, _ := doRequest(newPortalRouter(reg, nil, nil), "POST", "/portal/register_customer", map[string]string{
			"email":        "jane@example.com",
			"password":     "s3cret-pass",
			"company_name": "Acme Ltd",
			"postal_code":  "10115",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "Registration successful.", body["message"])
		assert.Equal(t, "/all-products", body["redirect"])
		assert.NotContains(t, body, "success", "portal results are not wrapped")
		assert.NotContains(t, body, "Outcome")

		cookie := sessionCookie(t, w.Header())
		require.NotNil(t, cookie)
		assert.Equal(t, session.ID, cookie.Value)
		assert.Equal(t, int((72 * time.Hour).Seconds()), cookie.MaxAge)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		reg.AssertExpectations(t)
	})

	t.Run("existing user", func(t *testing.T) {
		reg := new(MockRegistrar)
		reg.On("RegisterCustomer", mock.Anything, mock.Anything).Return(&identityapp.RegistrationResult{
			Outcome:  identityapp.OutcomeExists,
			Status:   identityapp.StatusExists,
			Message:  identityapp.MsgUserExists,
			Redirect: identityapp.RedirectLogin,
		})

		w, _ := doRequest(newPortalRouter(reg, nil, nil), "POST", "/portal/register_customer",
			`{"email":"jane@example.com","password":"x"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"exists"`)
		assert.Contains(t, w.Body.String(), `"redirect":"login"`)
		assert.Nil(t, sessionCookie(t, w.Header()))
	})

	t.Run("outcome statuses", func(t *testing.T) {
		tests := []struct {
			outcome identityapp.RegistrationOutcome
			want    int
		}{
			{identityapp.OutcomeInvalid, http.StatusBadRequest},
			{identityapp.OutcomeFailed, http.StatusInternalServerError},
		}
		for _, tt := range tests {
			reg := new(MockRegistrar)
			reg.On("RegisterCustomer", mock.Anything, mock.Anything).Return(&identityapp.RegistrationResult{
				Outcome: tt.outcome,
				Status:  identityapp.StatusError,
				Message: identityapp.MsgRegistrationFailed + "boom",
			})
			w, _ := doRequest(newPortalRouter(reg, nil, nil), "POST", "/portal/register_customer",
				`{"email":"jane@example.com","password":"x"}`)
			assert.Equal(t, tt.want, w.Code, string(tt.outcome))
		}
	})

	t.Run("form validation", func(t *testing.T) {
		reg := new(MockRegistrar)
		w, _ := doRequest(newPortalRouter(reg, nil, nil), "POST", "/portal/register_customer",
			`{"email":"not-an-email"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body PortalMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body.Status)
		assert.True(t, strings.HasPrefix(body.Message, identityapp.MsgRegistrationFailed))
		assert.Contains(t, body.Message, "email: Invalid email format")
		assert.Contains(t, body.Message, "password: This field is required")
		reg.AssertNotCalled(t, "RegisterCustomer", mock.Anything, mock.Anything)
	})
}

func TestPortalHandler_LoginCustomer(t *testing.T) {
	t.Run("success sets cookie", func(t *testing.T) {
		sm := new(MockSessionManager)
		session := testSession()
		sm.On("Login", mock.Anything, identityapp.LoginInput{Email: "jane@example.com", Password: "pw"}).
			Return(&identityapp.LoginResult{
				Status:    identityapp.StatusSuccess,
				Message:   identityapp.MsgLoginSuccessful,
				SessionID: session.ID,
				Email:     "jane@example.com",
				Redirect:  "/all-products",
				Token:     "jwt",
				Session:   session,
			})

		w, _ := doRequest(newPortalRouter(nil, sm, nil), "POST", "/portal/login_customer",
			`{"email":"jane@example.com","password":"pw"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"session_id":"`+session.ID+`"`)
		cookie := sessionCookie(t, w.Header())
		require.NotNil(t, cookie)
		assert.Equal(t, session.ID, cookie.Value)
	})

	t.Run("failure is 401 with generic message", func(t *testing.T) {
		sm := new(MockSessionManager)
		sm.On("Login", mock.Anything, mock.Anything).Return(&identityapp.LoginResult{
			Status:  identityapp.StatusError,
			Message: identityapp.MsgLoginFailed,
		})

		w, _ := doRequest(newPortalRouter(nil, sm, nil), "POST", "/portal/login_customer",
			`{"email":"jane@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"Login failed. Check credentials."}`, w.Body.String())
		assert.Nil(t, sessionCookie(t, w.Header()))
	})

	t.Run("malformed body", func(t *testing.T) {
		sm := new(MockSessionManager)
		w, _ := doRequest(newPortalRouter(nil, sm, nil), "POST", "/portal/login_customer", `{"email":`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), identityapp.MsgLoginFailed)
		sm.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestPortalHandler_Logout(t *testing.T) {
	t.Run("principal session", func(t *testing.T) {
		sm := new(MockSessionManager)
		sm.On("Logout", mock.Anything, "from-token").Return()
		p := &identityapp.Principal{UserID: uuid.New(), SessionID: "from-token", Method: identityapp.AuthMethodToken}

		w, _ := doRequest(newPortalRouter(nil, sm, p), "POST", "/portal/logout", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		sm.AssertExpectations(t)

		cookie := sessionCookie(t, w.Header())
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	})

	t.Run("cookie only", func(t *testing.T) {
		sm := new(MockSessionManager)
		sm.On("Logout", mock.Anything, "from-cookie").Return()

		w, _ := doRequest(newPortalRouter(nil, sm, nil), "POST", "/portal/logout", nil, "Cookie", "sid=from-cookie")
		assert.Equal(t, http.StatusOK, w.Code)
		sm.AssertExpectations(t)
	})

	t.Run("anonymous", func(t *testing.T) {
		sm := new(MockSessionManager)
		sm.On("Logout", mock.Anything, "").Return()

		w, _ := doRequest(newPortalRouter(nil, sm, nil), "POST", "/portal/logout", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","message":"Logged out."}`, w.Body.String())
	})
}

func TestPortalHandler_Me(t *testing.T) {
	t.Run("returns current user", func(t *testing.T) {
		sm := new(MockSessionManager)
		p := &identityapp.Principal{UserID: uuid.New(), Email: "jane@example.com", Method: identityapp.AuthMethodSession}
		sm.On("CurrentUser", mock.Anything, p.UserID).Return(&identityapp.UserInfo{
			ID:       p.UserID,
			Email:    p.Email,
			FullName: "Jane Doe",
			UserType: "Website User",
			Roles:    []string{identity.RoleCustomer},
			Customer: "Jane Doe",
		}, nil)

		w, resp := doRequest(newPortalRouter(nil, sm, p), "GET", "/portal/me", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Contains(t, w.Body.String(), `"customer":"Jane Doe"`)
	})

	t.Run("user deleted", func(t *testing.T) {
		sm := new(MockSessionManager)
		p := &identityapp.Principal{UserID: uuid.New()}
		sm.On("CurrentUser", mock.Anything, p.UserID).Return(nil, shared.ErrNotFound)

		w, _ := doRequest(newPortalRouter(nil, sm, p), "GET", "/portal/me", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		w, _ := doRequest(newPortalRouter(nil, new(MockSessionManager), nil), "GET", "/portal/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
