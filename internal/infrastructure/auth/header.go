package auth

import "strings"

// Credentials found in an Authorization header
type Credentials struct {
	BearerToken string
	APIKey      string
	APISecret   string
}

// ParseAuthorization reads "Bearer <jwt>" or "token <api_key>:<api_secret>".
// ok is false for an empty or unrecognised header.
func ParseAuthorization(header string) (Credentials, bool) {
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return Credentials{}, false
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		return Credentials{BearerToken: value}, true
	case "token":
		key, secret, ok := strings.Cut(value, ":")
		if !ok || key == "" || secret == "" {
			return Credentials{}, false
		}
		return Credentials{APIKey: key, APISecret: secret}, true
	default:
		return Credentials{}, false
	}
}
