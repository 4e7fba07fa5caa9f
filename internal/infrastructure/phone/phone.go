// Package phone normalises user-entered phone numbers to E.164.
package phone

import (
	"strings"

	"github.com/ttacon/libphonenumber"
	"github.com/vellap/portal/internal/domain/shared"
)

// ErrInvalidPhone is returned for numbers that do not parse or are not valid
// for their region.
var ErrInvalidPhone = shared.NewDomainError("INVALID_PHONE", "Phone number is not valid")

// Normalizer parses numbers without a country code against a default region
type Normalizer struct {
	defaultRegion string
}

// NewNormalizer creates a normalizer. region is an ISO 3166-1 alpha-2 code;
// an empty region only accepts numbers written with a leading +.
func NewNormalizer(region string) *Normalizer {
	return &Normalizer{defaultRegion: strings.ToUpper(strings.TrimSpace(region))}
}

// Normalize returns the E.164 form of raw. An empty input stays empty.
func (n *Normalizer) Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	region := n.defaultRegion
	if region == "" {
		region = "ZZ"
	}
	number, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return "", shared.NewDomainErrorWithCause(ErrInvalidPhone.Code, ErrInvalidPhone.Message, err)
	}
	if !libphonenumber.IsValidNumber(number) {
		return "", ErrInvalidPhone
	}
	return libphonenumber.Format(number, libphonenumber.E164), nil
}
