// Package totp implements time-based one-time password generation and validation.
package totp

import (
	"net/url"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"cinevault/config"
	"cinevault/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultIssuer = "CineVault"

// Interoperable defaults. Several authenticator apps silently ignore other
// algorithms or periods, so every generated or normalized URI pins these.
const (
	uriAlgorithm = "SHA1"
	uriDigits    = "6"
	uriPeriod    = "30"
)

type totpService struct {
	issuer string
}

// NewTOTPService creates a new TOTP service instance.
func NewTOTPService(cfg *config.Config) service.TOTPService {
	issuer := defaultIssuer
	if cfg != nil && cfg.Auth != nil && cfg.Auth.MFA != nil && cfg.Auth.MFA.Issuer != "" {
		issuer = cfg.Auth.MFA.Issuer
	}

	return &totpService{issuer: issuer}
}

// GenerateKey creates a fresh secret and provisioning URI for the account name.
func (s *totpService) GenerateKey(accountName string) (*service.TOTPKey, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate TOTP key")
	}

	uri, err := s.NormalizeURI(key.URL())
	if err != nil {
		return nil, err
	}

	return &service.TOTPKey{
		Secret: key.Secret(),
		URI:    uri,
	}, nil
}

// Validate reports whether the code is valid for the secret at the current time.
func (s *totpService) Validate(code, secret string) bool {
	return totp.Validate(code, secret)
}

// NormalizeURI rewrites a provisioning URI so its algorithm, digits and period
// parameters match the interoperable defaults.
func (s *totpService) NormalizeURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse provisioning URI")
	}
	if parsed.Scheme != "otpauth" {
		return "", errors.Errorf("not a provisioning URI: %s scheme", parsed.Scheme)
	}

	params := parsed.Query()
	params.Set("algorithm", uriAlgorithm)
	params.Set("digits", uriDigits)
	params.Set("period", uriPeriod)
	parsed.RawQuery = params.Encode()

	return parsed.String(), nil
}
