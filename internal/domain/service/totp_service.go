package service

// TOTPKey carries the generated secret material for a new enrollment.
type TOTPKey struct {
	Secret string // Base32-encoded shared secret.
	URI    string // otpauth:// provisioning URI for authenticator apps.
}

// TOTPService defines the interface for time-based one-time password operations.
// Generated keys always use the interoperable defaults (SHA-1, 6 digits, 30s
// period) so any mainstream authenticator app can consume the provisioning URI.
type TOTPService interface {
	// GenerateKey creates a fresh secret and provisioning URI for the account name.
	GenerateKey(accountName string) (*TOTPKey, error)

	// Validate reports whether the code is valid for the secret at the current time.
	Validate(code, secret string) bool

	// NormalizeURI rewrites a provisioning URI so its algorithm, digits and
	// period parameters match the interoperable defaults.
	NormalizeURI(uri string) (string, error)
}
