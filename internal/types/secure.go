package types

// redactedPlaceholder is the string used to replace secret values in logs and serialization.
const redactedPlaceholder = "[REDACTED]"

// SecretString is a string type that prevents accidental logging or serialization
// of sensitive values. It overrides String() and MarshalJSON() to return a redacted
// placeholder, ensuring secrets are never leaked through fmt functions or JSON output.
//
// An empty SecretString represents an unset secret and renders as an empty
// string rather than the placeholder, so "credential missing" and "credential
// present" stay distinguishable in output without hinting at the value itself.
//
// Use Unmask() to retrieve the raw plaintext value when it is genuinely needed
// (e.g., building an Authorization header).
type SecretString string

// String returns a redacted placeholder instead of the raw value.
// This is invoked by fmt.Sprintf, fmt.Println, and any other function
// that uses the fmt.Stringer interface.
func (s SecretString) String() string {
	if s == "" {
		return ""
	}
	return redactedPlaceholder
}

// MarshalJSON returns the redacted placeholder (or an empty string for an
// unset secret) as a JSON string. This prevents secret values from being
// included in JSON-serialized config dumps or structured log entries.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + redactedPlaceholder + `"`), nil
}

// IsSet reports whether the secret holds a non-empty value. Configuration
// validation uses this to reject unset credentials before any request is made.
func (s SecretString) IsSet() bool {
	return s != ""
}

// Unmask returns the raw plaintext value of the secret.
// Usage of this method should be strictly audited and limited to cases
// where the actual secret value is required (e.g., constructing HTTP
// Authorization headers). Callers must never log or persist the result.
func (s SecretString) Unmask() string {
	return string(s)
}
