package types

// Fingerprint is a short identifier for public keys presented to operators.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
