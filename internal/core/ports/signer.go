package ports

import "io"

// PlanSigner defines the interface for signing and checking serialized build plans.
//
//go:generate mockgen -source=signer.go -destination=mocks/mock_signer.go -package=mocks
type PlanSigner interface {
	// Sign writes an armored detached signature of plan to w using the first private key
	// in the armored keyring at keyPath. The passphrase may be empty for unprotected keys.
	Sign(plan io.Reader, keyPath string, passphrase []byte, w io.Writer) error

	// Check verifies an armored detached signature of plan against the armored public
	// keyring at keyringPath and returns the signer's primary identity.
	Check(plan, signature io.Reader, keyringPath string) (string, error)
}
