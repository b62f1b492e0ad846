// Package pgp signs build plans with OpenPGP detached signatures.
package pgp

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/ProtonMail/go-crypto/openpgp"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxKeySize bounds key files read from disk.
const maxKeySize = 1 << 20

// Signer implements ports.PlanSigner using ProtonMail's go-crypto.
type Signer struct{}

// NewSigner creates a new Signer.
func NewSigner() *Signer {
	return &Signer{}
}

// Sign writes an armored detached signature of plan to w, using the first
// private key in the key file at keyPath.
func (s *Signer) Sign(plan io.Reader, keyPath string, passphrase []byte, w io.Writer) error {
	keyring, err := readKeyRing(keyPath)
	if err != nil {
		return err
	}

	entity, err := signingEntity(keyring, keyPath)
	if err != nil {
		return err
	}

	if err := unlock(entity, passphrase); err != nil {
		return zerr.With(err, "path", keyPath)
	}

	if err := openpgp.ArmoredDetachSign(w, entity, plan, nil); err != nil {
		return zerr.Wrap(err, domain.ErrSignFailed.Error())
	}
	return nil
}

// Check verifies an armored detached signature of plan against the public
// keyring at keyringPath and returns the identity of the signer.
func (s *Signer) Check(plan, signature io.Reader, keyringPath string) (string, error) {
	keyring, err := readKeyRing(keyringPath)
	if err != nil {
		return "", err
	}

	signer, err := openpgp.CheckArmoredDetachedSignature(keyring, plan, signature, nil)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrSignatureInvalid.Error())
	}
	return identity(signer), nil
}

// readKeyRing reads an armored keyring, falling back to the binary format.
func readKeyRing(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Key path is provided by the user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrKeyReadFailed.Error()), "path", path)
	}
	if len(data) > maxKeySize {
		return nil, zerr.With(domain.ErrKeyReadFailed, "path", path)
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrKeyReadFailed.Error()), "path", path)
		}
	}
	if len(keyring) == 0 {
		return nil, zerr.With(domain.ErrKeyReadFailed, "path", path)
	}
	return keyring, nil
}

func signingEntity(keyring openpgp.EntityList, path string) (*openpgp.Entity, error) {
	for _, entity := range keyring {
		if entity.PrivateKey != nil {
			return entity, nil
		}
	}
	return nil, zerr.With(domain.ErrNoSigningKey, "path", path)
}

// unlock decrypts the primary key and every encrypted subkey of entity.
func unlock(entity *openpgp.Entity, passphrase []byte) error {
	decrypt := func(encrypted bool, fn func([]byte) error) error {
		if !encrypted {
			return nil
		}
		if len(passphrase) == 0 {
			return domain.ErrKeyDecryptFailed
		}
		if err := fn(passphrase); err != nil {
			return zerr.Wrap(err, domain.ErrKeyDecryptFailed.Error())
		}
		return nil
	}

	if err := decrypt(entity.PrivateKey.Encrypted, entity.PrivateKey.Decrypt); err != nil {
		return err
	}
	for _, sub := range entity.Subkeys {
		if sub.PrivateKey == nil {
			continue
		}
		if err := decrypt(sub.PrivateKey.Encrypted, sub.PrivateKey.Decrypt); err != nil {
			return err
		}
	}
	return nil
}

func identity(entity *openpgp.Entity) string {
	if names := slices.Sorted(maps.Keys(entity.Identities)); len(names) > 0 {
		return names[0]
	}
	return fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint)
}
