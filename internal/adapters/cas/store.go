// Package cas implements the content-addressed build plan store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/renameio/v2"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
)

var fingerprintRegex = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Store implements ports.PlanStore. Plans are archived under their
// fingerprint and the latest one is mirrored to plan.json.
type Store struct{}

// NewStore creates a new plan store.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Get returns the plan archived under fingerprint, or nil when absent.
func (s *Store) Get(root, fingerprint string) (*domain.BuildPlan, error) {
	if !fingerprintRegex.MatchString(fingerprint) {
		return nil, zerr.With(domain.ErrStoreReadFailed, "fingerprint", fingerprint)
	}
	return readPlan(archivePath(root, fingerprint))
}

// Current returns the most recently written plan, or nil when none exists.
func (s *Store) Current(root string) (*domain.BuildPlan, error) {
	return readPlan(domain.DefaultCurrentPlanPath(root))
}

// Put archives plan and makes it current. It reports whether a plan with
// the same fingerprint was already archived.
func (s *Store) Put(root string, plan *domain.BuildPlan) (bool, error) {
	if !fingerprintRegex.MatchString(plan.Fingerprint) {
		return false, zerr.With(domain.ErrStoreWriteFailed, "fingerprint", plan.Fingerprint)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return false, zerr.Wrap(err, domain.ErrPlanEncodeFailed.Error())
	}
	data = append(data, '\n')

	if err := os.MkdirAll(domain.DefaultPlansPath(root), domain.DirPerm); err != nil {
		return false, zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	archive := archivePath(root, plan.Fingerprint)
	_, statErr := os.Stat(archive)
	existed := statErr == nil

	if !existed {
		if err := writeAtomic(archive, data); err != nil {
			return false, err
		}
	}
	if err := writeAtomic(domain.DefaultCurrentPlanPath(root), data); err != nil {
		return existed, err
	}

	return existed, nil
}

func archivePath(root, fingerprint string) string {
	return filepath.Join(domain.DefaultPlansPath(root), fingerprint+".json")
}

func readPlan(path string) (*domain.BuildPlan, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is built from the state directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}

	var plan domain.BuildPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", path)
	}
	return &plan, nil
}

// writeAtomic writes data through a temp file, fsyncs and renames it into place.
func writeAtomic(path string, data []byte) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(domain.FilePerm))
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	defer pendingFile.Cleanup() //nolint:errcheck // No-op once the file is replaced

	if _, err := pendingFile.Write(data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
