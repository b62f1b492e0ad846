package maven

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Getter downloads a document.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Repository implements ports.ArtifactRepository against Maven repository layouts.
type Repository struct {
	getter Getter
}

// NewRepository creates a Repository fetching through getter.
func NewRepository(getter Getter) *Repository {
	return &Repository{getter: getter}
}

// MetadataURL returns the maven-metadata.xml location of coordinate in repo.
func MetadataURL(repo string, coordinate domain.Coordinate) string {
	return strings.TrimSuffix(repo, "/") + "/" +
		strings.ReplaceAll(coordinate.Group, ".", "/") + "/" +
		coordinate.Artifact + "/maven-metadata.xml"
}

// Check looks coordinate up in repositories in order. The first repository
// listing the version wins. A repository that fails is skipped, and its error
// is returned only when no other repository lists the version.
func (r *Repository) Check(
	ctx context.Context,
	repositories []string,
	coordinate domain.Coordinate,
) (domain.DependencyReport, error) {
	report := domain.DependencyReport{Coordinate: coordinate}
	var errs error

	for _, repo := range repositories {
		data, err := r.getter.Get(ctx, MetadataURL(repo, coordinate))
		if err != nil {
			if errors.Is(err, domain.ErrArtifactNotFound) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			errs = errors.Join(errs, zerr.With(err, "repository", repo))
			continue
		}

		metadata, err := ParseMetadata(data)
		if err != nil {
			errs = errors.Join(errs, zerr.With(err, "repository", repo))
			continue
		}

		if report.Latest == "" {
			report.Latest = metadata.LatestVersion()
		}
		if metadata.HasVersion(coordinate.Version) {
			report.Found = true
			report.Repository = repo
			return report, nil
		}
	}

	return report, errs
}
