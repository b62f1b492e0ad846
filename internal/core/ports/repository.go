package ports

import (
	"context"

	"go.trai.ch/droidcfg/internal/core/domain"
)

// ArtifactRepository defines the interface for checking dependencies against Maven repositories.
//
//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks
type ArtifactRepository interface {
	// Check looks the coordinate up in each repository in order and reports where the
	// declared version was found. A version listed nowhere yields Found == false and no error.
	Check(ctx context.Context, repositories []string, coordinate domain.Coordinate) (domain.DependencyReport, error)
}
