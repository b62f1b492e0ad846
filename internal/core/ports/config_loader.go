package ports

import "go.trai.ch/droidcfg/internal/core/domain"

// ConfigLoader defines the interface for loading the declarative build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Discover walks up from cwd and returns the path of the nearest droidcfg.yaml.
	Discover(cwd string) (string, error)

	// Load reads and strictly decodes the document at path.
	Load(path string) (*domain.Document, error)
}
