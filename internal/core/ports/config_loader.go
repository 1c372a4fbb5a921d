package ports

import "go.trai.ch/cbuild/internal/core/domain"

// ConfigLoader defines the interface for loading the project file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the project file walking up from cwd and returns the project.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd and returns the directory containing the project file.
	DiscoverRoot(cwd string) (string, error)
}
