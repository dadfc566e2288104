package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pomgraph/internal/domain/repositories"
	gitRepo "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories/git"
	glRepo "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories/gitlab"
	localRepo "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories/local"
	presetRepo "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories/preset"
)

// PresetRepositoryFactory creates a PresetRepository for an output directory.
type PresetRepositoryFactory func(dir string) domainRepos.PresetRepository

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register source registry with all source factories
	if err := container.Provide(func() *SourceRegistry {
		reg := NewSourceRegistry()
		reg.Register(entities.SourceTypeLocal, localRepo.NewPomSourceRepository)
		reg.Register(entities.SourceTypeGitLab, glRepo.NewPomSourceRepository)
		reg.Register(entities.SourceTypeGit, gitRepo.NewPomSourceRepository)
		return reg
	}); err != nil {
		return err
	}

	// The output directory is only known once flags or settings are read
	if err := container.Provide(func() PresetRepositoryFactory {
		return func(dir string) domainRepos.PresetRepository {
			return presetRepo.NewAfsPresetRepository(dir)
		}
	}); err != nil {
		return err
	}

	return nil
}
