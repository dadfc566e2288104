package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository is re-exported from gitforge. POM sources describe every
// discovered project with it: local directories, GitLab projects and clones.
type Repository = gitforgeEntities.Repository
