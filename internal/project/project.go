// Package project persists projects, application configuration, and backups.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/piwi3910/atlaspack/internal/model"
)

// ProjectExt is the file extension used for saved projects.
const ProjectExt = ".atlas.json"

// MaxRecentProjects bounds the recent-projects list kept in the config.
const MaxRecentProjects = 10

// SaveProject writes a project to path as JSON.
func SaveProject(path string, proj model.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project from path. Missing settings fields keep
// their defaults.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}
	proj := model.NewProject()
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if proj.Requests == nil {
		proj.Requests = []model.Request{}
	}
	return proj, nil
}

// AddRecentProject moves path to the front of the config's recent list,
// dropping duplicates and trimming to MaxRecentProjects.
func AddRecentProject(config *model.AppConfig, path string) {
	recent := slices.DeleteFunc(slices.Clone(config.RecentProjects), func(p string) bool {
		return p == path
	})
	recent = append([]string{path}, recent...)
	if len(recent) > MaxRecentProjects {
		recent = recent[:MaxRecentProjects]
	}
	config.RecentProjects = recent
}
