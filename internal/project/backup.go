package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/atlaspack/internal/model"
)

// BackupVersion is written to every backup file.
const BackupVersion = "1.0.0"

// BackupData bundles the config and its recent projects into one JSON file.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Projects  []model.Project `json:"projects,omitempty"`
}

// ExportAllData writes config and every recent project that can still be
// read to exportPath. It returns the number of projects included.
func ExportAllData(exportPath string, config model.AppConfig) (int, error) {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
	}
	for _, p := range config.RecentProjects {
		if proj, err := LoadProject(p); err == nil {
			backup.Projects = append(backup.Projects, proj)
		}
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write backup: %w", err)
	}
	return len(backup.Projects), nil
}

// ImportAllData reads a backup written by ExportAllData. Nothing is applied;
// see RestoreProjects for writing the projects back out.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, err
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, errors.New("invalid backup: missing version")
	}
	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	return backup, nil
}

// RestoreProjects saves each project in backup under dir as
// <name>.atlas.json and returns the written paths in backup order. The
// config's recent list is replaced by those paths. Existing files are
// left alone unless overwrite is set.
func RestoreProjects(backup *BackupData, dir string, overwrite bool) ([]string, error) {
	var written []string
	used := make(map[string]int)
	for _, proj := range backup.Projects {
		name := projectFileName(proj.Name)
		if n := used[name]; n > 0 {
			used[name]++
			name = fmt.Sprintf("%s-%d", name, n+1)
		} else {
			used[name] = 1
		}

		path := filepath.Join(dir, name+ProjectExt)
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				return written, fmt.Errorf("%s already exists", path)
			}
		}
		if err := SaveProject(path, proj); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	backup.Config.RecentProjects = written
	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	return written, nil
}

// projectFileName turns a project name into a safe file stem.
func projectFileName(name string) string {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "project"
	}
	return strings.ReplaceAll(name, " ", "_")
}
