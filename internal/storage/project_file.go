package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jgoncalves802/visualplan/internal/models"
)

// LoadProjectFile reads a project from a JSON file, the import/export
// format used by the CLI's --file mode.
func LoadProjectFile(path string) (models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Project{}, fmt.Errorf("read project file: %w", err)
	}
	var p models.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Project{}, fmt.Errorf("parse project file: %w", err)
	}
	return p, nil
}

// SaveProjectFile writes a project to a JSON file.
func SaveProjectFile(path string, p models.Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
