package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bess-tracker/models"
)

// WriteJSON writes the merged record set to a JSON file, creating
// intermediate directories as needed. Absent numeric capacities serialize
// as null, mirroring the CSV's empty cell.
func WriteJSON(path string, records []*models.ProjectRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}
