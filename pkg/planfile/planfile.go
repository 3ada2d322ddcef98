// Package planfile reads capacity plans from YAML or JSON files and carries
// the built-in sample plan used when no file is given.
package planfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

// Load reads a plan file, fills defaults, and validates it. An empty path
// returns the built-in sample plan. Files ending in .json parse as JSON;
// everything else parses as YAML.
func Load(path string) (*models.PlanInput, error) {
	if path == "" {
		return Parse([]byte(samplePlan), ".yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes plan bytes in the format implied by the file extension,
// fills defaults, and validates.
func Parse(data []byte, ext string) (*models.PlanInput, error) {
	var plan models.PlanInput
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
	}

	plan.ApplyDefaults()
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// WriteSample writes the built-in sample plan to path so planners have a
// working file to start from.
func WriteSample(path string) error {
	if err := os.WriteFile(path, []byte(samplePlan), 0o644); err != nil {
		return fmt.Errorf("writing sample plan: %w", err)
	}
	return nil
}
