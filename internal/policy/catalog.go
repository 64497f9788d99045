package policy

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// LeaveType is one entry in the leave-type catalog.
type LeaveType struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type catalogFile struct {
	LeaveTypes []LeaveType `yaml:"leave_types"`
}

// Catalog holds the leave-type policy loaded from the embedded YAML file.
// Read-only after construction.
type Catalog struct {
	types []LeaveType
	mu    sync.RWMutex
}

// NewCatalog loads the embedded leave-type catalog.
func NewCatalog() (*Catalog, error) {
	data, err := configFiles.ReadFile("config/leave_types.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read leave type catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leave type catalog: %w", err)
	}
	if len(file.LeaveTypes) == 0 {
		return nil, fmt.Errorf("leave type catalog is empty")
	}

	return &Catalog{types: file.LeaveTypes}, nil
}

// LeaveTypes returns the catalog entries.
func (c *Catalog) LeaveTypes() []LeaveType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.types
}

// Known reports whether the name matches a cataloged leave type,
// case-insensitively.
func (c *Catalog) Known(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, lt := range c.types {
		if strings.EqualFold(lt.Name, name) {
			return true
		}
	}
	return false
}

// PromptSummary renders the catalog as a single line for the system prompt,
// e.g. "Annual (Planned vacation days), Sick (Illness or medical appointments)".
func (c *Catalog) PromptSummary() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := make([]string, 0, len(c.types))
	for _, lt := range c.types {
		parts = append(parts, fmt.Sprintf("%s (%s)", lt.Name, lt.Description))
	}
	return strings.Join(parts, ", ")
}
