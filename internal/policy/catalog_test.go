package policy

import (
	"strings"
	"testing"
)

func TestNewCatalogLoadsEmbeddedTypes(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	if len(catalog.LeaveTypes()) == 0 {
		t.Fatal("catalog has no leave types")
	}

	if !catalog.Known("Annual") {
		t.Error("Annual should be a known leave type")
	}
	if !catalog.Known("sick") {
		t.Error("Known should match case-insensitively")
	}
	if catalog.Known("Sabbatical") {
		t.Error("Sabbatical should not be in the catalog")
	}
}

func TestPromptSummary(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	summary := catalog.PromptSummary()
	if !strings.Contains(summary, "Annual") {
		t.Errorf("summary %q missing Annual", summary)
	}
	if !strings.Contains(summary, ", ") {
		t.Errorf("summary %q should list multiple types", summary)
	}
}
