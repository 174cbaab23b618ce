package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/gossip-village/internal/services"
	"github.com/jwebster45206/gossip-village/pkg/world"
)

// validate checks village layout files (.yaml) and captured oracle
// responses (.json). A response file is matched to its schema by the
// filename prefix: village_, simulation_ or interaction_.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <layout.yaml|village_*.json|simulation_*.json|interaction_*.json>...\n", os.Args[0])
		os.Exit(1)
	}

	schemas, err := services.LoadSchemas()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load schemas: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, filename := range os.Args[1:] {
		fmt.Printf("Validating %s...\n", filename)
		if err := validateFile(schemas, filename); err != nil {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
			failed++
			continue
		}
		fmt.Println("  ok")
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed validation\n", failed, len(os.Args)-1)
		os.Exit(1)
	}
	fmt.Println("All files are valid!")
}

func validateFile(schemas *services.Schemas, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		layout, err := world.ParseLayout(data)
		if err != nil {
			return err
		}
		describeLayout(layout)
		return nil
	case ".json":
		name, err := schemaFor(filename)
		if err != nil {
			return err
		}
		return schemas.Validate(name, data)
	default:
		return fmt.Errorf("unsupported file type %q", ext)
	}
}

func schemaFor(filename string) (string, error) {
	base := strings.ToLower(filepath.Base(filename))
	for _, name := range []string{services.SchemaVillage, services.SchemaSimulation, services.SchemaInteraction} {
		if strings.HasPrefix(base, name+"_") || base == name+".json" {
			return name, nil
		}
	}
	return "", fmt.Errorf("cannot tell the schema of %s; prefix it with village_, simulation_ or interaction_", filepath.Base(filename))
}

func describeLayout(l *world.Layout) {
	zones := make([]string, 0, len(l.Zones))
	for z, cells := range l.Zones {
		zones = append(zones, fmt.Sprintf("%s(%d)", z, len(cells)))
	}
	sort.Strings(zones)
	fmt.Printf("  zones: %s\n", strings.Join(zones, " "))
	fmt.Printf("  anchors: %d, renames: %d, seeds: %d\n", len(l.Anchors), len(l.Renames), len(l.Seeds))
}
