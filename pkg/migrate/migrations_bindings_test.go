package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haulpoint/fleetops-backend/pkg/migrate"
)

func TestBindingsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_bindings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no bindings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS bindings",
		"FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE",
		"FOREIGN KEY (operation_id) REFERENCES operations(id) ON DELETE CASCADE",
		"idx_bindings_device_zone",
		"DROP TABLE IF EXISTS bindings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestZonesMigrationRestrictsKind(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_zones.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no zones migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, kind := range []string{"QUEUE_AREA", "LOAD_PAD", "DUMP_AREA", "ZONE_AREA"} {
		if !strings.Contains(content, kind) {
			t.Errorf("zone kind %q not present in CHECK constraint", kind)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}
