package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/JaimeStill/label-manager/internal/migrations"
)

func TestFS_PairsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, migrations.Dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s", name)
		}
	}

	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
}

func TestFS_LabelsConstraints(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, migrations.Dir+"/000002_labels.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	sql := string(data)
	for _, want := range []string{
		"ON labels(sku, version) WHERE NOT deleted",
		"UNIQUE (storage_key)",
		"CHECK (NOT (deleted AND active))",
		"WHERE active AND NOT deleted",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("labels migration missing %q", want)
		}
	}
}
