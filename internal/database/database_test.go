package database

import (
	"testing"
)

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(Config{Path: MemoryPath}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"population_points", "route_requests"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	m := NewMigrationManager(db, nil)
	applied, err := m.GetAppliedMigrations()
	if err != nil {
		t.Fatalf("GetAppliedMigrations: %v", err)
	}
	if !applied[1] || !applied[2] {
		t.Fatalf("applied = %v", applied)
	}

	// A second run is a no-op.
	if err := m.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
}
