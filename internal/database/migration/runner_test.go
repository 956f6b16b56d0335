package migration

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_OrdersAndSkipsUnknownFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("  SELECT 1;\n")},
		"README.md":      {Data: []byte("notes")},
	}

	migs, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "first" || migs[0].SQL != "SELECT 1;" {
		t.Fatalf("unexpected first migration %+v", migs[0])
	}
	if migs[1].Version != 2 || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("unexpected second migration %+v", migs[1])
	}
}

func TestLoadMigrations_Rejects(t *testing.T) {
	if _, err := loadMigrations(fstest.MapFS{"V1__a.sql": {Data: []byte("  ")}}); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	dup := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := loadMigrations(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}
}

func TestRunner_EmbeddedSource(t *testing.T) {
	migs, err := loadMigrations(Runner{}.source())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) == 0 || !strings.Contains(migs[0].SQL, "search_log") {
		t.Fatalf("expected embedded search_log migration, got %+v", migs)
	}
}

func TestCheckApplied_DetectsEditedMigration(t *testing.T) {
	migs, err := loadMigrations(fstest.MapFS{
		"V1__first.sql":  {Data: []byte("SELECT 1;")},
		"V2__second.sql": {Data: []byte("SELECT 2;")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	applied := map[int64]appliedMigration{1: {Version: 1, Checksum: migs[0].Checksum}}
	if err := checkApplied(migs, applied); err != nil {
		t.Fatalf("expected pending migration to pass, got %v", err)
	}

	applied[2] = appliedMigration{Version: 2, Checksum: "stale"}
	if err := checkApplied(migs, applied); !errors.Is(err, ErrChecksumMismatch) || !strings.Contains(err.Error(), "version=2") {
		t.Fatalf("expected checksum mismatch for version 2, got %v", err)
	}
}
