package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSave(t *testing.T) {
	r := tempRepo(t)

	record := &RunRecord{
		Account:          "123456789012",
		Region:           "ap-south-1",
		TotalInstances:   12,
		RunningInstances: 9,
		Warnings:         2,
		Criticals:        1,
		ReportKey:        "status/Sapphire-PRD_20260115_103045.xlsx",
		Status:           StatusSuccess,
	}

	if err := r.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if record.ID == 0 {
		t.Error("expected ID to be assigned after insert")
	}
	if record.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestListRecent(t *testing.T) {
	r := tempRepo(t)

	for i := range 5 {
		record := &RunRecord{
			Account:   "123456789012",
			Status:    StatusSuccess,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := r.Save(record); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	recent, err := r.ListRecent(3)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent runs, got %d", len(recent))
	}
	// Should be sorted newest first.
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Error("expected records sorted by created_at descending")
		}
	}
}

func TestListRecent_All(t *testing.T) {
	r := tempRepo(t)

	for range 3 {
		r.Save(&RunRecord{Account: "123456789012", Status: StatusSuccess})
	}

	// Request more than available.
	recent, err := r.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
}

func TestSave_ErrorRun(t *testing.T) {
	r := tempRepo(t)

	record := &RunRecord{
		Account:      "123456789012",
		Status:       StatusError,
		ErrorMessage: "failed to describe instances: unauthorized",
	}
	if err := r.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	recent, err := r.ListRecent(1)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recent))
	}
	if recent[0].Status != StatusError {
		t.Errorf("expected error status, got %q", recent[0].Status)
	}
	if recent[0].ErrorMessage == "" {
		t.Error("expected error message persisted")
	}
}

func TestDeleteOlderThan(t *testing.T) {
	r := tempRepo(t)

	old := &RunRecord{
		Account:   "123456789012",
		Status:    StatusSuccess,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	r.Save(old)

	fresh := &RunRecord{
		Account: "123456789012",
		Status:  StatusSuccess,
	}
	r.Save(fresh)

	removed, err := r.DeleteOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	recent, _ := r.ListRecent(10)
	if len(recent) != 1 {
		t.Fatalf("expected 1 record remaining, got %d", len(recent))
	}
	if recent[0].ID != fresh.ID {
		t.Error("expected the fresh record to survive")
	}
}

func TestSQLiteRepository_Persistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")

	// Write with one repository instance.
	r1, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	record := &RunRecord{Account: "123456789012", Status: StatusSuccess}
	if err := r1.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	r1.Close()

	// Read with a new repository instance.
	r2, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	defer r2.Close()

	recent, err := r2.ListRecent(1)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatal("expected record to be persisted")
	}
	if recent[0].Account != "123456789012" {
		t.Errorf("expected account persisted, got %q", recent[0].Account)
	}
}

func TestSQLiteRepository_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "runs.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed to create nested directory: %v", err)
	}
	defer r.Close()

	if err := r.Save(&RunRecord{Account: "123456789012", Status: StatusSuccess}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist at %s, got error: %v", path, err)
	}
}

func TestSetPath(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "override.db")
	SetPath(override)
	defer ResetPath()

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath failed: %v", err)
	}
	if got != override {
		t.Errorf("expected override path %q, got %q", override, got)
	}
}
