package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/taskflow-api/internal/config"
	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/storage/storagetest"
)

func newTestStore(t *testing.T) storage.Storage {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Path = filepath.Join(t.TempDir(), "test.db")

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite(t *testing.T) {
	storagetest.Run(t, newTestStore)
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	cfg := &config.Config{}
	cfg.Storage.Path = filepath.Join(dir, "storage.db")

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected %s to exist: %v", dir, err)
	}
}

func TestNew_IsIdempotent(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Path = filepath.Join(t.TempDir(), "storage.db")

	first, err := New(cfg)
	if err != nil {
		t.Fatalf("New(first): %v", err)
	}
	first.Close()

	second, err := New(cfg)
	if err != nil {
		t.Fatalf("New(second): %v", err)
	}
	second.Close()
}
