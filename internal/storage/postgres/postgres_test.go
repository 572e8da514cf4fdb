package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/aanand-mishra/taskflow-api/internal/config"
	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/storage/storagetest"
)

// The suite needs a disposable database; every subtest truncates both
// tables, so never point this at real data.
const testURLEnv = "POSTGRES_TEST_URL"

func TestPostgres(t *testing.T) {
	url := os.Getenv(testURLEnv)
	if url == "" {
		t.Skipf("%s not set", testURLEnv)
	}

	cfg := &config.Config{}
	cfg.Storage.DatabaseURL = url
	cfg.Storage.MaxConns = 4

	ctx := context.Background()
	p, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	storagetest.Run(t, func(t *testing.T) storage.Storage {
		if _, err := p.pool.Exec(ctx, "TRUNCATE students, tasks RESTART IDENTITY"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return p
	})
}
