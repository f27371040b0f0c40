package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"vantage-journal/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded SQL files against the pool.
// Files use IF NOT EXISTS guards so reruns are harmless; there is no
// migration-version table.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := sqlFiles(PostgresFS, "postgres")
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := fs.ReadFile(PostgresFS, "postgres/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		sql := strings.TrimSpace(string(data))
		if sql == "" {
			continue
		}
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}

	return nil
}
