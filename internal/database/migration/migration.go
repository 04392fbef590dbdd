package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id           TEXT        PRIMARY KEY,
  display_name TEXT        NOT NULL DEFAULT '',
  tenant       TEXT        NOT NULL,
  last_seen    TIMESTAMPTZ,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id         TEXT        PRIMARY KEY DEFAULT uuid_generate_v4()::text,
  tenant     TEXT        NOT NULL,
  name       TEXT        NOT NULL,
  visibility TEXT        NOT NULL DEFAULT 'private' CHECK (visibility IN ('private', 'public')),
  owner_id   TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  deleted_at TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id          TEXT        PRIMARY KEY DEFAULT uuid_generate_v4()::text,
  tenant      TEXT        NOT NULL,
  folder_id   TEXT        NOT NULL REFERENCES folders (id),
  owner_id    TEXT        NOT NULL,
  visibility  TEXT        NOT NULL DEFAULT 'private' CHECK (visibility IN ('private', 'public')),
  file_name   TEXT        NOT NULL,
  storage_key TEXT        NOT NULL DEFAULT '',
  size        BIGINT      NOT NULL CHECK (size >= 0),
  mime_type   TEXT        NOT NULL DEFAULT '',
  status      TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'ready')),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  deleted_at  TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_folders_tenant",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_folders_tenant ON folders (tenant) WHERE deleted_at IS NULL;`,
	},
	{
		Name: "create_index_files_tenant",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_tenant ON files (tenant) WHERE deleted_at IS NULL;`,
	},
	{
		Name: "create_index_files_folder",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_folder ON files (tenant, folder_id) WHERE deleted_at IS NULL;`,
	},
	{
		Name: "create_index_files_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_owner ON files (tenant, owner_id) WHERE deleted_at IS NULL;`,
	},
}

// EnsureMigrated checks if the 'files' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.files') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		return fmt.Errorf("migration existence probe: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_check",
			"status":      "skipped",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logJSON(loc, map[string]any{
				"component": "database",
				"event":     "db_migration_step",
				"step":      step.Name,
				"status":    "failed",
				"error":     err.Error(),
			})
			return fmt.Errorf("migration step %s: %w", step.Name, err)
		}
		logJSON(loc, map[string]any{
			"component": "database",
			"event":     "db_migration_step",
			"step":      step.Name,
			"status":    "applied",
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_check",
		"status":      "completed",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func logJSON(loc *time.Location, fields map[string]any) {
	fields["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if b, err := json.Marshal(fields); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
