package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
)

//go:embed schema
var schemaFS embed.FS

// ApplySchema runs the CREATE TABLE IF NOT EXISTS script of database name for the given driver.
func ApplySchema(ctx context.Context, db *sql.DB, driver, name string) error {
	script, err := schemaFS.ReadFile(path.Join("schema", driver, name+".sql"))
	if err != nil {
		return fmt.Errorf("no schema for %s/%s: %w", driver, name, err)
	}
	if _, err := db.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("apply %s schema: %w", name, err)
	}
	return nil
}
