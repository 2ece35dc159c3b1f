// Package schema applies the SQL migrations in the migrations directory to a Postgres database.
package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration is one .up.sql file.
type Migration struct {
	Name string
	SQL  string
}

// searchPaths are tried in order when no directory is given.
var searchPaths = []string{
	"migrations",          // From the module root
	"../migrations",       // From cmd/<binary> or internal/<pkg>
	"../../migrations",    // From internal/<pkg>
	"../../../migrations", // From deeper packages
}

// FindDir returns dir if it exists, otherwise the first existing search path.
func FindDir(dir string) (string, error) {
	candidates := searchPaths
	if dir != "" {
		candidates = append([]string{dir}, searchPaths...)
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path, nil
		}
	}

	return "", fmt.Errorf("migrations directory not found. Tried: %v", candidates)
}

// Read returns all .up.sql files of dir sorted by file name.
func Read(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", path, err)
		}

		migrations = append(migrations, Migration{
			Name: entry.Name(),
			SQL:  string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Name < migrations[j].Name
	})

	return migrations, nil
}

// Run executes the migrations found for dir in order.
// The migrations are idempotent, so running them twice is harmless.
func Run(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	resolved, err := FindDir(dir)
	if err != nil {
		return err
	}

	migrations, err := Read(resolved)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, migration := range migrations {
		if _, err := pool.Exec(ctx, migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Name, err)
		}
	}

	return nil
}
