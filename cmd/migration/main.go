// Command migration runs the watchlist schema migrations. It wraps
// golang-migrate with the same DB URL conventions the API server uses.
package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "migration:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return fmt.Errorf("DB_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), normalizeDBURL(dbURL))
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			fmt.Fprintln(os.Stderr, "close source:", srcErr)
		}
		if dbErr != nil {
			fmt.Fprintln(os.Stderr, "close database:", dbErr)
		}
	}()

	switch cmd := strings.ToLower(args[0]); cmd {
	case "up":
		return report(m.Up(), "schema is up to date")
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps <= 0 {
				return fmt.Errorf("down expects a positive step count, got %q", args[1])
			}
		}
		return report(m.Steps(-steps), fmt.Sprintf("rolled back %d migration(s)", steps))
	case "version":
		return printVersion(m)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force expects a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 0 {
			return fmt.Errorf("force expects a non-negative version, got %q", args[1])
		}
		return m.Force(v)
	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("goto expects a target version")
		}
		v, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("goto expects a version, got %q", args[1])
		}
		return report(m.Migrate(uint(v)), fmt.Sprintf("migrated to version %d", v))
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func report(err error, ok string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no changes to apply")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(ok)
	return nil
}

func printVersion(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Printf("version: %d dirty: %t\n", version, dirty)
	return nil
}

// migrationsDir resolves the migration source directory. MIGRATIONS_DIR
// wins; otherwise the repo-relative and container paths are tried.
func migrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("no migration directory found (set MIGRATIONS_DIR or run from the repo root)")
}

// normalizeDBURL appends disable_prepared_binary_result=yes when the
// DB_DISABLE_PREPARED_BINARY_RESULT toggle is set, mirroring the server's
// connection handling for pgbouncer-style proxies.
func normalizeDBURL(raw string) string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT"))) {
	case "1", "true", "t", "yes", "y", "on":
	default:
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := parsed.Query()
	if q.Get("disable_prepared_binary_result") == "" {
		q.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = q.Encode()
	}
	return parsed.String()
}

func usage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|version|force <v>|goto <v>>\n", prog)
}
