package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/infrastructure/migration"
	"github.com/vellap/portal/migrations"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = defaultMigrationsPath
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description, time.Now().UTC())
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		var fsys fs.FS = migrations.FS
		if migrationsPath != "" {
			fsys = os.DirFS(migrationsPath)
		}
		names, err := migration.ListMigrations(fsys)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(names) == 0 {
			log.Info("No migrations found")
			return
		}
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver == "sqlite" {
		log.Fatal("Migrations target postgres; sqlite schemas are created by the server on startup")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var opts []migration.Option
	if migrationsPath != "" {
		opts = append(opts, migration.WithDir(migrationsPath))
	}
	m, err := migration.New(db, log, opts...)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	if err := run(m, log, command, args[1:]); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func run(m *migration.Migrator, log *zap.Logger, command string, args []string) error {
	switch command {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "step":
		if len(args) < 1 {
			return fmt.Errorf("step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)

	case "version":
		status, err := m.Status()
		if err != nil {
			return err
		}
		if status.Version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version",
			zap.Uint("version", status.Version),
			zap.Bool("dirty", status.Dirty),
		)
		return nil

	case "force":
		if len(args) < 1 {
			return fmt.Errorf("version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number %q", args[0])
		}
		log.Warn("Forcing migration version, the schema is not changed")
		return m.Force(version)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Println(`Customer Portal Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: embedded; create uses ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  PORTAL_DATABASE_HOST, PORTAL_DATABASE_PORT, PORTAL_DATABASE_USER,
  PORTAL_DATABASE_PASSWORD, PORTAL_DATABASE_DBNAME, PORTAL_DATABASE_SSLMODE

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Create a new migration
  migrate create add_ticket_index "Index tickets by customer"`)
}
