package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/pitchside/quote-api/internal/config"
)

const migrationsDir = "./migrations"

// Applies the quote schema migrations with goose. The database connection
// comes from the same config the API reads, so the two never disagree
// about which database they talk to.
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate <up|down|status|version|create <name>>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("up failed: %w", err)
		}
		fmt.Println("quote schema is up to date")

	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("down failed: %w", err)
		}
		fmt.Println("rolled back one migration")

	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			return fmt.Errorf("status failed: %w", err)
		}

	case "version":
		if err := goose.Version(db, migrationsDir); err != nil {
			return fmt.Errorf("version failed: %w", err)
		}

	case "create":
		if len(rest) == 0 {
			return fmt.Errorf("create needs a migration name")
		}
		if err := goose.Create(db, migrationsDir, rest[0], "sql"); err != nil {
			return fmt.Errorf("create failed: %w", err)
		}
		fmt.Printf("created migration %s\n", rest[0])

	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	return nil
}
