package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bookrec/internal/config"
	"bookrec/internal/logging"
	"bookrec/internal/store"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	dir := migrationsDir()
	if *command == "create" {
		if *name == "" {
			logging.Fatal().Msg("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			logging.Fatal().Err(err).Msg("create migration")
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Store.DSN)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", store.RedactDSN(cfg.Store.DSN)).Msg("connect to database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logging.Fatal().Err(err).Msg("set dialect")
	}

	switch *command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			logging.Fatal().Err(err).Msg("run migrations")
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			logging.Fatal().Err(err).Msg("rollback migrations")
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			logging.Fatal().Err(err).Msg("migration status")
		}
	default:
		logging.Fatal().Str("command", *command).Msg("unknown command, use: up, down, status, create")
	}
}
