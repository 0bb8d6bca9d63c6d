package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/2beens/portfolioapi/internal/config"
	"github.com/2beens/portfolioapi/internal/db"

	log "github.com/sirupsen/logrus"
)

const usage = `usage: migrate [-env development] [-config ./config.toml] <up | down | status | version>`

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | test]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	timeout := flag.Duration("timeout", time.Minute, "max duration of the migration command")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println(usage)
		os.Exit(2)
	}

	// migrations need only the postgres part of the config
	cfg, err := config.Read(*env, *configPath)
	if err != nil {
		log.Fatalf("read config: %s", err)
	}
	if cfg.PostgresHost == "" || cfg.PostgresDBName == "" {
		log.Fatalf("postgres host and db name must be set in [%s] config", *env)
	}
	log.SetLevel(log.DebugLevel)

	sqlDB, err := db.OpenSQL(db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: cfg.PostgresPassword,
		SSLMode:    cfg.PostgresSSL,
	})
	if err != nil {
		log.Fatalf("open db: %s", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Errorf("close db: %s", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, flag.Arg(0), sqlDB); err != nil {
		log.Errorf("migrate %s: %s", flag.Arg(0), err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, sqlDB *sql.DB) error {
	switch command {
	case "up":
		return db.MigrateUp(ctx, sqlDB)
	case "down":
		return db.MigrateDown(ctx, sqlDB)
	case "status":
		return db.MigrationsStatus(ctx, sqlDB)
	case "version":
		version, err := db.MigrationsVersion(ctx, sqlDB)
		if err != nil {
			return err
		}
		fmt.Printf("schema version: %d\n", version)
		return nil
	default:
		return fmt.Errorf("unknown command [%s]\n%s", command, usage)
	}
}
