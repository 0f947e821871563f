package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/fieldops-dev/shift-planner/internal/config"
	"github.com/fieldops-dev/shift-planner/internal/repository"
	"github.com/fieldops-dev/shift-planner/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var tenantID int64

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random agents, 2: seed demo data)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Int64Var(&tenantID, "tenant", 0, "tenant (user) id that owns the inserted agents")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database connection pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open only builds the pool object, it does not connect
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation specified")
	case 1:
		if n <= 0 {
			slog.Error("invalid number of agents")
			return
		}
		if tenantID <= 0 {
			slog.Error("a tenant id is required to insert agents")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			agent := seed.RandomAgent(tenantID)
			if err := repo.CreateAgent(context.Background(), agent); err != nil {
				slog.Error("failed to insert agent", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("agents inserted", slog.Int("count", cnt))
	case 2:
		if err := seed.SeedDemoData(context.Background(), repo, cfg); err != nil {
			slog.Error("failed to seed demo data", slog.String("error", err.Error()))
		}
	default:
		slog.Error("unknown operation")
	}
}
