// navspawn generates additional NPC spawn points from navmesh geometry.
//
// Usage:
//
//	go run ./cmd/navspawn -config config/navspawn.yaml
//	go run ./cmd/navspawn -source snapshot -source-path world.json.zst -sink sqlite -sink-path out/spawns.db -seed 42
//	go run ./cmd/navspawn -import -source-path world.json.zst
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/navspawn/internal/config"
	"github.com/udisondev/navspawn/internal/db"
	"github.com/udisondev/navspawn/internal/model"
	"github.com/udisondev/navspawn/internal/resultdb"
	"github.com/udisondev/navspawn/internal/snapshot"
	"github.com/udisondev/navspawn/internal/spawn"
	"github.com/udisondev/navspawn/internal/world"
)

const DefaultConfigPath = "config/navspawn.yaml"

type options struct {
	configPath string
	logLevel   string
	seed       uint64
	workers    int
	source     string
	sourcePath string
	sink       string
	sinkPath   string
	runID      string
	importOnly bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	_ = godotenv.Load(".env")

	fs := flag.NewFlagSet("navspawn", flag.ExitOnError)
	opts := parseFlags(fs, os.Args[1:])

	if err := run(ctx, fs, opts); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) options {
	var o options
	fs.StringVar(&o.configPath, "config", "", "YAML config (default $NAVSPAWN_CONFIG or "+DefaultConfigPath+")")
	fs.StringVar(&o.logLevel, "log-level", "", "debug|info|warn|error")
	fs.Uint64Var(&o.seed, "seed", 0, "run seed, 0 picks a random one")
	fs.IntVar(&o.workers, "workers", 0, "parallel areas, 0 = GOMAXPROCS")
	fs.StringVar(&o.source, "source", "", "world source: snapshot|postgres")
	fs.StringVar(&o.sourcePath, "source-path", "", "snapshot file (.json or .json.zst)")
	fs.StringVar(&o.sink, "sink", "", "spawn sink: none|sqlite|postgres")
	fs.StringVar(&o.sinkPath, "sink-path", "", "SQLite result file")
	fs.StringVar(&o.runID, "run-id", "", "run identifier in the sink (default: seed in hex)")
	fs.BoolVar(&o.importOnly, "import", false, "load the snapshot file into PostgreSQL and exit")
	_ = fs.Parse(args)
	return o
}

// applyFlags overrides cfg with explicitly set flags only.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, o options) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = o.logLevel
		case "seed":
			cfg.Seed = o.seed
		case "workers":
			cfg.Workers = o.workers
		case "source":
			cfg.Source.Kind = o.source
		case "source-path":
			cfg.Source.Path = o.sourcePath
		case "sink":
			cfg.Sink.Kind = o.sink
		case "sink-path":
			cfg.Sink.Path = o.sinkPath
		}
	})
}

func configPath(o options) string {
	if o.configPath != "" {
		return o.configPath
	}
	if p := os.Getenv("NAVSPAWN_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigPath
}

func loadConfig(fs *flag.FlagSet, o options) (config.Config, error) {
	path := configPath(o)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	applyFlags(&cfg, fs, o)
	if dsn := os.Getenv("NAVSPAWN_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, fs *flag.FlagSet, o options) error {
	cfg, err := loadConfig(fs, o)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	runID := o.runID
	if runID == "" {
		runID = fmt.Sprintf("%016x", cfg.Seed)
	}

	slog.Info("navspawn starting",
		"config", configPath(o),
		"source", cfg.Source.Kind,
		"sink", cfg.Sink.Kind,
		"seed", cfg.Seed,
		"run", runID,
		"log_level", cfg.LogLevel)

	classifier := world.NewClassifier(cfg.Classification)

	var database *db.DB
	if o.importOnly || cfg.Source.Kind == config.SourcePostgres || cfg.Sink.Kind == config.SinkPostgres {
		dsn := cfg.Database.ConnString()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		database, err = db.New(ctx, dsn)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	if o.importOnly {
		return importSnapshot(ctx, database, cfg.Source.Path, classifier)
	}

	started := time.Now()
	snap, err := loadWorld(ctx, cfg, database, classifier)
	if err != nil {
		return err
	}
	slog.Info("world loaded", "areas", len(snap.Areas()), "templates", len(snap.Templates()), "took", time.Since(started))

	reg := prometheus.NewRegistry()
	metrics := spawn.NewMetrics(reg)

	mgr := spawn.NewManager(snap, cfg, spawn.Options{
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
		Metrics: metrics,
	})
	stats, err := mgr.Run(ctx)
	if err != nil {
		return fmt.Errorf("generating spawns: %w", err)
	}
	recs := snap.Committed()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writeSink(gctx, cfg, database, runID, recs)
	})
	if cfg.MetricsFile != "" {
		g.Go(func() error {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
				return fmt.Errorf("writing metrics file: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("navspawn finished",
		"run", runID,
		"areas", stats.Areas,
		"spawns", stats.Spawns,
		"commitErrors", stats.CommitErrors,
		"took", time.Since(started))

	return nil
}

func loadWorld(ctx context.Context, cfg config.Config, database *db.DB, classifier world.Classifier) (*world.Snapshot, error) {
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		return db.NewWorldRepository(database.Pool()).LoadSnapshot(ctx, classifier)
	default:
		snap, err := snapshot.Load(cfg.Source.Path, classifier)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", cfg.Source.Path, err)
		}
		return snap, nil
	}
}

func importSnapshot(ctx context.Context, database *db.DB, path string, classifier world.Classifier) error {
	snap, err := snapshot.Load(path, classifier)
	if err != nil {
		return fmt.Errorf("loading snapshot %s: %w", path, err)
	}
	if err := db.NewWorldRepository(database.Pool()).SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}
	return nil
}

func writeSink(ctx context.Context, cfg config.Config, database *db.DB, runID string, recs []model.SpawnRecord) error {
	switch cfg.Sink.Kind {
	case config.SinkPostgres:
		return db.NewSpawnRepository(database.Pool()).SaveAll(ctx, runID, recs)
	case config.SinkSQLite:
		store, err := resultdb.Open(cfg.Sink.Path)
		if err != nil {
			return fmt.Errorf("opening result store: %w", err)
		}
		defer store.Close()
		return store.SaveAll(ctx, runID, cfg.Seed, recs)
	default:
		slog.Info("sink disabled, spawns not persisted", "count", len(recs))
		return nil
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
