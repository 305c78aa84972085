package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/typegraph/internal/api"
	"github.com/persistorai/typegraph/internal/config"
	"github.com/persistorai/typegraph/internal/db"
	"github.com/persistorai/typegraph/internal/db/migrations"
	"github.com/persistorai/typegraph/internal/dbpool"
	"github.com/persistorai/typegraph/internal/kg"
	"github.com/persistorai/typegraph/internal/metrics"
	"github.com/persistorai/typegraph/internal/service"
	"github.com/persistorai/typegraph/internal/sparql"
	"github.com/persistorai/typegraph/internal/store"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the typegraph HTTP API (configured from environment variables)",
		Long: "Serves /api/v1 on LISTEN_HOST:PORT. Reads SPARQL_ENDPOINT, ONTOLOGY_NAMESPACE, " +
			"RESOURCE_NAMESPACE, LABEL_LANGUAGE, QUERY_TIMEOUT, QUERY_RATE, QUERY_BURST, " +
			"DISCOVER_WORKERS, CLIENT_RATE, CLIENT_BURST, DATABASE_URL, CORS_ORIGINS and LOG_LEVEL.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// serve reads only the server environment, not CLI config.
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := newServerLogger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func newServerLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	// Load has already validated the level.
	lvl, _ := logrus.ParseLevel(level)
	log.SetLevel(lvl)

	return log
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	q := sparql.New(cfg.SPARQLEndpoint,
		sparql.WithTimeout(cfg.QueryTimeout),
		sparql.WithRateLimit(cfg.QueryRate, cfg.QueryBurst),
		sparql.WithUserAgent("typegraph/"+config.Version),
	)
	graph := kg.New(q, kg.Namespaces{
		Ontology: cfg.OntologyNamespace,
		Resource: cfg.ResourceNamespace,
		Language: cfg.LabelLanguage,
	}, log)

	deps := &api.RouterDeps{
		Log:         log,
		Endpoint:    q,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		ClientRate:  cfg.ClientRate,
		ClientBurst: cfg.ClientBurst,
	}

	var runs service.RunStore
	if cfg.StorageEnabled() {
		pool, version, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		log.WithField("schema_version", version).Info("database ready")

		metrics.RegisterPoolStats(pool.Stat)
		runs = store.NewRunStore(&store.Base{Pool: pool, Log: log})
		deps.DB = pool
	}

	svc := service.NewAncestryService(graph, runs, log,
		service.WithWorkers(cfg.DiscoverWorkers),
		service.WithDiscoverTimeout(cfg.DiscoverTimeout),
	)
	deps.Ancestry = svc
	deps.Runs = svc

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		ns := graph.Namespaces()
		log.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"endpoint": q.Endpoint(),
			"ontology": ns.Ontology,
			"resource": ns.Resource,
			"language": ns.Language,
			"storage":  cfg.StorageEnabled(),
			"version":  config.Version,
		}).Info("typegraph listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// openDatabase connects to DATABASE_URL, applies pending migrations and returns the resulting
// schema version.
func openDatabase(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*dbpool.Pool, int64, error) {
	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(),
		dbpool.WithMaxConns(cfg.DBMaxConns),
		dbpool.WithStatementTimeout(cfg.QueryTimeout),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("connecting to database: %w", err)
	}

	version, err := db.RunMigrations(ctx, pool, log, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, 0, err
	}

	return pool, version, nil
}
