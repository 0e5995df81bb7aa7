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

	"review-eval/internal/api"
	"review-eval/internal/catalog"
	"review-eval/internal/config"
	"review-eval/internal/database"
	"review-eval/internal/evaluation"
	"review-eval/internal/logger"
	"review-eval/internal/middleware"
	"review-eval/internal/results"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	addr    string
)

var rootCmd = &cobra.Command{
	Use:   "evalform",
	Short: "Human evaluation form for generated peer reviews",
	Long: `evalform serves a local web form where raters score generated peer reviews
point by point. Ratings are appended to a CSV file.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the evaluation web server",
	RunE:  runServer,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	runCmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":$PORT\")")

	rootCmd.AddCommand(runCmd, checkCmd, ratersCmd, progressCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads .env, the configuration and the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg := config.New()

	log, err := logger.New(cfg.GinMode, cfg.LogLevel, verbose)
	if err != nil {
		return nil, nil, err
	}
	if envErr != nil {
		log.Debug("no .env file found")
	}
	return cfg, log, nil
}

func loadCatalog(cfg *config.Config, log *zap.Logger) (*catalog.Catalog, error) {
	cat, err := catalog.Load(catalog.Options{
		DataDir:     cfg.Data.Dir,
		SourcesFile: cfg.Data.SourcesFile,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation data: %w", err)
	}
	return cat, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.CheckSessionSecret(); err != nil {
		return err
	}
	if cfg.UsesDefaultSessionSecret() {
		log.Warn("SESSION_SECRET not set; sessions use the built-in development secret")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg, log)
	if err != nil {
		return err
	}
	for _, p := range cat.Check() {
		log.Warn("data problem", zap.String("kind", string(p.Kind)), zap.String("user", p.UserID),
			zap.String("paper_id", p.PaperID), zap.String("detail", p.Detail))
	}

	csvSink := results.NewCSVSink(cfg.Data.ResultsPath)
	var sink results.Sink = csvSink
	if cfg.Database.Enabled {
		db, err := database.NewConnection(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		sink = results.NewMultiSink(log, sink, db)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.RequestLogger(log))

	svc := evaluation.NewService(cat, sink, log)
	if err := api.SetupRoutes(router, cfg, cat, svc, log); err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	address := addr
	if address == "" {
		address = ":" + cfg.Server.Port
	}
	srv := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("server starting",
		zap.String("addr", address),
		zap.Int("raters", len(cat.Raters())),
		zap.String("results", csvSink.Path()),
		zap.Bool("db_mirror", cfg.Database.Enabled),
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
