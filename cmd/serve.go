package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/db"
	"github.com/Jokero/webpack.js.org/internal/kv"
	"github.com/Jokero/webpack.js.org/internal/server"
	"github.com/Jokero/webpack.js.org/internal/site"
	"github.com/Jokero/webpack.js.org/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation site",
	Long: `Loads the content tree and serves the site over HTTP. With --watch the
content file is reloaded on change and open pages refresh themselves.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config)")
	serveCmd.Flags().Bool("watch", false, "reload the content tree when it changes")
	serveCmd.Flags().Bool("open", false, "open the site in the default browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("watch") {
		cfg.Server.Watch, _ = cmd.Flags().GetBool("watch")
	}
	open, _ := cmd.Flags().GetBool("open")

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	source, err := content.Open(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("%w\nRun `docsite content build` to generate it", err)
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	metrics := server.NewMetrics(Version)
	s := site.New(source, site.NewMarkdownResolver(cfg.ContentDir, cfg.SourcePrefix), site.Config{
		Title:       cfg.SiteTitle,
		FixedRoutes: cfg.FixedRoutes,
		Nav:         cfg.Nav,
	}, logger)

	sessions, err := site.NewSessions(s, kv.NewSQLiteStore(database), site.DefaultMaxSessions, metrics.StoreErrorHook())
	if err != nil {
		return fmt.Errorf("creating sessions: %w", err)
	}
	renderer, err := site.NewRenderer()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	var hub *server.Hub
	if cfg.Server.Watch {
		hub = server.NewHub(logger, metrics)
		renderer.LiveReload = true
	}

	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		AllowAll: cfg.Server.AllowAll,
	}, s, sessions, renderer, metrics, hub, logger)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Watch {
		w, err := watch.New(cfg.ContentFile, watch.DefaultDelay, logger)
		if err != nil {
			return fmt.Errorf("watching content: %w", err)
		}
		go func() {
			_ = w.Run(ctx, func() { _ = srv.ReloadContent() })
		}()
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "docsite %s serving %s\n", Version, url)
	fmt.Fprintf(os.Stderr, "  Content: %s\n", cfg.ContentFile)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
	if cfg.Server.Watch {
		fmt.Fprintln(os.Stderr, "  Live reload: on")
	}
	if open {
		openBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
