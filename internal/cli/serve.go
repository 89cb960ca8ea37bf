package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/clickwar-arcade/clickwar/internal/api"
	"github.com/clickwar-arcade/clickwar/internal/app/game"
	"github.com/clickwar-arcade/clickwar/internal/infra/events"
	"github.com/clickwar-arcade/clickwar/internal/infra/observability"
	"github.com/clickwar-arcade/clickwar/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "listen host (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	Long: `Start the HTTP game server. The match archive, Prometheus metrics and
NATS event fan-out are enabled from config.toml; a .env file in the working
directory is loaded first.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.API.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.API.Port = port
	}

	engine := game.New(cfg.Game.Engine())
	hub := api.NewHub(0)
	engine.AddSink(hub)

	srv := api.NewServer(engine)
	srv.SetHub(hub)
	srv.SetCORSOrigin(cfg.API.CORSOrigin)

	if cfg.Metrics.Enabled {
		engine.AddSink(observability.NewGameMetrics(prometheus.DefaultRegisterer))
		srv.EnableMetrics()
	}

	if cfg.Archive.Enabled {
		db, err := sqlite.Open(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("open match archive: %w", err)
		}
		defer db.Close()
		engine.AddSink(sqlite.NewArchive(db))
		srv.SetHistory(db)
		log.Printf("[serve] match archive at %s", cfg.Archive.Path)
	}

	if cfg.Events.NATSURL != "" {
		nc, err := events.Connect(cfg.Events.NATSURL, "clickwar")
		if err != nil {
			log.Printf("[serve] event fan-out disabled: %v", err)
		} else {
			pub := events.NewPublisher(nc, cfg.Events.SubjectPrefix)
			defer pub.Close()
			engine.AddSink(pub)
			log.Printf("[serve] publishing events to %s.*", cfg.Events.SubjectPrefix)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              cfg.API.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Live feed handlers end when the server shuts down.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[serve] listening on http://%s", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[serve] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
