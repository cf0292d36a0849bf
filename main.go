package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	dbPath := flag.String("db", "", "SQLite database path (default: $ARENA_DB or arena.db)")
	configPath := flag.String("config", "arena.toml", "Tuning overrides (TOML)")
	tui := flag.Bool("tui", false, "Play a local game in the terminal")
	flag.Parse()

	if err := LoadEnv(".env"); err != nil {
		log.Printf("config: %v", err)
	}
	cfg, err := LoadConfig(*addr, *clientDir, *dbPath, *configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.ClientDir == "" {
		exe, _ := os.Executable()
		cfg.ClientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(cfg.ClientDir); os.IsNotExist(err) {
			cfg.ClientDir = "../client"
		}
	}

	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	auth := NewAuth(db, cfg.JWTSecret, db)
	analytics := NewAnalytics(db)
	defer analytics.Stop()

	backend := &Backend{
		Stats:        db,
		Chat:         NewChatHub(db),
		Auth:         auth,
		Achievements: db,
		Analytics:    analytics,
	}

	if *tui {
		// log output would tear the screen
		log.SetOutput(io.Discard)
		if err := RunTUI(backend, cfg.Tuning); err != nil {
			log.SetOutput(os.Stderr)
			log.Fatalf("tui: %v", err)
		}
		return
	}

	sfx, err := NewSfxBank()
	if err != nil {
		log.Fatalf("sfx: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := NewHub(backend, cfg.Tuning)
	server := &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub, cfg.ClientDir, sfx)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		log.Printf("Server starting on %s", cfg.Addr)
		log.Printf("Serving client files from %s", cfg.ClientDir)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(sctx)
		hub.Shutdown()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: %v", err)
	}
}
