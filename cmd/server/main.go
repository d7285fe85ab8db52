package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"squadnet/internal/config"
	"squadnet/internal/events"
	"squadnet/internal/handler"
	"squadnet/internal/store"
	"squadnet/internal/webhook"
	"squadnet/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ws, err := workspace.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("workspace: %v", err)
	}
	defer ws.Close()

	bus := events.NewBus()
	st := store.New(bus)
	bus.Subscribe(st.HandleEvent)

	if err := st.Seed(); err != nil {
		log.Fatalf("seed: %v", err)
	}

	var sync *webhook.Client
	if cfg.ProfileSyncURL != "" {
		sync = webhook.NewClient(cfg.ProfileSyncURL)
		log.Printf("profile sync: %s", cfg.ProfileSyncURL)
	}

	h := handler.New(st, ws, sync, cfg.CSRFSecret, cfg.CookieDomain)
	router := h.Router()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down...")
		_ = ws.Close()
		os.Exit(0)
	}()

	log.Printf("Starting server at http://%s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), router); err != nil {
		log.Fatalf("server: %v", err)
	}
}
