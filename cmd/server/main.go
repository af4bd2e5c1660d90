package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worklinkph/internal/app"
	"worklinkph/internal/config"
	"worklinkph/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootstrap, cleanup, err := app.Bootstrap(ctx, cfg, log.Default())
	if err != nil {
		log.Fatalf("failed to bootstrap app: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	hub := bootstrap.Container.Hub
	go hub.Run(ctx)

	errCh := make(chan error, 2)
	go func() {
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	var wsServer *http.Server
	if cfg.WS.Port != "" {
		wsAddr, err := app.ListenAddr(cfg.WS.Port)
		if err != nil {
			log.Fatalf("invalid WS port: %v", err)
		}
		wsServer = ws.NewServer(wsAddr, ws.NewHandler(hub, log.Default()))
		go func() {
			log.Printf("websocket listening | addr=%s path=%s", wsAddr, ws.Path)
			if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("server error: %v", err)
		}
	case <-sigCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if wsServer != nil {
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("websocket shutdown error: %v", err)
		}
	}
	if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	cancel()
}
