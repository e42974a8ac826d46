package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tgsilent/silentdelete/internal/api"
	"github.com/tgsilent/silentdelete/internal/biz"
	"github.com/tgsilent/silentdelete/internal/biz/repo"
	"github.com/tgsilent/silentdelete/internal/conf"
	"github.com/tgsilent/silentdelete/internal/data"
	"github.com/tgsilent/silentdelete/internal/data/telegram"
	"github.com/tgsilent/silentdelete/internal/logger"
	"github.com/tgsilent/silentdelete/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	slogger := logger.New(cfg.LogLevel)

	// Persisted documents: rules and deletion history
	repos, err := data.NewRepositories(cfg.RulesFile, cfg.HistoryFile)
	if err != nil {
		log.Fatalf("Failed to open document stores: %v", err)
	}

	// The Telegram client is built lazily, per login start, because the
	// application identity arrives with the request.
	factory := func(appID int, appHash string) (repo.Messenger, error) {
		return telegram.NewClient(appID, appHash, telegram.Options{
			SessionDBPath: cfg.SessionDBPath,
			TargetPeer:    cfg.TargetPeer,
			Debug:         cfg.Debug,
		})
	}

	// Usecase layer
	ucs := biz.NewUsecases(factory, repos.Rules, repos.History, cfg.DeleteEnabled, slogger)

	// Supervisor: activates the deletion engine once the session is ready
	supervisor := service.NewSupervisor(ucs.Login, ucs.Engine, cfg.PollInterval, slogger)
	supervisor.Start(context.Background())

	// HTTP control surface
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	apiServer := api.NewServer(ucs.Login, ucs.Rules, ucs.Engine, repos.History, addr, slogger)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slogger.Info("shutting down")
		supervisor.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Stop(ctx); err != nil {
			slogger.Error("api shutdown failed", "error", err)
		}

		if m := ucs.Login.Messenger(); m != nil {
			if err := m.Close(); err != nil {
				slogger.Error("client close failed", "error", err)
			}
		}
	}()

	slogger.Info("starting silent delete service", "addr", addr, "target_peer", cfg.TargetPeer)
	if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("API server error: %v", err)
	}
}
