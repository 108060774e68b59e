package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/app"
	"github.com/ndnguyen/agora/internal/cache"
	"github.com/ndnguyen/agora/internal/credential"
	"github.com/ndnguyen/agora/internal/logging"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/notify"
	"github.com/ndnguyen/agora/internal/push"
	appsync "github.com/ndnguyen/agora/internal/sync"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agora: loading config: %v\n", err)
		os.Exit(1)
	}

	cleanup, err := logging.Init(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agora: initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	store, err := cache.Open(model.DefaultCachePath())
	if err != nil {
		// The cache only backs bookmarks, boards, and drafts; the app
		// still works without it.
		logging.Warn("opening local cache", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	token, err := credential.Get(credential.SessionTokenKey)
	if err != nil {
		logging.Debug("no stored session token", "error", err)
		token = ""
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	client := api.NewClient(cfg.Server.BaseURL, token, timeout, cfg.Server.PageSize)

	pushEndpoint := cfg.Server.PushURL
	if pushEndpoint == "" {
		pushEndpoint = push.Endpoint(cfg.Server.BaseURL)
	}
	pushClient := push.NewClient(pushEndpoint, push.Config{
		MaxRetries: cfg.Push.MaxRetries,
		MaxBackoff: time.Duration(cfg.Push.MaxBackoffSec) * time.Second,
	})

	notifStore := notify.NewStore()
	ctrl := appsync.New(client, pushClient, notifStore, timeout)

	m := app.New(cfg, client, store, ctrl)
	if token != "" {
		m.SetSession(model.Session{Token: token})
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("program exited", "error", err)
		fmt.Fprintf(os.Stderr, "agora: %v\n", err)
		os.Exit(1)
	}
}
