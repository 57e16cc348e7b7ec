// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// lumiere is a streaming chat TUI for the Gemini API with persona modes and
// persistent sessions.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lumiere-labs/lumiere-tui/internal/cli"
	"github.com/lumiere-labs/lumiere-tui/internal/config"
	"github.com/lumiere-labs/lumiere-tui/internal/controller"
	"github.com/lumiere-labs/lumiere-tui/internal/logging"
	"github.com/lumiere-labs/lumiere-tui/internal/model"
	"github.com/lumiere-labs/lumiere-tui/internal/responder"
	"github.com/lumiere-labs/lumiere-tui/internal/session"
	"github.com/lumiere-labs/lumiere-tui/internal/storage"
	"github.com/lumiere-labs/lumiere-tui/internal/ui/chat"
)

func main() {
	args := cli.ParseArgs(os.Args[1:])

	switch args.Positional(0) {
	case "help", "-h", "--help":
		cli.RunHelp(os.Stdout)
	case "version":
		cli.RunVersion(os.Stdout)
	case "sessions":
		cfg := mustLoadConfig()
		if err := cli.RunSessions(os.Stdout, cfg, args); err != nil {
			cli.Exit(err)
		}
	case "export":
		cfg := mustLoadConfig()
		if err := cli.RunExport(os.Stdout, cfg, args); err != nil {
			cli.Exit(err)
		}
	case "config":
		cfg := mustLoadConfig()
		if err := cli.RunConfig(os.Stdout, cfg); err != nil {
			cli.Exit(err)
		}
	case "":
		if err := runTUI(mustLoadConfig()); err != nil {
			cli.Exit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args.Positional(0))
		cli.RunHelp(os.Stderr)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		cli.Exit(err)
	}
	return cfg
}

func runTUI(cfg *config.Config) error {
	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logger, err := logging.New(logPath, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		return err
	}
	defer closeSlot()

	repo := storage.NewRepository(slot, logger)
	directory := session.NewDirectory()
	repo.Load(directory)

	ctx := context.Background()
	resp, err := responder.NewGemini(ctx, responder.Config{
		APIKey:            cfg.API.Key,
		Model:             cfg.API.Model,
		VideoInputModel:   cfg.API.VideoInputModel,
		VideoGenModel:     cfg.API.VideoGenModel,
		RequestsPerMinute: cfg.API.RequestsPerMinute,
		PollInterval:      cfg.VideoPollInterval(),
	}, logger)
	if err != nil {
		return fmt.Errorf("set LUMIERE_API_KEY or api.key in the config file: %w", err)
	}

	ctrl := controller.New(model.NewTranscript(), directory, resp, repo, logger)
	ctrl.SetLanguage(cfg.UI.Language)
	ctrl.ChangeMode(model.Mode(cfg.UI.Mode))

	p := tea.NewProgram(
		chat.NewModel(ctrl, cfg.UI.ShowSidebar),
		tea.WithAltScreen(),
	)
	ctrl.SetNotify(func(ev controller.Event) {
		p.Send(chat.ControllerEventMsg{Event: ev})
	})

	// Live-reload the interface language on config edits.
	cfgPath, err := config.DefaultPath()
	if err == nil {
		stop, werr := config.Watch(cfgPath, logger, func(next *config.Config) {
			ctrl.SetLanguage(next.UI.Language)
		})
		if werr != nil {
			logger.Warn("config watch unavailable", zap.Error(werr))
		} else {
			defer stop()
		}
	}

	logger.Info("lumiere starting",
		zap.String("mode", ctrl.Mode().String()),
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("restored_sessions", directory.Len()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	ctrl.Wait()
	return nil
}

// openSlot builds the configured storage slot and its cleanup.
func openSlot(cfg *config.Config) (storage.Slot, func(), error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Storage.Backend == "sqlite" {
		sq, err := storage.NewSQLiteSlot(path, "sessions")
		if err != nil {
			return nil, nil, err
		}
		return sq, func() { sq.Close() }, nil
	}
	return storage.NewFileSlot(path), func() {}, nil
}
