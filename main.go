package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"albadit/joker/config"
	"albadit/joker/instance"
	"albadit/joker/platform"
	"albadit/joker/systray"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	os.Exit(run(os.Args[1:], platform.NewProcessLister(), config.Load))
}

// run starts the utility and returns the process exit code. A second copy
// exits before touching the configuration.
func run(args []string, procs platform.ProcessLister, load func(string) (*config.Config, error)) int {
	running, err := instance.Running(procs)
	if err != nil {
		slog.Warn("Failed to check for other instances", "error", err)
	}
	if running {
		slog.Info("Another instance is already running, exiting")
		return 0
	}

	configPath, err := configPath(args)
	if err != nil {
		slog.Error("Failed to resolve config path", "error", err)
		return 1
	}

	// Load configuration
	cfg, err := load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err, "path", configPath)
		return 1
	}
	slog.Info("Configuration loaded", "path", configPath)

	// Create agent
	agent, err := NewAgent(cfg)
	if err != nil {
		slog.Error("Failed to create agent", "error", err)
		return 1
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tray := systray.NewManager(agent, systray.Icon())
	agent.OnPauseChange(tray.SetPaused)

	// Run agent
	errCh := make(chan error, 1)
	go func() {
		errCh <- agent.Run(ctx)
		cancel()
	}()

	go func() {
		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
		}
		tray.Stop()
	}()

	// The tray owns the main thread until it quits
	tray.Run()
	cancel()

	if err := <-errCh; err != nil {
		slog.Error("Agent error", "error", err)
		return 1
	}

	slog.Info("Joker stopped")
	return 0
}

// configPath returns the first argument, or config.toml next to the executable
func configPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	return config.DefaultPath()
}
