package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/redkinggame/redking/internal/randutil"
	"github.com/redkinggame/redking/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"redking-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Seed     int64  `short:"s" long:"seed" help:"Deterministic RNG seed for shuffles and room codes (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Seed != 0 {
		cfg.Server.Seed = CLI.Seed
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	// A full --addr replaces the config's host:port pair outright.
	addr := cfg.ListenAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	rng := randutil.FromTime()
	if cfg.Server.Seed != 0 {
		rng = randutil.New(cfg.Server.Seed)
		logger.Info("Using deterministic seed", "seed", cfg.Server.Seed)
	}

	logger.Info("Starting Red King server",
		"addr", addr,
		"botDelay", cfg.BotDelay())

	wsServer := server.NewServer(addr, logger)
	app := server.NewApp(wsServer, rng, quartz.NewReal(), cfg.BotDelay(), logger)
	wsServer.SetController(app.Controller)

	var group errgroup.Group
	group.Go(func() error {
		return wsServer.Start()
	})
	group.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info("Shutting down server...")
		return wsServer.Stop()
	})

	if err := group.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}
