package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Tyrowin/chatrelay/internal/responder"
	"github.com/Tyrowin/chatrelay/internal/server"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	printSummary(os.Stdout, cfg)

	hub := server.NewHub(cfg, log, responder.Default())
	server.StartHub(hub)

	httpServer := server.CreateServer(cfg.Address(), server.SetupRoutes(hub))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.StartServer(httpServer, log)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		_ = hub.Shutdown(cfg.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	}

	if err := server.ShutdownServer(httpServer, cfg.ShutdownTimeout, log); err != nil {
		log.Warn("HTTP server did not stop cleanly", "err", err)
	}
	if err := hub.Shutdown(cfg.ShutdownTimeout); err != nil {
		log.Warn("Hub did not stop cleanly", "err", err)
	}

	log.Info("Program stopped cleanly")
	return nil
}

func printSummary(w io.Writer, cfg server.Config) {
	static := cfg.StaticDir
	if static == "" {
		static = "(built-in page)"
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Setting", "Value"})
	table.Append([]string{"Listen", cfg.Address()})
	table.Append([]string{"WebSocket", "ws://" + cfg.Address() + "/"})
	table.Append([]string{"Allowed origins", cfg.AllowedOrigins})
	table.Append([]string{"Bot", cfg.BotName})
	table.Append([]string{"Reply delay", cfg.ReplyDelay.String()})
	table.Append([]string{"Bind chat identity", strconv.FormatBool(cfg.BindChatIdentity)})
	table.Append([]string{"Static assets", static})
	table.Append([]string{"Log level", cfg.LogLevel})
	table.Render()
}
