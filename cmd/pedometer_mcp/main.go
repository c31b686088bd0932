// Package main runs the pedometer MCP server over stdio.
// `pedometer mcp` serves the same tools from the main CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/pedometer/internal"
	"github.com/2beens/pedometer/internal/config"
	"github.com/2beens/pedometer/internal/logging"
	pedometermcp "github.com/2beens/pedometer/internal/pedometer/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	dotenvPath := flag.String("dotenv", ".env", "optional dotenv file with secrets")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets(*dotenvPath)
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	// stdout is the protocol stream
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToConsole:  cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Console:       os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:      cfg,
		Secrets:     secrets,
		ServiceName: "pedometer-mcp",
	})
	if err != nil {
		log.Fatalf("new app: %v", err)
	}
	defer func() {
		if err := app.Close(context.WithoutCancel(ctx)); err != nil {
			log.Printf("close app: %v", err)
		}
	}()

	server := pedometermcp.NewServer(app.Service, time.Now)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Printf("mcp server: %v", err)
	}
}
