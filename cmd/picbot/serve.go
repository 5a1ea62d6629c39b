// ABOUTME: serve command: runs the HTTP gateway and the optional Matrix connector
// ABOUTME: Both stop when the process receives SIGINT or SIGTERM

package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/picbot/internal/config"
	"github.com/2389/picbot/internal/gateway"
	"github.com/2389/picbot/internal/matrix"
	"github.com/2389/picbot/internal/store"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bot's HTTP endpoint (and Matrix connector when enabled)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := root.resolveConfigPath()
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if addr != "" {
				cfg.Server.HTTPAddr = addr
			}
			return runServe(cmd.Context(), configPath, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.http_addr")
	return cmd
}

func runServe(ctx context.Context, configPath string, cfg *config.Config) error {
	printStartup(configPath, cfg)

	logger := setupLogger(cfg.Logging, os.Stdout)
	logger.Info("starting picbot",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"database", cfg.Database.Path,
		"matrix", cfg.Matrix.Enabled,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	b, err := buildBot(cfg, st, logger)
	if err != nil {
		return err
	}

	gw, err := gateway.New(cfg, b, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- gw.Run(ctx) }()

	if cfg.Matrix.Enabled {
		mx, err := matrix.New(cfg.Matrix, gw, st, logger)
		if err != nil {
			cancel()
			<-errCh
			return fmt.Errorf("creating matrix client: %w", err)
		}
		running++
		go func() { errCh <- mx.Run(ctx) }()
	}

	// The first failure stops the other component.
	var firstErr error
	for range running {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}

func printStartup(configPath string, cfg *config.Config) {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	gray.Printf("    version: %s\n\n", version)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	if cfg.Matrix.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Matrix:    ")
		cyan.Println(cfg.Matrix.UserID)
	}

	status := serviceStatus(cfg)
	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		green.Print("    ▶ ")
		fmt.Printf("%-11s", name+":")
		if status[name] {
			cyan.Println("online")
		} else {
			yellow.Println("offline")
		}
	}

	if cfg.Auth.JWTSecret == "" {
		yellow.Println("    ! auth.jwt_secret not set, /api/messages accepts anonymous requests")
	}
	fmt.Println()
}
