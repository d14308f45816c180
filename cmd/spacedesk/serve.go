package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spacedesk/internal/config"
	"github.com/rpggio/spacedesk/internal/mcp"
	"github.com/rpggio/spacedesk/internal/transport"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API, with the MCP endpoint at /mcp",
	RunE:  runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools over stdin/stdout for a local agent",
	RunE:  runStdio,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx, true, func(c *config.Config) { c.Transport.Mode = config.ModeHTTP })
	if err != nil {
		return err
	}
	defer rt.Close()

	a := rt.app
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		Resolver:      a.APIKeys,
		AuthEnabled:   rt.cfg.Auth.Enabled,
		TransportMode: config.ModeHTTP,
		Version:       version,
		Logger:        rt.logger.With("component", "mcp"),
	})

	opts := transport.Options{
		Logger: rt.logger.With("component", "http"),
		MCP:    mcp.NewHTTPHandler(mcpServer),
	}
	if rt.cfg.Auth.Enabled {
		opts.Auth = transport.AuthMiddleware(a.APIKeys)
	} else {
		rt.logger.Warn("authentication disabled")
	}

	addr := fmt.Sprintf("%s:%d", rt.cfg.Server.Host, rt.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(a.TransportServices(), opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("server listening", "addr", addr, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rt.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runStdio(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries JSON-RPC; setup logs to stderr.
	rt, err := setup(ctx, false, func(c *config.Config) { c.Transport.Mode = config.ModeStdio })
	if err != nil {
		return err
	}
	defer rt.Close()

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      rt.app.MCPServices(),
		TransportMode: config.ModeStdio,
		Version:       version,
		Logger:        rt.logger.With("component", "mcp"),
	})

	rt.logger.Info("starting stdio transport", "auth", "disabled")
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}
