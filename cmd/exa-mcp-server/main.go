// Command exa-mcp-server serves Exa web search tools over the Model
// Context Protocol, on stdio by default or HTTP SSE with --sse.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/exa-labs/exa-mcp-server-go/internal/config"
	"github.com/exa-labs/exa-mcp-server-go/internal/exa"
	"github.com/exa-labs/exa-mcp-server-go/internal/logging"
	"github.com/exa-labs/exa-mcp-server-go/internal/protocol"
	"github.com/exa-labs/exa-mcp-server-go/internal/registry"
	"github.com/exa-labs/exa-mcp-server-go/internal/tools"
	"github.com/exa-labs/exa-mcp-server-go/internal/transport"
)

const serverVersion = "1.0.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "exa-mcp-server:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log := logging.New(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var clientOpts []exa.Option
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, exa.WithBaseURL(cfg.BaseURL))
	}

	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, exa.WithTimeout(cfg.Timeout))
	}

	client := exa.NewClient(log, cfg.APIKey, clientOpts...)

	reg := registry.New(log)

	for _, desc := range []*registry.Descriptor{
		tools.NewWebSearch(log, client),
		tools.NewResearchPaperSearch(log, client),
		tools.NewTwitterSearch(log, client),
		tools.NewSEOOutline(log, client),
	} {
		if err := reg.Register(desc); err != nil {
			return err
		}
	}

	reg.SetAllowed(cfg.Tools)

	server := protocol.NewServer(log, reg, protocol.WithServerInfo("exa-search-server", serverVersion))

	var tr transport.Transport
	if cfg.SSE {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info("Starting SSE server", "addr", addr)
		tr = transport.NewSSE(log, server, addr, cfg.APIToken)
	} else {
		log.Info("Starting stdio server")
		tr = transport.NewStdio(log, server)
	}

	if err := tr.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}
