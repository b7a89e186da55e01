package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alucardeht/textproc/internal/logger"
	"github.com/alucardeht/textproc/internal/mcp"
	"github.com/alucardeht/textproc/internal/tools"
	"github.com/alucardeht/textproc/internal/tools/textops"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the text tools as JSON-RPC 2.0 (MCP) over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.load(cmd)
			if err != nil {
				return err
			}

			registry := tools.NewRegistry()
			for _, tool := range textops.GetTools(rt.processor) {
				if err := registry.Register(tool); err != nil {
					return err
				}
			}
			if err := registry.Register(tools.NewHealthTool(func() int { return len(registry.Names()) })); err != nil {
				return err
			}

			server := mcp.NewServer(registry, mcp.Options{
				Name:        rt.cfg.Server.Name,
				ToolTimeout: rt.cfg.Server.ToolTimeout,
				Logger:      logger.ForComponent("mcp"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = server.ServeStreams(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
