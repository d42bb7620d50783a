package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vnode/internal/errors"
	"github.com/vango-dev/vnode/internal/preview"
	"github.com/vango-dev/vnode/pkg/render"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve DOC",
		Short: "Preview a document with live reload",
		Long: `Serve a document as a page and reload the browser when it changes.

The document is rendered on every request. With hot reload on (the
default), edits to the document or config file reload open pages, or
show an error overlay when the edit does not load.

Examples:
  vnode serve page.yaml
  vnode serve page.yaml --port 8080
  vnode serve page.yaml --host 0.0.0.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, args[0], port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, docPath string, port int, host string) error {
	cfg, err := flags.loadConfig(filepath.Dir(docPath))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		if port < 1 || port > 65535 {
			return errors.New("E181").WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(port))
		}
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if _, err := os.Stat(docPath); err != nil {
		return errors.New("E120").Wrap(err).WithSuggestion("Check that " + docPath + " exists and is readable")
	}

	logger := cfg.Logger(cmd.ErrOrStderr())

	opts := preview.Options{
		Document: docPath,
		Config:   cfg,
		Logger:   logger,
	}
	if cfg.Dev.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Gatherer = reg
		opts.Renderer = render.NewRenderer(render.RendererConfig{
			Logger:  logger,
			Metrics: render.NewMetrics(render.WithRegistry(reg)),
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at %s\n", docPath, cfg.DevURL())
	return preview.New(opts).Run(ctx)
}
