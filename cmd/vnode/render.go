package main

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vnode/internal/document"
	"github.com/vango-dev/vnode/internal/errors"
	"github.com/vango-dev/vnode/internal/history"
	"github.com/vango-dev/vnode/internal/preview"
	"github.com/vango-dev/vnode/internal/publish"
	"github.com/vango-dev/vnode/pkg/render"
)

type renderOptions struct {
	static  bool
	page    bool
	out     string
	history string
}

func renderCmd(flags *globalFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render DOC",
		Short: "Render a document to HTML",
		Long: `Render a document and publish the markup.

The target is standard output unless --out or publish.target says
otherwise. Targets can be a file path or s3://bucket/key.

Examples:
  vnode render page.yaml
  vnode render page.yaml --static
  vnode render page.yaml --page --out dist/index.html
  vnode render page.html --out s3://my-site/index.html --history publishes.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.static, "static", false, "Use the static markup entry point")
	cmd.Flags().BoolVar(&opts.page, "page", false, "Wrap the output in a full HTML page")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Publish target: -, a file path or s3://bucket/key (default from config)")
	cmd.Flags().StringVar(&opts.history, "history", "", "Record the publish in this SQLite database (default from config)")

	return cmd
}

func runRender(cmd *cobra.Command, flags *globalFlags, opts *renderOptions, docPath string) error {
	cfg, err := flags.loadConfig(filepath.Dir(docPath))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("static") {
		cfg.Render.Static = opts.static
	}
	if cmd.Flags().Changed("page") {
		cfg.Render.Page = opts.page
	}
	if opts.out != "" {
		cfg.Publish.Target = opts.out
	}
	if opts.history != "" {
		cfg.Publish.History = opts.history
	}

	logger := cfg.Logger(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := publish.ParseTarget(cfg.Publish.Target)
	if err != nil {
		return err
	}

	doc, err := document.Load(docPath)
	if err != nil {
		return err
	}
	root, err := doc.Root()
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(render.RendererConfig{Logger: logger})
	var (
		body  []byte
		entry string
	)
	switch {
	case cfg.Render.Page:
		entry = "page"
		page := preview.PageData(cfg)
		page.Body = root
		var buf bytes.Buffer
		err = renderer.RenderPageContext(ctx, &buf, page)
		body = buf.Bytes()
	case cfg.Render.Static:
		entry = render.EntryStatic
		var s string
		s, err = renderer.RenderToStaticMarkup(root)
		body = []byte(s)
	default:
		entry = render.EntryString
		var s string
		s, err = renderer.RenderToString(root)
		body = []byte(s)
	}
	if err != nil {
		return errors.FromError(err, "E140")
	}

	sink, err := publish.Open(target, publish.Options{
		Stdout:       cmd.OutOrStdout(),
		Region:       cfg.Publish.Region,
		Endpoint:     cfg.Publish.Endpoint,
		ContentType:  cfg.Publish.ContentType,
		CacheControl: cfg.Publish.CacheControl,
	})
	if err != nil {
		return err
	}
	res, err := publish.Publish(ctx, sink, body)
	if err != nil {
		return err
	}
	logger.Debug("published", "document", docPath, "target", res.Target.String(), "bytes", res.Bytes, "entry", entry)

	if cfg.Publish.History == "" {
		return nil
	}
	ledger, err := history.Open(cfg.Publish.History)
	if err != nil {
		return errors.New("E153").Wrap(err).WithSuggestion("Check the history path " + cfg.Publish.History)
	}
	defer ledger.Close()

	docKey := docPath
	if abs, err := filepath.Abs(docPath); err == nil {
		docKey = abs
	}
	if last, ok, err := ledger.Last(ctx, docKey, res.Target.String()); err == nil && ok && last.SHA256 == res.SHA256 {
		logger.Info("output unchanged since last publish", "document", docPath, "previous", last.ID)
	}
	e, err := ledger.Record(ctx, history.Entry{
		Document: docKey,
		Target:   res.Target.String(),
		Entry:    entry,
		Bytes:    res.Bytes,
		SHA256:   res.SHA256,
	})
	if err != nil {
		return errors.New("E153").Wrap(err)
	}
	logger.Debug("recorded publish", "id", e.ID)
	return nil
}
