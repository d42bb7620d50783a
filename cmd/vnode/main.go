package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vango-dev/vnode/internal/config"
	"github.com/vango-dev/vnode/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		errors.DisableColors()
	}

	if err := rootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "vnode",
		Short: "Render virtual DOM documents to HTML",
		Long: `vnode renders YAML, JSON and HTML documents through a virtual DOM
and writes the markup to standard output, files or S3.

Documents declare a root node and optional components. Components
read their props, context and children through placeholders, and
stateful components pass context to their descendants.

Examples:
  vnode render page.yaml
  vnode render page.yaml --page --out dist/index.html
  vnode serve page.yaml --port 8080
  vnode history --limit 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: vnode.yaml found next to the document or above it)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	cmd.AddCommand(
		renderCmd(flags),
		serveCmd(flags),
		historyCmd(flags),
		versionCmd(),
	)
	return cmd
}

// loadConfig reads --config, or the config of the project dir belongs to.
// A project without a config file gets the defaults.
func (f *globalFlags) loadConfig(dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		root, ok, ferr := config.FindProjectRoot(dir)
		switch {
		case ferr != nil:
			err = ferr
		case ok:
			cfg, err = config.Load(root)
		default:
			cfg = config.New()
		}
	}
	if err != nil {
		return nil, err
	}

	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
