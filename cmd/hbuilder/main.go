package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/config"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	dataDir    string
	verbose    bool
	httpAddr   string
	grpcAddr   string

	cfg    config.Config
	logger *zap.Logger
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "hbuilder",
		Short: "Design calculator for Harris bombers",
		Long: `hbuilder computes the performance, cost and combat figures of bomber
designs and their refits from a catalog of engines, turrets, manufacturers
and techs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVarP(&a.dataDir, "data", "d", "", "Catalog directory (overrides data_dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(a.calcCmd(), a.techsCmd(), a.researchCmd(), a.serveCmd())
	return root
}

func (a *app) setup() error {
	over := config.Raw{DataDir: a.dataDir}
	if a.verbose {
		over.LogLevel = "debug"
	}
	cfg, err := config.Load(a.configPath, over)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) loadCatalog() (*catalog.Loader, *catalog.Catalog, error) {
	l := catalog.NewLoader(a.cfg.DataDir, a.logger)
	c, err := l.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return l, c, nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
