package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ionut-t/nlsql/internal/config"
	"github.com/ionut-t/nlsql/internal/logger"
	"github.com/ionut-t/nlsql/internal/metrics"
	"github.com/ionut-t/nlsql/pkg/columns"
	"github.com/ionut-t/nlsql/pkg/llm/llm_factory"
	"github.com/ionut-t/nlsql/pkg/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// runtime holds what every command needs once flags and config are parsed.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	var verbose bool
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "nlsql",
		Short:         "nlsql turns natural-language questions into read-only SQL for the drawing table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.InitialiseConfigFile(); err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			}

			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			l, err := logger.New(cfg.LogLevel, verbose)
			if err != nil {
				return err
			}

			rt.cfg = cfg
			rt.logger = l

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		serveCmd(rt),
		askCmd(rt),
		columnsCmd(rt),
		configCmd(),
		versionCmd(),
	)

	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults(viper.GetViper())
}

// mapping returns the configured column mapping, falling back to the
// embedded one.
func (rt *runtime) mapping() (*columns.Mapping, error) {
	if rt.cfg.ColumnMapping == "" {
		return columns.Default(), nil
	}

	return columns.Load(rt.cfg.ColumnMapping)
}

func (rt *runtime) pipeline(ctx context.Context, m *metrics.Metrics) (*pipeline.Pipeline, error) {
	mapping, err := rt.mapping()
	if err != nil {
		return nil, err
	}

	generator, err := llm_factory.New(ctx, rt.cfg)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithMapping(mapping),
		pipeline.WithLogger(rt.logger),
	}
	if m != nil {
		opts = append(opts, pipeline.WithObserver(m))
	}

	rt.logger.Info("pipeline ready",
		zap.String("provider", rt.cfg.Provider),
		zap.String("model", generator.Model()),
		zap.Int("columns", mapping.Len()),
	)

	return pipeline.New(generator, opts...), nil
}
