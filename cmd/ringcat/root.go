// File: cmd/ringcat/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/momentics/circfifo/control"
	"github.com/momentics/circfifo/internal/pipeline"
	"github.com/momentics/circfifo/internal/selftest"
)

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "ringcat",
		Short:         "Copy stdin to stdout through a fixed-capacity byte ring",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Level())
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			p, err := pipeline.New(cfg, log)
			if err != nil {
				return err
			}
			st, err := p.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())

			reg := control.NewMetricsRegistry()
			p.Counters().Publish(reg, "ring")
			log.Info("copy finished",
				zap.Int64("bytes_in", st.BytesIn),
				zap.Int64("bytes_out", st.BytesOut),
				zap.Int64("short_reads", st.ShortReads),
				zap.Int64("idle_rounds", st.IdleRounds),
				zap.Any("metrics", reg.GetSnapshot()),
			)
			log.Debug("ring state", zap.Any("probes", p.Probes().DumpState()))
			if err != nil {
				log.Error("copy failed", zap.Error(err))
			}
			return err
		},
	}

	flags := cmd.PersistentFlags()
	defaults := control.DefaultConfig()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.Int("capacity", defaults.Capacity, "ring capacity in bytes (usable is one less)")
	flags.Int("chunk", defaults.ChunkSize, "largest single ring transfer in bytes")
	flags.String("storage", defaults.Storage, "backing storage: heap or mmap")
	flags.Bool("concurrent", defaults.Concurrent, "run producer and consumer on separate goroutines")
	flags.Duration("max-backoff", defaults.MaxBackoff, "upper bound of idle sleep in concurrent mode")
	flags.Int("producer-cpu", defaults.ProducerCPU, "pin the producer to this CPU in concurrent mode (-1 for none)")
	flags.Int("consumer-cpu", defaults.ConsumerCPU, "pin the consumer to this CPU in concurrent mode (-1 for none)")
	flags.String("log-level", defaults.LogLevel, "log level")

	cmd.AddCommand(newSelftestCommand(&configPath))
	return cmd
}

func newSelftestCommand(configPath *string) *cobra.Command {
	var iterations int
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Replay the reference ring scenarios on every ring flavour",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), *configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Level())
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			return selftest.Run(log, iterations)
		},
	}
	cmd.Flags().IntVar(&iterations, "iterations", selftest.DefaultIterations, "randomized scenario iterations")
	return cmd
}

// resolveConfig loads the config file, if any, and applies explicitly set flags on top.
func resolveConfig(flags *pflag.FlagSet, path string) (control.Config, error) {
	base := control.DefaultConfig()
	if path != "" {
		var err error
		if base, err = control.LoadConfig(path); err != nil {
			return control.Config{}, err
		}
	}

	store := control.NewConfigStore(base)
	var flagErr error
	err := store.Update(func(c *control.Config) {
		set := func(name string, apply func() error) {
			if flagErr == nil && flags.Changed(name) {
				flagErr = errors.Wrapf(apply(), "flag --%s", name)
			}
		}
		set("capacity", func() (err error) { c.Capacity, err = flags.GetInt("capacity"); return })
		set("chunk", func() (err error) { c.ChunkSize, err = flags.GetInt("chunk"); return })
		set("storage", func() (err error) { c.Storage, err = flags.GetString("storage"); return })
		set("concurrent", func() (err error) { c.Concurrent, err = flags.GetBool("concurrent"); return })
		set("max-backoff", func() (err error) { c.MaxBackoff, err = flags.GetDuration("max-backoff"); return })
		set("producer-cpu", func() (err error) { c.ProducerCPU, err = flags.GetInt("producer-cpu"); return })
		set("consumer-cpu", func() (err error) { c.ConsumerCPU, err = flags.GetInt("consumer-cpu"); return })
		set("log-level", func() (err error) { c.LogLevel, err = flags.GetString("log-level"); return })
	})
	if flagErr != nil {
		return control.Config{}, flagErr
	}
	if err != nil {
		return control.Config{}, err
	}
	return store.GetSnapshot(), nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return log.Named("ringcat"), nil
}
