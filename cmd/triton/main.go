// Command triton exercises the object storage core: it replays the chunked
// pool scenario, benchmarks a pool and manages configuration files.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/triton/pkg/config"
	"github.com/ajitpratap0/triton/pkg/logger"
)

var version = "0.1.0"

// options are the persistent flags shared by every command.
type options struct {
	configFile string
	logLevel   string
	cfg        *config.Config
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "triton",
		Short: "Triton - chunked object storage for engine objects",
		Long: `Triton stores engine objects densely in fixed-size chunks, finds them
by identifier through a direct-mapped hash cache, and creates standalone
objects through an allocator-backed factory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", os.Getenv("TRITON_CONFIG"), "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Triton v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newScenarioCmd(opts))
	root.AddCommand(newBenchCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

// load reads the configuration file, if any, and initializes the logger.
func (o *options) load() error {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.cfg = cfg
	return nil
}
