package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/niels/static-server/pkg/config"
	"github.com/niels/static-server/pkg/logging"
	"github.com/niels/static-server/pkg/server"
	"github.com/niels/static-server/pkg/version"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	debug       bool
	showVersion bool
	confineRoot bool
	noColor     bool
	cfg         *config.Config
)

// NewRootCmd creates the root command for static-server
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithContext(context.Background())
}

// NewRootCmdWithContext creates the root command serving until ctx is done
// or an interrupt arrives. This is primarily used for testing
func NewRootCmdWithContext(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   version.AppName + " [port]",
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Serves .html, .css and .js files from the working directory.
The port is read from the first argument and defaults to %d.
`, version.AppName, version.Description, config.DefaultPort),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg = config.LoadOrDefault(configPath)
			} else {
				cfg = config.Default()
			}

			logging.InitGlobalLogger(debug, cfg)
			logging.Info("Initializing static-server")

			if debug {
				logging.Debug("Debug logging enabled")
			}
			if configPath != "" {
				logging.InfoWith("Loaded configuration", map[string]interface{}{
					"path": configPath,
				})
			} else {
				logging.Info("Using default configuration")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}

			root, err := resolveRoot(cfg.Server.RootDir)
			if err != nil {
				logging.ErrorWith("Failed to resolve root directory", map[string]interface{}{
					"error": err,
				})
				return fmt.Errorf("failed to resolve root directory: %w", err)
			}

			port := ParsePort(args, cfg.Server.DefaultPort)
			logging.InfoWith("Command flags", map[string]interface{}{
				"config":       configPath,
				"port":         port,
				"root":         root,
				"debug":        debug,
				"confine_root": confineRoot || cfg.Server.ConfineRoot,
			})

			srv := server.New(server.Options{
				Port:        port,
				Root:        root,
				ConfineRoot: confineRoot || cfg.Server.ConfineRoot,
				Out:         cmd.OutOrStdout(),
				NoColor:     noColor,
			})

			return run(ctx, srv, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (YAML or TOML)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.PersistentFlags().BoolVar(&confineRoot, "confine-root", false, "Refuse files resolving outside the root directory")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")

	return rootCmd
}

// run starts srv and blocks until ctx is cancelled, a signal arrives or the
// serve loop fails
func run(ctx context.Context, srv *server.Server, grace time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(); err != nil {
		logging.ErrorWith("Failed to start server", map[string]interface{}{
			"error": err,
		})
		return err
	}

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping new connections")
	case err := <-srv.Done():
		if err != nil {
			logging.ErrorWith("Server failed", map[string]interface{}{
				"error": err,
			})
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	return srv.Stop(stopCtx)
}

// ParsePort reads the port from the first argument. A missing, non-numeric
// or out of range value yields fallback.
func ParsePort(args []string, fallback int) int {
	if len(args) == 0 {
		return fallback
	}
	port, err := strconv.Atoi(args[0])
	if err != nil || port < 0 || port > 65535 {
		return fallback
	}
	return port
}

// resolveRoot returns dir as an absolute path, using the working directory
// when dir is empty
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
