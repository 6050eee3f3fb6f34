package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/glossary/internal/config"
	"github.com/alfredjeanlab/glossary/internal/ui"
)

var (
	transport string
	httpURL   string
	grpcAddr  string
	verbose   bool
	noColor   bool

	app *application
)

var rootCmd = &cobra.Command{
	Use:           "glossary",
	Short:         "Client for a remote glossary service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err = newApplication(cfg, newLogger())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Transport = transport
	}
	if flags.Changed("url") {
		cfg.HTTPURL = httpURL
	}
	if flags.Changed("grpc-addr") {
		cfg.GRPCAddr = grpcAddr
	}
	if cfg.Transport != config.TransportHTTP && cfg.Transport != config.TransportGRPC {
		return nil, fmt.Errorf("unknown transport %q (want http or grpc)", cfg.Transport)
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// skipClient overrides the root PersistentPreRunE for commands that only
// touch local files.
func skipClient(cmd *cobra.Command, args []string) error { return nil }

func init() {
	rootCmd.PersistentFlags().StringVar(&transport, "transport", config.TransportHTTP, "service transport (http or grpc)")
	rootCmd.PersistentFlags().StringVar(&httpURL, "url", "", "glossary service base URL (http transport)")
	rootCmd.PersistentFlags().StringVar(&grpcAddr, "grpc-addr", "", "glossary service address (grpc transport)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
