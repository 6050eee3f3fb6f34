package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/glossary/internal/config"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage named glossary service remotes",
	// All remote subcommands are local file operations.
	PersistentPreRunE: skipClient,
}

func loadRemotes() (string, config.RemotesConfig, error) {
	path, err := config.RemotesPath()
	if err != nil {
		return "", config.RemotesConfig{}, err
	}
	cfg, err := config.LoadRemotes(path)
	return path, cfg, err
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add or update a named remote",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		transport, _ := cmd.Flags().GetString("transport")
		grpcAddr, _ := cmd.Flags().GetString("grpc-addr")
		natsURL, _ := cmd.Flags().GetString("nats")
		if transport != "" && transport != config.TransportHTTP && transport != config.TransportGRPC {
			return fmt.Errorf("unknown transport %q (want http or grpc)", transport)
		}

		path, cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		cfg.Remotes[name] = config.Remote{Transport: transport, URL: url, GRPCAddr: grpcAddr, NATSURL: natsURL}
		if err := config.SaveRemotes(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q added (%s)\n", name, url)
		return nil
	},
}

var remoteRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		if err := cfg.Remove(args[0]); err != nil {
			return err
		}
		if err := config.SaveRemotes(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q removed\n", args[0])
		return nil
	},
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all remotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		if len(cfg.Remotes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no remotes configured")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tTRANSPORT\tURL\tGRPC ADDR")
		for _, name := range cfg.Names() {
			r := cfg.Remotes[name]
			marker := "  "
			if name == cfg.Active {
				marker = "* "
			}
			transport := r.Transport
			if transport == "" {
				transport = config.TransportHTTP
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", marker, name, transport, r.URL, r.GRPCAddr)
		}
		return w.Flush()
	},
}

var remoteUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, cfg, err := loadRemotes()
		if err != nil {
			return err
		}
		if err := cfg.Use(args[0]); err != nil {
			return err
		}
		if err := config.SaveRemotes(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "active remote set to %q\n", args[0])
		return nil
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show [<name>]",
	Short: "Show details for a remote (defaults to active)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadRemotes()
		if err != nil {
			return err
		}

		name := cfg.Active
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no active remote; specify a name or run 'glossary remote use <name>'")
		}
		r, ok := cfg.Remotes[name]
		if !ok {
			return fmt.Errorf("%w: %q", config.ErrNoSuchRemote, name)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		active := ""
		if name == cfg.Active {
			active = " (active)"
		}
		fmt.Fprintf(w, "name:\t%s%s\n", name, active)
		if r.Transport != "" {
			fmt.Fprintf(w, "transport:\t%s\n", r.Transport)
		}
		fmt.Fprintf(w, "url:\t%s\n", r.URL)
		if r.GRPCAddr != "" {
			fmt.Fprintf(w, "grpc_addr:\t%s\n", r.GRPCAddr)
		}
		if r.NATSURL != "" {
			fmt.Fprintf(w, "nats_url:\t%s\n", r.NATSURL)
		}
		return w.Flush()
	},
}

func init() {
	remoteAddCmd.Flags().String("transport", "", "service transport for this remote (http or grpc)")
	remoteAddCmd.Flags().String("grpc-addr", "", "gRPC address for this remote")
	remoteAddCmd.Flags().String("nats", "", "NATS URL for change notifications")

	remoteCmd.AddCommand(remoteAddCmd)
	remoteCmd.AddCommand(remoteRemoveCmd)
	remoteCmd.AddCommand(remoteListCmd)
	remoteCmd.AddCommand(remoteUseCmd)
	remoteCmd.AddCommand(remoteShowCmd)
}
