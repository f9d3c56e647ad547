package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexandro/resourcewatch/register"
)

var registerCmd = &cobra.Command{
	Use:   "register <project|user> [directory] [-- server flags...]",
	Short: "Add resourcewatch to an MCP client configuration",
	Long: `Register this binary as an MCP server.

  resourcewatch register project [directory]  # → <directory>/.mcp.json (default: .)
  resourcewatch register user                 # → ~/.claude.json
  resourcewatch register project . -- --exclude "*.log"

Project registrations pass --root so the server watches that directory.`,
	Args: cobra.MinimumNArgs(1),
	// Skip the settings load of the root command
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		remove, _ := cmd.Flags().GetBool("remove")
		name, _ := cmd.Flags().GetString("name")

		positional, serverArgs := args, []string(nil)
		if dash := cmd.ArgsLenAtDash(); dash >= 0 {
			positional, serverArgs = args[:dash], args[dash:]
		}
		if len(positional) == 0 || len(positional) > 2 {
			return fmt.Errorf("expected a scope and an optional directory, got %v", positional)
		}

		options := register.Options{
			Scope:      register.Scope(positional[0]),
			ServerName: name,
			ServerArgs: serverArgs,
			Remove:     remove,
		}
		if len(positional) == 2 {
			options.Directory = positional[1]
		}

		result, err := register.Run(options)
		if err != nil {
			return err
		}

		verb := "Registered"
		if remove {
			verb = "Removed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %q in %s\n", verb, result.ServerName, result.ConfigPath)
		return nil
	},
}

func init() {
	registerCmd.Flags().Bool("remove", false, "Remove the entry instead of adding it")
	registerCmd.Flags().String("name", "", "Server name in the client config (default: derived from the binary name)")

	rootCmd.AddCommand(registerCmd)
}
