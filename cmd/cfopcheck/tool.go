package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cfop/internal/core"
)

var toolCmd = &cobra.Command{
	Use:   "tool NAME [KEY=VALUE...]",
	Short: "Invoke a registered tool by name",
	Long: `Invoke runs one of the tools exposed to assistants and to the HTTP API.
Arguments are KEY=VALUE pairs. Run "cfopcheck tools" for the list.

Example:
  cfopcheck tool validate_all limit=5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs, err := parseToolArgs(args[1:])
		if err != nil {
			return err
		}
		return runTool(cmd, args[0], toolArgs)
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools and their parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range core.DefaultTools().All() {
			params := make([]string, len(t.Params))
			for i, p := range t.Params {
				params[i] = p.Name
				if !p.Required {
					params[i] = "[" + p.Name + "]"
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, strings.Join(params, " "), t.Description)
		}
		return tw.Flush()
	},
}

func parseToolArgs(pairs []string) (core.Args, error) {
	args := core.Args{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid tool argument %q: want KEY=VALUE", p)
		}
		args[strings.TrimSpace(k)] = v
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(toolCmd, toolsCmd)
}
