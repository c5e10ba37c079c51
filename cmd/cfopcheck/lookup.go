package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cfop/internal/core"
)

var listFlags struct {
	limit int
}

var cfopCmd = &cobra.Command{
	Use:   "cfop CODE",
	Short: "Show the reference entry of an operation code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "find_cfop", core.Args{"code": args[0]})
	},
}

var listCmd = &cobra.Command{
	Use:   "list DIGIT",
	Short: "List reference codes starting with a digit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := listFlags.limit
		if limit <= 0 {
			limit = cfg.Batch.ReferenceLimit
		}
		return runTool(cmd, "list_cfops_by_digit", core.Args{
			"digit": args[0],
			"limit": strconv.Itoa(limit),
		})
	},
}

var docCmd = &cobra.Command{
	Use:   "doc NUMBER",
	Short: "Show a document, its items and whether their codes are correct",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBatch(cmd, func(svc *core.Service, _ *core.Batch) error {
			out := cmd.OutOrStdout()
			number := core.Args{"number": args[0]}
			for i, tool := range []string{"find_header", "find_items", "validate_document"} {
				res, err := svc.InvokeTool(tool, number)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, res.Text)
			}
			return nil
		})
	},
}

var keyCmd = &cobra.Command{
	Use:   "key PARTIAL",
	Short: "Find documents whose access key contains PARTIAL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, "find_by_access_key", core.Args{"key": args[0]})
	},
}

// decode needs no batch, so it skips the loader.
var decodeCmd = &cobra.Command{
	Use:   "decode KEY",
	Short: "Split a 44-digit access key into its fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := core.DecodeAccessKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), core.FormatAccessKey(k))
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show table sizes, top issuer states and operation scopes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withBatch(cmd, func(_ *core.Service, b *core.Batch) error {
			fmt.Fprint(cmd.OutOrStdout(), core.FormatSummary(b.Summarize()))
			return nil
		})
	},
}

func init() {
	listCmd.Flags().IntVarP(&listFlags.limit, "limit", "n", 0, "maximum entries (default REPORT_REFERENCE_LIMIT)")

	rootCmd.AddCommand(cfopCmd, listCmd, docCmd, keyCmd, decodeCmd, summaryCmd)
}
