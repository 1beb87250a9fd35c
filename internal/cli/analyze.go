package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kaedeh1ra/QR-Detector/internal/statuscolor"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Analyze the decoded content of one QR code",
		Long: `Analyze the decoded content of one QR code. The text is used verbatim.

Examples:
  qrdetector analyze https://bit.ly/3abcd
  qrdetector analyze "WIFI:S:home;T:WPA;P:secret;;"
  qrdetector analyze --json example.com/promo`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().Bool("json", false, "print the result as JSON")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	printBanner(cmd, asJSON)

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	res := a.analyzer.Analyze(cmd.Context(), args[0])

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	statuscolor.PrintResult(cmd.OutOrStdout(), res)
	return nil
}
