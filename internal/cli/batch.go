package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaedeh1ra/QR-Detector/internal/output"
	"github.com/kaedeh1ra/QR-Detector/internal/runner"
	"github.com/kaedeh1ra/QR-Detector/internal/statuscolor"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze a file of QR payloads, one per line",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	cmd.Flags().StringP("file", "f", "", "input file with one payload per line")
	cmd.Flags().IntP("threads", "t", 0, "concurrent analyses (default from config)")
	cmd.Flags().Int("rl", -1, "analyses started per second, 0 = unlimited (default from config)")
	cmd.Flags().StringP("output", "o", "", "write JSONL records to this file")
	cmd.Flags().String("html", "", "write an HTML report to this file")
	cmd.Flags().Bool("summary", false, "print per-risk counters at the end")
	cmd.Flags().Bool("silent", false, "do not print individual results")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	silent, _ := cmd.Flags().GetBool("silent")
	printBanner(cmd, silent)

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	inputFile, _ := cmd.Flags().GetString("file")
	inputs, err := runner.LoadFile(inputFile)
	if err != nil {
		return err
	}

	rcfg := runner.Config{Threads: a.cfg.Runner.Threads, RateLimit: a.cfg.Runner.RateLimit}
	if n, _ := cmd.Flags().GetInt("threads"); n > 0 {
		rcfg.Threads = n
	}
	if rl, _ := cmd.Flags().GetInt("rl"); rl >= 0 {
		rcfg.RateLimit = rl
	}

	started := time.Now()
	results := runner.New(rcfg, a.analyzer, a.logger).Run(cmd.Context(), inputs)
	a.logger.Info().Int("count", len(results)).Dur("elapsed", time.Since(started)).Msg("batch finished")

	out := cmd.OutOrStdout()
	if !silent {
		for _, res := range results {
			statuscolor.PrintResult(out, res)
		}
	}
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		statuscolor.PrintSummary(out, results)
	}

	records := output.BuildRecords(results, started)
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := writeFile(path, func(f *os.File) error { return output.WriteJSONL(f, records) }); err != nil {
			return fmt.Errorf("write JSONL: %w", err)
		}
	}
	if path, _ := cmd.Flags().GetString("html"); path != "" {
		page := output.PageData{
			Title:       "QR-Detector Report",
			GeneratedAt: time.Now(),
			Params: map[string]string{
				"input":      inputFile,
				"threads":    strconv.Itoa(rcfg.Threads),
				"rate_limit": strconv.Itoa(rcfg.RateLimit),
			},
			Summary: output.BuildSummary(records),
			Records: records,
		}
		if err := writeFile(path, func(f *os.File) error { return output.RenderHTML(f, page) }); err != nil {
			return fmt.Errorf("write HTML report: %w", err)
		}
	}
	return cmd.Context().Err()
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
