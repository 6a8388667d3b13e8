package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/service"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <query>",
	Short: "Report a channel's publishing cadence",
	Long: `Find the channel best matching <query> and report its upload cadence.

When the best match is not confident enough, the candidates are listed
instead; pass --pick to analyze the top candidate anyway.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("scope", "", "analysis window: Nd or lifetime (default from DEFAULT_SCOPE)")
	analyzeCmd.Flags().Bool("json", false, "output as JSON")
	analyzeCmd.Flags().String("charts", "", "directory to write PNG charts into")
	analyzeCmd.Flags().Bool("pick", false, "analyze the top candidate even when ambiguous")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	scope, _ := cmd.Flags().GetString("scope")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	chartsDir, _ := cmd.Flags().GetString("charts")
	pick, _ := cmd.Flags().GetBool("pick")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := newAnalyticsService(ctx)
	if err != nil {
		return err
	}

	resp, err := svc.AnalyzeQuery(ctx, service.AnalyzeRequest{
		Query:      strings.Join(args, " "),
		Scope:      scope,
		AutoSelect: pick,
	})
	if err != nil {
		return err
	}

	if chartsDir != "" && resp.Channel != nil && resp.Analytics.OK() {
		charts, err := svc.RenderCharts(ctx, resp.Channel.ID, scope)
		if err != nil {
			return fmt.Errorf("render charts: %w", err)
		}
		if err := writeCharts(cmd.ErrOrStderr(), chartsDir, charts); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if resp.Ambiguous {
		fmt.Fprintln(out, "Several channels match; rerun with --pick or a more specific query.")
		return renderTable(out, []string{"#", "CHANNEL", "ID", "SUBSCRIBERS", "VIDEOS", "CONFIDENCE"}, candidateRows(resp.Candidates))
	}
	return printReport(out, resp.Channel, resp.Analytics)
}

func printReport(w io.Writer, ch *model.RankedCandidate, r *model.PeriodicityReport) error {
	fmt.Fprintf(w, "%s (%s), scope %s\n", ch.Title, ch.ID, r.Scope)
	if !r.OK() {
		fmt.Fprintln(w, r.Message)
		return nil
	}

	o := r.Overall
	fmt.Fprintf(w, "%d uploads: %d long-form (%d unknown duration), %d shorts\n\n",
		o.TotalVideos, o.LongFormCount, o.UnknownDurationCount, o.ShortFormCount)

	long, short := bucketColumn(r.LongForm), bucketColumn(r.ShortForm)
	labels := []string{
		"Videos", "Average gap (days)", "Median gap (days)", "Std dev gap (days)",
		"Longest gap (days)", "Shortest gap (days)", "Uploads last 30 days",
		"Active upload days", "Uploads per week", "Consistency", "First upload", "Latest upload",
	}
	rows := make([][]string, len(labels))
	for i, label := range labels {
		rows[i] = []string{label, long[i], short[i]}
	}
	return renderTable(w, []string{"METRIC", "LONG-FORM", "SHORTS"}, rows)
}

// bucketColumn flattens a bucket into one display value per metric row.
func bucketColumn(b *model.BucketReport) []string {
	const rows = 12
	col := make([]string, rows)
	if b == nil || b.InsufficientData || b.Metrics == nil {
		for i := range col {
			col[i] = "-"
		}
		col[0] = "insufficient data"
		return col
	}

	m := b.Metrics
	return []string{
		strconv.Itoa(m.TotalVideos),
		formatOptional(m.AverageGapDays),
		formatOptional(m.MedianGapDays),
		formatOptional(m.StdDevGapDays),
		formatOptional(m.LongestGapDays),
		formatOptional(m.ShortestGapDays),
		strconv.Itoa(m.UploadsLast30),
		strconv.Itoa(m.ActiveUploadDays),
		formatOptional(m.UploadsPerWeek),
		formatOptional(m.ConsistencyScore),
		m.FirstUpload,
		m.LatestUpload,
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func writeCharts(status io.Writer, dir string, charts map[string][]byte) error {
	if len(charts) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create charts dir: %w", err)
	}
	for kind, png := range charts {
		path := filepath.Join(dir, kind+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(status, "wrote %s\n", path)
	}
	return nil
}
