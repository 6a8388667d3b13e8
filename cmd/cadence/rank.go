package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

var rankCmd = &cobra.Command{
	Use:   "rank <query>",
	Short: "Rank channels matching a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := newAnalyticsService(ctx)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	ranked, err := svc.SearchChannels(ctx, query)
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No channels found for %q\n", query)
		return nil
	}
	return renderTable(cmd.OutOrStdout(), []string{"#", "CHANNEL", "ID", "SUBSCRIBERS", "VIDEOS", "CONFIDENCE"}, candidateRows(ranked))
}

func candidateRows(ranked []model.RankedCandidate) [][]string {
	rows := make([][]string, len(ranked))
	for i, c := range ranked {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			c.Title,
			c.ID,
			strconv.FormatUint(c.SubscriberCount, 10),
			strconv.FormatUint(c.VideoCount, 10),
			strconv.FormatFloat(c.ConfidenceScore, 'f', 3, 64),
		}
	}
	return rows
}
