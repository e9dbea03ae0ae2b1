package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyRepo string
	historyN    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the most recent recorded analysis runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyRepo, "repo", ".", "Project root whose run history to print")
	historyCmd.Flags().IntVar(&historyN, "n", 20, "Number of most recent runs to print")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := newLogger("human")
	registry := newRegistry(historyRepo, logger)

	result, err := registry.Call(context.Background(), "history.recent", map[string]interface{}{"n": historyN})
	if err != nil {
		return err
	}
	enc, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	return nil
}
