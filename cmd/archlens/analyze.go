package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Run a full analysis and print the AI summary JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format: human, json")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger(analyzeFormat)
	registry := newRegistry(args[0], logger)

	result, err := registry.Call(context.Background(), "analyze.project", map[string]interface{}{"path": args[0]})
	if err != nil {
		return err
	}

	if analyzeFormat == "json" {
		enc, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(enc))
		return nil
	}

	m, _ := result.(map[string]interface{})
	fmt.Printf("status: %v\n", m["status"])
	fmt.Printf("etag:   %v\n", m["etag"])
	fmt.Println(m["json"])
	return nil
}
