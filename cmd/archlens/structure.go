package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var structureShowMetrics bool

var structureCmd = &cobra.Command{
	Use:   "structure <path>",
	Short: "Print component/relation counts and the layer map",
	Args:  cobra.ExactArgs(1),
	RunE:  runStructure,
}

func init() {
	structureCmd.Flags().BoolVar(&structureShowMetrics, "show-metrics", false, "Include the full graph metrics block")
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	logger := newLogger("human")
	registry := newRegistry(args[0], logger)

	result, err := registry.Call(context.Background(), "structure.get", map[string]interface{}{
		"path":         args[0],
		"show_metrics": structureShowMetrics,
	})
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
