package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"archlens/internal/mcpserver"
)

var schemasOutDir string

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Write each tool's input schema as out/schemas/<name>.schema.json",
	RunE:  runSchemas,
}

func init() {
	schemasCmd.Flags().StringVar(&schemasOutDir, "out", filepath.Join(outDir, "schemas"), "Directory to write schema files into")
	rootCmd.AddCommand(schemasCmd)
}

func runSchemas(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(schemasOutDir, 0o755); err != nil {
		return err
	}
	for _, t := range mcpserver.ToolDescriptors() {
		enc, err := json.MarshalIndent(t.InputSchema, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(schemasOutDir, t.Name+".schema.json")
		if err := os.WriteFile(path, enc, 0o644); err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}
