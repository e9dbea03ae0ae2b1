package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"archlens/internal/mcpserver"
)

var presetsOutDir string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Write each named suggestion preset as out/presets/<name>.json",
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().StringVar(&presetsOutDir, "out", filepath.Join(outDir, "presets"), "Directory to write preset files into")
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(presetsOutDir, 0o755); err != nil {
		return err
	}
	for _, p := range mcpserver.Presets() {
		enc, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(presetsOutDir, p.Name+".json")
		if err := os.WriteFile(path, enc, 0o644); err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}
