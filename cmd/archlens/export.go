package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	exportDetailLevel string
	exportSections    []string
	exportTopN        int
	exportMaxChars    int
)

var exportCmd = &cobra.Command{
	Use:   "export <path> <format>",
	Short: "Render an analysis projection: ai_compact (alias markdown), ai_summary_json (alias json), or mermaid",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDetailLevel, "detail-level", "", "Detail level: summary, standard, full")
	exportCmd.Flags().StringSliceVar(&exportSections, "sections", nil, "Comma-separated section keys to include")
	exportCmd.Flags().IntVar(&exportTopN, "top-n", 0, "Cap ranked lists (coupling, complexity, cycles) to N entries")
	exportCmd.Flags().IntVar(&exportMaxChars, "max-chars", 0, "Hard character cap on the rendered output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	path, format := args[0], strings.ToLower(args[1])

	tool := map[string]string{
		"ai_compact":      "export.ai_compact",
		"ai_summary_json": "export.ai_summary_json",
		"markdown":        "export.ai_compact",
		"json":            "export.ai_summary_json",
		"mermaid":         "graph.build",
	}[format]
	if tool == "" {
		return fmt.Errorf("unknown export format %q (want ai_compact, ai_summary_json, markdown, json, or mermaid)", format)
	}

	logger := newLogger("human")
	registry := newRegistry(path, logger)

	result, err := registry.Call(context.Background(), tool, map[string]interface{}{
		"path":         path,
		"detail_level": exportDetailLevel,
		"sections":     exportSections,
		"top_n":        exportTopN,
		"max_chars":    exportMaxChars,
	})
	if err != nil {
		return err
	}

	m, _ := result.(map[string]interface{})
	for _, key := range []string{"output", "json", "mermaid"} {
		if text, ok := m[key]; ok {
			fmt.Println(text)
			return nil
		}
	}
	fmt.Printf("%v\n", result)
	return nil
}
