package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var diagramIncludeMetrics bool

var diagramCmd = &cobra.Command{
	Use:   "diagram <path> <kind>",
	Short: "Render a diagram of the dependency graph (kind: mermaid)",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiagram,
}

func init() {
	diagramCmd.Flags().BoolVar(&diagramIncludeMetrics, "include-metrics", false, "Request the top_coupling and top_complexity_components sections (the Mermaid output does not render them)")
	rootCmd.AddCommand(diagramCmd)
}

func runDiagram(cmd *cobra.Command, args []string) error {
	path, kind := args[0], strings.ToLower(args[1])
	if kind != "mermaid" {
		return fmt.Errorf("unsupported diagram kind %q (only mermaid is implemented)", kind)
	}

	logger := newLogger("human")
	registry := newRegistry(path, logger)

	sections := []string{}
	if diagramIncludeMetrics {
		sections = append(sections, "top_coupling", "top_complexity_components")
	}

	result, err := registry.Call(context.Background(), "graph.build", map[string]interface{}{
		"path":     path,
		"sections": sections,
	})
	if err != nil {
		return err
	}
	m, _ := result.(map[string]interface{})
	fmt.Println(m["mermaid"])
	return nil
}
