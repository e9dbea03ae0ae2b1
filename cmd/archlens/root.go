package main

import (
	"github.com/spf13/cobra"

	"archlens/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "archlens",
	Short:   "ArchLens - architecture analysis for multi-language source trees",
	Long:    `ArchLens builds a capsule graph of a codebase's components and their relations, runs a validator suite over it, and projects the result as Markdown, JSON, or Mermaid for humans and LLM agents alike.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("archlens version {{.Version}}\n")
}
