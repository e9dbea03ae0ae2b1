// Package pipeline wires the Scanner, Parser Facade, Capsule Constructor,
// Graph Builder, Optimizer, and Validators into a single analyze operation,
// the way the teacher's query.Engine orchestrates its own stages.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"os"

	"archlens/internal/capsule"
	"archlens/internal/graphbuild"
	"archlens/internal/parsefacade"
	"archlens/internal/scan"
	"archlens/internal/validate"
)

// Engine runs the analysis pipeline against a project root.
type Engine struct {
	facade     *parsefacade.Facade
	scanOpts   scan.Options
}

// NewEngine builds an Engine with the default reference parser facade and
// scanner options.
func NewEngine() *Engine {
	return &Engine{facade: parsefacade.NewFacade(), scanOpts: scan.DefaultOptions()}
}

// Analyze scans root, parses and constructs capsules for every discovered
// file, builds the dependency graph, optimizes it, and runs the validator
// suite, returning the fully annotated graph.
func (e *Engine) Analyze(ctx context.Context, root string) (*capsule.CapsuleGraph, error) {
	files, err := scan.Scan(ctx, root, e.scanOpts)
	if err != nil {
		return nil, err
	}

	var all []*capsule.Capsule
	var skipFindings []capsule.Finding

	for _, f := range files {
		nodes, err := e.facade.Parse(f.AbsolutePath, f.DetectedLanguage)
		if err != nil {
			skipFindings = append(skipFindings, capsule.Finding{
				Category: capsule.CategoryPattern,
				Severity: capsule.SeverityLow,
				Message:  "skipped unparsable file " + f.AbsolutePath,
			})
			continue
		}
		lines, err := readLines(f.AbsolutePath)
		if err != nil {
			continue
		}
		cs, findings := capsule.Construct(f.AbsolutePath, nodes, lines)
		all = append(all, cs...)
		skipFindings = append(skipFindings, findings...)
	}

	g := graphbuild.Build(all, skipFindings)
	g.Findings = append(g.Findings, validate.Optimize(g)...)
	g.Findings = append(g.Findings, validate.RunAll(g)...)

	return g, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, nil
}
