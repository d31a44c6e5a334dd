package loom

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNilWriter indicates that a nil writer was provided to an exporter.
var ErrNilWriter = errors.New("loom: nil writer")

// DOTOption configures the behaviour of ExportDOT.
type DOTOption func(*dotConfig)

type dotConfig struct {
	graphName string
	rankDir   string
}

// DOTWithGraphName overrides the DOT graph identifier.
func DOTWithGraphName(name string) DOTOption {
	return func(cfg *dotConfig) {
		if name != "" {
			cfg.graphName = name
		}
	}
}

// DOTWithRankDir sets the rank direction (e.g. "LR", "TB") for the exported
// DOT graph.
func DOTWithRankDir(rankDir string) DOTOption {
	return func(cfg *dotConfig) {
		if rankDir != "" {
			cfg.rankDir = rankDir
		}
	}
}

// ExportDOT renders the registered tasks and their future-reference edges in
// Graphviz DOT format. Edges come from registration metadata only: nothing
// is resolved, and forward references to unregistered ids are rendered
// as-is. Tasks appear in id order.
func (s *Scheduler) ExportDOT(w io.Writer, opts ...DOTOption) error {
	if w == nil {
		return ErrNilWriter
	}

	cfg := dotConfig{graphName: "loom", rankDir: "LR"}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := fmt.Fprintf(w, "digraph %s {\n", dotQuoteIdentifier(cfg.graphName)); err != nil {
		return err
	}
	if cfg.rankDir != "" {
		if _, err := fmt.Fprintf(w, "    rankdir=%s;\n", cfg.rankDir); err != nil {
			return err
		}
	}

	for _, t := range s.tasks {
		if _, err := fmt.Fprintf(w, "    %s;\n", dotQuoteIdentifier(t.name)); err != nil {
			return err
		}
	}

	for _, t := range s.tasks {
		for _, dep := range t.deps {
			from := fmt.Sprintf("task-%d", dep)
			if int(dep) >= 0 && int(dep) < len(s.tasks) {
				from = s.tasks[dep].name
			}
			if _, err := fmt.Fprintf(w, "    %s -> %s;\n", dotQuoteIdentifier(from), dotQuoteIdentifier(t.name)); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "}\n")
	return err
}

func dotQuoteIdentifier(name string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range name {
		switch r {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
