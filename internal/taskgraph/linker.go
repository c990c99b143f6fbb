package taskgraph

import (
	"context"
	"sort"
	"strings"

	"github.com/CrafterKolyan/airbyte/internal/ctxlog"
	"github.com/CrafterKolyan/airbyte/internal/project"
	"github.com/CrafterKolyan/airbyte/internal/settings"
)

// Linker resolves the prefix-based cross-project edges: every connector
// project installing from requirements.txt must wait for the apply task of
// every base module. Projects are visited in arbitrary order, so linking
// runs as a second phase over the full project set instead of guessing
// during per-project configuration.
type Linker struct {
	connectorPrefix string
	basePrefix      string
}

// NewLinker creates a Linker using the build's namespace prefixes.
func NewLinker(s *settings.Settings) *Linker {
	return &Linker{
		connectorPrefix: s.ConnectorPrefix,
		basePrefix:      s.BasePrefix,
	}
}

// Link adds one dependency edge per (connector, base) pair, from the
// connector's installLocalReqs to the base's airbytePythonApply. This is a
// many-to-one fan-in: connectors depend on all bases, never vice versa.
func (l *Linker) Link(ctx context.Context, reg *Registry, projects []*project.Context) {
	logger := ctxlog.FromContext(ctx)

	var bases []string
	for _, p := range projects {
		if strings.HasPrefix(p.Path, l.basePrefix) {
			bases = append(bases, p.Path)
		}
	}
	sort.Strings(bases)
	logger.Debug("Cross-project linking started.", "base_count", len(bases))

	for _, p := range projects {
		if p.ManifestKind != project.ManifestRequirements {
			continue
		}
		if !strings.HasPrefix(p.Path, l.connectorPrefix) {
			continue
		}
		for _, base := range bases {
			reg.AddDependency(Name(p.Path, TaskInstallLocalReqs), Name(base, TaskApply))
		}
		logger.Debug("Linked connector to base modules.", "connector", p.Path, "base_count", len(bases))
	}
}
