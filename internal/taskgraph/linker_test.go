package taskgraph

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrafterKolyan/airbyte/internal/project"
	"github.com/CrafterKolyan/airbyte/internal/settings"
)

func TestLinkerConnectorFanIn(t *testing.T) {
	t.Parallel()

	s := settings.Defaults()
	connector := testProject(t, "airbyte-integrations/connectors/source-sendgrid", project.ManifestRequirements, nil, nil)
	baseA := testProject(t, "airbyte-integrations/bases/base-python", project.ManifestPackage, nil, nil)
	baseB := testProject(t, "airbyte-integrations/bases/base-normalization", project.ManifestPackage, nil, nil)

	// Visit order must not matter: try several shuffles of the same
	// project set and expect the identical edge set every time.
	projects := []*project.Context{connector, baseA, baseB}
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		rng.Shuffle(len(projects), func(i, j int) {
			projects[i], projects[j] = projects[j], projects[i]
		})

		reg := New()
		builder := NewBuilder(reg, s)
		for _, p := range projects {
			require.NoError(t, builder.Configure(context.Background(), p))
		}
		NewLinker(s).Link(context.Background(), reg, projects)

		deps := reg.Dependencies(Name(connector.Path, TaskInstallLocalReqs))
		assert.Equal(t, []string{
			Name(baseB.Path, TaskApply),
			Name(baseA.Path, TaskApply),
		}, deps, "trial %d", trial)

		// Fan-in is one-directional: bases never depend on connectors.
		assert.Empty(t, reg.Dependencies(Name(baseA.Path, TaskInstallLocalReqs)))

		// The linked graph must still finalize cleanly.
		_, err := reg.Finalize(context.Background())
		require.NoError(t, err)
	}
}

func TestLinkerSkipsPackageManifestConnectors(t *testing.T) {
	t.Parallel()

	s := settings.Defaults()
	connector := testProject(t, "airbyte-integrations/connectors/source-packaged", project.ManifestPackage, nil, nil)
	base := testProject(t, "airbyte-integrations/bases/base-python", project.ManifestPackage, nil, nil)

	reg := New()
	builder := NewBuilder(reg, s)
	projects := []*project.Context{connector, base}
	for _, p := range projects {
		require.NoError(t, builder.Configure(context.Background(), p))
	}
	NewLinker(s).Link(context.Background(), reg, projects)

	assert.Empty(t, reg.Dependencies(Name(connector.Path, TaskInstallLocalReqs)),
		"package-extras installs take no base-module edges")
}

func TestLinkerIgnoresProjectsOutsideConnectorNamespace(t *testing.T) {
	t.Parallel()

	s := settings.Defaults()
	tool := testProject(t, "tools/ci-scripts", project.ManifestRequirements, nil, nil)
	base := testProject(t, "airbyte-integrations/bases/base-python", project.ManifestPackage, nil, nil)

	reg := New()
	builder := NewBuilder(reg, s)
	projects := []*project.Context{tool, base}
	for _, p := range projects {
		require.NoError(t, builder.Configure(context.Background(), p))
	}
	NewLinker(s).Link(context.Background(), reg, projects)

	assert.Empty(t, reg.Dependencies(Name(tool.Path, TaskInstallLocalReqs)))
}
