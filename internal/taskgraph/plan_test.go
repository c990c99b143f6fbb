package taskgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrafterKolyan/airbyte/internal/project"
	"github.com/CrafterKolyan/airbyte/internal/settings"
)

func TestFinalizeOrdersDependenciesFirst(t *testing.T) {
	t.Parallel()

	reg := New()
	p := testProject(t, "connectors/source-sendgrid", project.ManifestPackage,
		nil, []string{"unit_tests/test_source.py"})
	require.NoError(t, NewBuilder(reg, settings.Defaults()).Configure(context.Background(), p))

	plan, err := reg.Finalize(context.Background())
	require.NoError(t, err)

	require.Len(t, plan.Order, reg.Len())
	position := make(map[string]int, len(plan.Order))
	for i, name := range plan.Order {
		position[name] = i
	}
	for name, deps := range plan.Deps {
		for _, dep := range deps {
			assert.Less(t, position[dep], position[name],
				"%s must be ordered after its dependency %s", name, dep)
		}
	}
}

func TestFinalizeDanglingDependency(t *testing.T) {
	t.Parallel()

	t.Run("edge to an unregistered target", func(t *testing.T) {
		t.Parallel()
		reg := New()
		reg.GetOrCreate("p:a", func() *Node { return &Node{} })
		reg.AddDependency("p:a", "p:never-created")

		_, err := reg.Finalize(context.Background())
		require.Error(t, err)

		var dangling *DanglingDependencyError
		require.True(t, errors.As(err, &dangling))
		assert.Equal(t, "p:a", dangling.Node)
		assert.Equal(t, "p:never-created", dangling.DependsOn)
	})

	t.Run("edge declared for an unregistered source", func(t *testing.T) {
		t.Parallel()
		reg := New()
		reg.GetOrCreate("p:b", func() *Node { return &Node{} })
		reg.AddDependency("p:ghost", "p:b")

		_, err := reg.Finalize(context.Background())
		require.Error(t, err)

		var dangling *DanglingDependencyError
		require.True(t, errors.As(err, &dangling))
		assert.Equal(t, "p:ghost", dangling.Node)
	})
}

func TestFinalizeCycleDetection(t *testing.T) {
	t.Parallel()

	reg := New()
	for _, name := range []string{"p:a", "p:b", "p:c"} {
		reg.GetOrCreate(name, func() *Node { return &Node{} })
	}
	reg.AddDependency("p:a", "p:b")
	reg.AddDependency("p:b", "p:c")
	reg.AddDependency("p:c", "p:a")

	_, err := reg.Finalize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestFinalizeIncludesIsolatedNodes(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.GetOrCreate(":licenseFormat", func() *Node { return &Node{} })
	reg.GetOrCreate(":check", func() *Node { return &Node{} })

	plan, err := reg.Finalize(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{":licenseFormat", ":check"}, plan.Order)
}
