package params

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveDefaults(t *testing.T) {
	c := NewContext(testLogger())

	p, err := c.Resolve(nil)
	require.NoError(t, err)

	assert.Equal(t, 3, p.NodeCount)
	assert.Equal(t, "m510", p.NodeType)
	assert.True(t, p.StartKubernetes)
	assert.True(t, p.DeployOpenWhisk)
	assert.Equal(t, 1, p.NumInvokers)
	assert.Equal(t, EngineKubernetes, p.InvokerEngine)
	assert.False(t, p.SchedulerEnabled)
	assert.Equal(t, 0, p.TempFileSystemSize)
}

func TestResolveOverrides(t *testing.T) {
	c := NewContext(testLogger())

	p, err := c.Resolve(map[string]any{
		NodeCount:          5,
		NodeType:           "xl170",
		NumInvokers:        "2",
		InvokerEngine:      EngineDocker,
		SchedulerEnabled:   "true",
		TempFileSystemSize: 64,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, p.NodeCount)
	assert.Equal(t, "xl170", p.NodeType)
	assert.Equal(t, 2, p.NumInvokers)
	assert.Equal(t, EngineDocker, p.InvokerEngine)
	assert.True(t, p.SchedulerEnabled)
	assert.Equal(t, 64, p.TempFileSystemSize)
}

func TestResolveCaseInsensitiveNames(t *testing.T) {
	c := NewContext(testLogger())

	p, err := c.Resolve(map[string]any{
		"nodecount":     4,
		"invokerengine": EngineDocker,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, p.NodeCount)
	assert.Equal(t, EngineDocker, p.InvokerEngine)
}

func TestResolveOpenWhiskRequiresKubernetes(t *testing.T) {
	c := NewContext(testLogger())

	_, err := c.Resolve(map[string]any{
		StartKubernetes: false,
		DeployOpenWhisk: true,
	})
	require.ErrorIs(t, err, ErrInvalidParams)

	require.Len(t, c.Warnings(), 1)
	assert.Equal(t, []string{StartKubernetes}, c.Warnings()[0].Fields)
	assert.Contains(t, c.Warnings()[0].Message, "Kubernetes cluster must be created")
}

func TestResolveUnknownParameter(t *testing.T) {
	c := NewContext(testLogger())

	_, err := c.Resolve(map[string]any{"nodeColour": "blue"})
	require.ErrorIs(t, err, ErrInvalidParams)

	require.Len(t, c.Warnings(), 1)
	assert.Equal(t, []string{"nodeColour"}, c.Warnings()[0].Fields)
}

func TestResolveTypeMismatch(t *testing.T) {
	c := NewContext(testLogger())

	_, err := c.Resolve(map[string]any{NodeCount: "many"})
	require.ErrorIs(t, err, ErrInvalidParams)

	require.Len(t, c.Warnings(), 1)
	assert.Equal(t, []string{NodeCount}, c.Warnings()[0].Fields)
}

func TestResolveEnumViolation(t *testing.T) {
	c := NewContext(testLogger())

	_, err := c.Resolve(map[string]any{InvokerEngine: "podman"})
	require.ErrorIs(t, err, ErrInvalidParams)

	require.Len(t, c.Warnings(), 1)
	assert.Equal(t, []string{InvokerEngine}, c.Warnings()[0].Fields)
}

func TestResolveRangeChecks(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]any
		field     string
	}{
		{"zero nodes", map[string]any{NodeCount: 0}, NodeCount},
		{"negative invokers", map[string]any{NumInvokers: -1}, NumInvokers},
		{"negative scratch size", map[string]any{TempFileSystemSize: -2}, TempFileSystemSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewContext(testLogger())

			_, err := c.Resolve(tc.overrides)
			require.ErrorIs(t, err, ErrInvalidParams)

			require.Len(t, c.Warnings(), 1)
			assert.Equal(t, []string{tc.field}, c.Warnings()[0].Fields)
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	overrides := map[string]any{NodeCount: 7, InvokerEngine: EngineDocker}

	p1, err := NewContext(testLogger()).Resolve(overrides)
	require.NoError(t, err)
	p2, err := NewContext(testLogger()).Resolve(overrides)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
}

func TestCanonicalName(t *testing.T) {
	name, ok := CanonicalName("deployopenwhisk")
	assert.True(t, ok)
	assert.Equal(t, DeployOpenWhisk, name)

	name, ok = CanonicalName("noSuchKnob")
	assert.False(t, ok)
	assert.Equal(t, "noSuchKnob", name)
}

func TestDefinitionsRegistry(t *testing.T) {
	c := NewContext(testLogger())
	defs := c.Definitions()

	require.Len(t, defs, 8)
	assert.Equal(t, NodeCount, defs[0].Name)

	var advanced []string
	for _, def := range defs {
		if def.Advanced {
			advanced = append(advanced, def.Name)
		}
	}
	assert.Equal(t, []string{TempFileSystemSize}, advanced)
}
