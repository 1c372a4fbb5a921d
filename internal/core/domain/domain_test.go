package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cbuild/internal/core/domain"
)

func unit(name string, deps ...string) *domain.Unit {
	return &domain.Unit{Name: name, Dependencies: deps}
}

func names(units []*domain.Unit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.Name)
	}
	return out
}

func TestGraph_Cycle(t *testing.T) {
	tests := []struct {
		name        string
		units       []*domain.Unit
		wantErr     bool
		errContains string
	}{
		{
			name:        "Simple Cycle A->A",
			units:       []*domain.Unit{unit("A", "A")},
			wantErr:     true,
			errContains: "cycle detected",
		},
		{
			name:        "Two Node Cycle A->B->A",
			units:       []*domain.Unit{unit("A", "B"), unit("B", "A")},
			wantErr:     true,
			errContains: "cycle detected",
		},
		{
			name:        "Three Node Cycle A->B->C->A",
			units:       []*domain.Unit{unit("A", "B"), unit("B", "C"), unit("C", "A")},
			wantErr:     true,
			errContains: "cycle detected",
		},
		{
			name:  "Diamond A->B,C B->D C->D",
			units: []*domain.Unit{unit("A", "B", "C"), unit("B", "D"), unit("C", "D"), unit("D")},
		},
		{
			name:        "Missing Dependency",
			units:       []*domain.Unit{unit("A", "ghost")},
			wantErr:     true,
			errContains: "missing dependency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			for _, u := range tt.units {
				require.NoError(t, g.Add(u))
			}

			_, err := g.Order()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.True(t, errors.Is(err, domain.ErrConfiguration))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGraph_CyclePathMetadata(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add(unit("A", "B")))
	require.NoError(t, g.Add(unit("B", "C")))
	require.NoError(t, g.Add(unit("C", "B")))

	_, err := g.Order()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	var meta interface{ Metadata() map[string]any }
	require.ErrorAs(t, err, &meta)
	assert.Equal(t, "B -> C -> B", meta.Metadata()["cycle"])
}

func TestGraph_OrderDependenciesFirst(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add(unit("A", "B")))
	require.NoError(t, g.Add(unit("B", "C")))
	require.NoError(t, g.Add(unit("C")))

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, names(order))
}

func TestGraph_OrderKeepsDeclarationOrderAmongSiblings(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add(unit("app", "net", "gfx")))
	require.NoError(t, g.Add(unit("gfx", "core")))
	require.NoError(t, g.Add(unit("net", "core")))
	require.NoError(t, g.Add(unit("core")))
	require.NoError(t, g.Add(unit("tool")))

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "net", "gfx", "app", "tool"}, names(order))
}

func TestGraph_OrderFor(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add(unit("A", "B")))
	require.NoError(t, g.Add(unit("B")))
	require.NoError(t, g.Add(unit("X")))

	order, err := g.OrderFor("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names(order))

	_, err = g.OrderFor("nope")
	require.ErrorIs(t, err, domain.ErrUnitNotFound)
}

func TestGraph_AddDuplicate(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add(unit("A")))

	err := g.Add(unit("A"))
	require.ErrorIs(t, err, domain.ErrUnitAlreadyExists)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_RemoveByIdentity(t *testing.T) {
	g := domain.NewGraph()
	a := unit("A")
	b := unit("B")
	require.NoError(t, g.Add(a))
	require.NoError(t, g.Add(b))

	assert.False(t, g.Remove(unit("A")), "a different unit with the same name must not be removed")
	assert.True(t, g.Remove(a))
	assert.False(t, g.Remove(a))

	_, ok := g.Get("A")
	assert.False(t, ok)
	assert.Equal(t, []string{"B"}, g.Names())
}

func TestGraph_ResetBuilt(t *testing.T) {
	g := domain.NewGraph()
	a := unit("A")
	a.Built = true
	require.NoError(t, g.Add(a))

	g.ResetBuilt()
	assert.False(t, a.Built)
}

func TestGraph_UnitsIterator(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.Add(unit("one")))
	require.NoError(t, g.Add(unit("two")))

	var got []string
	for u := range g.Units() {
		got = append(got, u.Name)
	}
	assert.Equal(t, []string{"one", "two"}, got)
}
