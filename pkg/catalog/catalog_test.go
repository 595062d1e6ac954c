package catalog

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)

	in := Entry{
		Name:         "lattice.bmp",
		Kind:         "lattice2d",
		Rows:         1140,
		Cols:         912,
		Flip:         true,
		OnCount:      51234,
		PatternPath:  "patterns/pattern_lattice.bmp",
		TemplatePath: "patterns/template_lattice.bmp",
		Recipe:       json.RawMessage(`{"kind":"lattice2d","vector1":[0.01,0]}`),
	}
	rec, err := c.Record(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := c.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Kind, got.Kind)
	assert.Equal(t, in.Rows, got.Rows)
	assert.Equal(t, in.Cols, got.Cols)
	assert.True(t, got.Flip)
	assert.Equal(t, in.OnCount, got.OnCount)
	assert.Equal(t, in.PatternPath, got.PatternPath)
	assert.Equal(t, in.TemplatePath, got.TemplatePath)
	assert.JSONEq(t, string(in.Recipe), string(got.Recipe))
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestGetMissing(t *testing.T) {
	c := openTest(t)
	_, err := c.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"a.bmp", "b.bmp", "a.bmp"} {
		_, err := c.Record(ctx, Entry{Name: name, Kind: "circle", Rows: 2, Cols: 2})
		require.NoError(t, err)
	}

	all, err := c.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt), "newest first")
	assert.Equal(t, "null", string(all[0].Recipe))

	named, err := c.List(ctx, ListOptions{Name: "a.bmp"})
	require.NoError(t, err)
	assert.Len(t, named, 2)

	limited, err := c.List(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, all[0].ID, limited[0].ID)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), FileName)

	c, err := Open(ctx, path)
	require.NoError(t, err)
	rec, err := c.Record(ctx, Entry{Name: "x.png", Kind: "star"})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(ctx, path)
	require.NoError(t, err)
	defer c.Close()
	got, err := c.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "star", got.Kind)
}
