package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beesaferoot/ams-store/internal/cache"
	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/model"
)

type fakeIndex struct {
	rows  map[string][]store.Row
	err   error
	calls map[string]int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{rows: map[string][]store.Row{}, calls: map[string]int{}}
}

func (f *fakeIndex) run(kind string) ([]store.Row, error) {
	f.calls[kind]++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[kind], nil
}

func (f *fakeIndex) Apartments(_ context.Context, _ string) ([]store.Row, error) {
	return f.run("apartments")
}

func (f *fakeIndex) Complaints(_ context.Context, _ string) ([]store.Row, error) {
	return f.run("complaints")
}

func (f *fakeIndex) Announcements(_ context.Context, _ string) ([]store.Row, error) {
	return f.run("announcements")
}

func (f *fakeIndex) Users(_ context.Context, _ string) ([]store.Row, error) {
	return f.run("users")
}

func newService(idx Index) (*Service, *cache.Memory) {
	c := cache.NewMemory(0)
	return New(idx, c, slog.New(slog.NewTextHandler(io.Discard, nil))), c
}

func TestGlobal(t *testing.T) {
	idx := newFakeIndex()
	idx.rows["apartments"] = []store.Row{{"name": "Riverside"}}
	idx.rows["complaints"] = []store.Row{{"title": "Bathroom leak"}}
	svc, _ := newService(idx)

	got, err := svc.Global(context.Background(), "leak")
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, "Riverside", got["apartments"][0]["name"])
	assert.Equal(t, "Bathroom leak", got["complaints"][0]["title"])
	assert.NotNil(t, got["announcements"])
	assert.Empty(t, got["announcements"])
	assert.Empty(t, got["users"])
}

func TestSearchCachedPerTerm(t *testing.T) {
	idx := newFakeIndex()
	svc, c := newService(idx)
	ctx := context.Background()

	_, err := svc.Users(ctx, "ada")
	require.NoError(t, err)
	_, err = svc.Users(ctx, "ada")
	require.NoError(t, err)
	_, err = svc.Users(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.calls["users"])

	_, ok := c.Get(ctx, CacheUsers, "ada")
	assert.True(t, ok)

	// global reuses the per-entity entries
	_, err = svc.Global(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.calls["users"])
	assert.Equal(t, 1, idx.calls["apartments"])
}

func TestBlankTerm(t *testing.T) {
	idx := newFakeIndex()
	svc, _ := newService(idx)

	for _, run := range []func() error{
		func() error { _, err := svc.Apartments(context.Background(), ""); return err },
		func() error { _, err := svc.Global(context.Background(), "   "); return err },
	} {
		var verr *model.ValidationError
		require.ErrorAs(t, run(), &verr)
		assert.Equal(t, "term", verr.Field)
	}
	assert.Empty(t, idx.calls)
}

func TestIndexError(t *testing.T) {
	idx := newFakeIndex()
	idx.err = errors.New("down")
	svc, _ := newService(idx)

	_, err := svc.Global(context.Background(), "leak")
	assert.ErrorIs(t, err, idx.err)
}
