package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/service/dao"
)

type item struct {
	ID   string
	Kind string
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, item](func(i *item) string { return i.ID }, func(i *item, parameters []*dao.Parameter) bool {
		return len(parameters) == 0 || parameters[0].Value == i.Kind
	})

	require.NoError(t, s.Save(ctx, &item{ID: "1", Kind: "a"}))
	require.NoError(t, s.Save(ctx, &item{ID: "2", Kind: "b"}))
	assert.True(t, errors.Is(s.Save(ctx, nil), dao.ErrNilEntity))
	assert.Equal(t, 2, s.Len())

	loaded, err := s.Load(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Kind)

	_, err = s.Load(ctx, "3")
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := s.List(ctx, dao.NewParameter("Kind", "b"))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)

	require.NoError(t, s.Delete(ctx, "2"))
	assert.Equal(t, 1, s.Len())
}
