package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Save(ctx, "registro_20240115.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", strings.NewReader("workbook bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, info.ID)
	assert.Equal(t, "registro_20240115.xlsx", info.Name)
	assert.EqualValues(t, len("workbook bytes"), info.Size)

	t.Run("open round-trips content", func(t *testing.T) {
		rc, opened, err := store.Open(ctx, info.ID)
		require.NoError(t, err)
		defer rc.Close()

		assert.Equal(t, info.Name, opened.Name)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "workbook bytes", string(data))
	})

	t.Run("list returns saved files", func(t *testing.T) {
		files, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, info.ID, files[0].ID)
	})

	t.Run("filename is sanitized", func(t *testing.T) {
		saved, err := store.Save(ctx, "../weird name?.csv", "text/csv", strings.NewReader("a,b"))
		require.NoError(t, err)
		assert.NotContains(t, saved.Path, "..")

		require.NoError(t, store.Delete(ctx, saved.ID))
		_, err = store.GetInfo(ctx, saved.ID)
		assert.Error(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := store.Open(ctx, uuid.New())
		assert.Error(t, err)
	})
}
