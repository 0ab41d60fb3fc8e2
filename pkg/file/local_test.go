package file_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/file"
)

func TestCleanKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "plain", key: "runs/1/errors.json", want: "runs/1/errors.json"},
		{name: "leading slash", key: "/runs/1.csv", want: "runs/1.csv"},
		{name: "backslashes", key: `runs\1.csv`, want: "runs/1.csv"},
		{name: "duplicate slashes", key: "runs//1.csv", want: "runs/1.csv"},
		{name: "dot segment", key: "runs/./1.csv", want: "runs/1.csv"},
		{name: "parent", key: "../etc/passwd", wantErr: true},
		{name: "nested parent", key: "runs/../../x", wantErr: true},
		{name: "nul byte", key: "runs/\x00", wantErr: true},
		{name: "empty", key: "", wantErr: true},
		{name: "only slashes", key: "//", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := file.CleanKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, file.ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType("a/validated.csv"))
	assert.Equal(t, "application/json", file.ContentType("errors.JSON"))
	assert.Equal(t, "application/vnd.apache.parquet", file.ContentType("t.parquet"))
	assert.Equal(t, "application/octet-stream", file.ContentType("noext"))
}

func newLocal(t *testing.T, baseURL string) *file.LocalStorage {
	t.Helper()
	store, err := file.NewLocalStorage(t.TempDir(), baseURL)
	require.NoError(t, err)
	return store
}

func TestNewLocalStorage(t *testing.T) {
	t.Parallel()

	t.Run("creates directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "out")
		store, err := file.NewLocalStorage(dir, "")
		require.NoError(t, err)
		assert.DirExists(t, dir)
		assert.Equal(t, dir, store.BaseDir())
	})

	t.Run("empty dir", func(t *testing.T) {
		t.Parallel()
		_, err := file.NewLocalStorage("", "")
		assert.ErrorIs(t, err, file.ErrInvalidConfig)
	})
}

func TestLocalStorage_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newLocal(t, "https://files.example.com")

	obj, err := store.Put(ctx, "runs/1/errors.json", strings.NewReader(`{"ok":false}`), "")
	require.NoError(t, err)
	assert.Equal(t, "runs/1/errors.json", obj.Key)
	assert.Equal(t, int64(12), obj.Size)
	assert.Equal(t, "application/json", obj.ContentType)
	assert.Equal(t, "https://files.example.com/runs/1/errors.json", obj.URL)

	info, err := os.Stat(filepath.Join(store.BaseDir(), "runs", "1", "errors.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	rc, err := store.Get(ctx, "/runs/1/errors.json")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":false}`, string(data))

	t.Run("overwrite", func(t *testing.T) {
		_, err := store.Put(ctx, "runs/1/errors.json", strings.NewReader("[]"), "application/json")
		require.NoError(t, err)
		rc, err := store.Get(ctx, "runs/1/errors.json")
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Get(ctx, "runs/2/errors.json")
		assert.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("traversal", func(t *testing.T) {
		_, err := store.Put(ctx, "../escape.txt", strings.NewReader("x"), "")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
		_, err = store.Get(ctx, "../../etc/passwd")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Put(cctx, "runs/3/x.csv", strings.NewReader("a"), "")
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, store.Exists(ctx, "runs/3/x.csv"))
	})
}

func TestLocalStorage_ExistsDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newLocal(t, "")

	_, err := store.Put(ctx, "a/b.csv", strings.NewReader("x"), "")
	require.NoError(t, err)

	assert.True(t, store.Exists(ctx, "a/b.csv"))
	assert.False(t, store.Exists(ctx, "a"), "directories are not objects")
	assert.False(t, store.Exists(ctx, "../a/b.csv"))

	require.NoError(t, store.Delete(ctx, "a/b.csv"))
	assert.False(t, store.Exists(ctx, "a/b.csv"))

	assert.ErrorIs(t, store.Delete(ctx, "a/b.csv"), file.ErrFileNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "a"), file.ErrFileNotFound)
}

func TestLocalStorage_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newLocal(t, "")

	for _, key := range []string{"runs/2/errors.json", "runs/1/validated.csv", "runs/10/validated.csv", "other.txt"} {
		_, err := store.Put(ctx, key, strings.NewReader(key), "")
		require.NoError(t, err)
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	keys := make([]string, 0, len(all))
	for _, o := range all {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"other.txt", "runs/1/validated.csv", "runs/10/validated.csv", "runs/2/errors.json"}, keys)

	runs, err := store.List(ctx, "runs/1/")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "runs/1/validated.csv", runs[0].Key)
	assert.Equal(t, int64(len("runs/1/validated.csv")), runs[0].Size)
	assert.Equal(t, filepath.Join(store.BaseDir(), "runs", "1", "validated.csv"), runs[0].URL)

	none, err := store.List(ctx, "missing/")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.List(ctx, "../")
	assert.ErrorIs(t, err, file.ErrInvalidPath)
}
