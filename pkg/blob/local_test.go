package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri/pkg/apperr"
)

func TestLocalPutDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	st, err := New(ctx, Config{Driver: "local", LocalPath: root, BaseURL: "/files/"})
	require.NoError(t, err)

	url, err := st.Put(ctx, "datasets/abc/prices.xlsx", "application/octet-stream", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, "/files/datasets/abc/prices.xlsx", url)

	b, err := os.ReadFile(filepath.Join(root, "datasets", "abc", "prices.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	require.NoError(t, st.Delete(ctx, "datasets/abc/prices.xlsx"))
	_, err = os.Stat(filepath.Join(root, "datasets", "abc", "prices.xlsx"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, st.Delete(ctx, "datasets/abc/prices.xlsx"))
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	st, err := NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)
	for _, key := range []string{"../outside", "a/../../b", "", "/"} {
		_, err := st.Put(context.Background(), key, "", strings.NewReader("x"))
		assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err), key)
	}
}

func TestUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
