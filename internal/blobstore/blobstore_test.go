package blobstore

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestPutAndServe(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, "/blobs/")
	require.NoError(t, err)

	url, sum, err := s.Put(context.Background(), "p@x.com/3/my photo.jpg", strings.NewReader("pixels"))
	require.NoError(t, err)

	want := blake2b.Sum256([]byte("pixels"))
	assert.Equal(t, hex.EncodeToString(want[:]), sum)
	assert.Equal(t, "/blobs/p@x.com/3/my%20photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(root, "p@x.com", "3", "my photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "pixels", string(body))
}

func TestPutOverwrites(t *testing.T) {
	s, err := New(t.TempDir(), "/blobs")
	require.NoError(t, err)

	_, first, err := s.Put(context.Background(), "u/1/a", strings.NewReader("one"))
	require.NoError(t, err)
	_, second, err := s.Put(context.Background(), "u/1/a", strings.NewReader("two"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestPutRejectsEscapingKeys(t *testing.T) {
	s, err := New(t.TempDir(), "/blobs")
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "u/../../x", "/abs", "u//x", `u\x`, "u/1/"} {
		_, _, err := s.Put(context.Background(), key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestPutHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, "/blobs")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = s.Put(ctx, "u/1/a", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(root, "u", "1", "a"))
	assert.True(t, os.IsNotExist(statErr))
}
