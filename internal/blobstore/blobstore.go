// Package blobstore writes uploaded files to a directory tree and serves them
// back over HTTP.
package blobstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var ErrInvalidKey = errors.New("invalid blob key")

// Store keeps blobs under root; key segments map to directories.
type Store struct {
	root    string
	baseURL string
}

func New(root, baseURL string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// cleanKey rejects keys that would escape the root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, 0) || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != key {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	for _, seg := range strings.Split(cleaned, "/") {
		if seg == "." || seg == ".." || seg == "" {
			return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
		}
	}
	return cleaned, nil
}

// Put writes r to key, replacing any previous blob, and returns its URL and
// BLAKE2b-256 checksum.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (string, string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", "", fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", "", fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	h, _ := blake2b.New256(nil)
	if _, err := io.Copy(io.MultiWriter(tmp, h), &ctxReader{ctx: ctx, r: r}); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", "", fmt.Errorf("commit blob: %w", err)
	}

	return s.URL(key), hex.EncodeToString(h.Sum(nil)), nil
}

// URL is where key is served.
func (s *Store) URL(key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segs, "/")
}

// Handler serves stored blobs; mount it at the base URL path.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(s.baseURL, http.FileServer(http.Dir(s.root)))
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
