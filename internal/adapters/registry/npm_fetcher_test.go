package registry

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

func tarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: "package/" + name, Mode: 0644, Size: int64(len(content))}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestNpmFetcher_Fetch(t *testing.T) {
	var calls atomic.Int32
	tgz := tarball(t, map[string]string{
		"package.json":    `{"name":"@scope/pkg"}`,
		"migrations.json": `{"generators":{"b":{"version":"1.2.0","cli":"nx","implementation":"./b"},"a":{"version":"1.1.0","factory":"./a"}}}`,
	})

	var srvURL string
	mux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/@scope%2Fpkg/latest":
			// first request fails to exercise the retry
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprintf(w, `{"name":"@scope/pkg","version":"1.2.0","nx-migrations":{"migrations":"./migrations.json"},"dist":{"tarball":"%s/pkg.tgz"}}`, srvURL)
		case "/pkg.tgz":
			_, _ = w.Write(tgz)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	cfg := config.NewRuntimeConfig(t.TempDir(), "16.5.0")
	cfg.RegistryURL = srv.URL
	f := NewNpmFetcher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	meta, err := f.Fetch(context.Background(), "@scope/pkg", "latest")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", meta.Version)
	require.Len(t, meta.Generators, 2)
	assert.Equal(t, "b", meta.Generators[0].Name)
	assert.Equal(t, "a", meta.Generators[1].Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNpmFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := config.NewRuntimeConfig(t.TempDir(), "16.5.0")
	cfg.RegistryURL = srv.URL
	f := NewNpmFetcher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := f.Fetch(context.Background(), "missing", "1.0.0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNpmFetcher_MalformedDocumentIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"name":"broken","version":`)
	}))
	defer srv.Close()

	cfg := config.NewRuntimeConfig(t.TempDir(), "16.5.0")
	cfg.RegistryURL = srv.URL
	f := NewNpmFetcher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := f.Fetch(context.Background(), "broken", "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version document")
	assert.Equal(t, int32(1), calls.Load())
}
