package registry

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

const maxFetchElapsed = 30 * time.Second

// npmVersionManifest is the subset of a registry version document we read
type npmVersionManifest struct {
	domain.PackageJSON
	Dist struct {
		Tarball string `json:"tarball"`
	} `json:"dist"`
}

// NpmFetcher resolves migration metadata from an npm compatible registry.
// The migrations manifest is read out of the package tarball.
type NpmFetcher struct {
	registryURL string
	client      *http.Client
	log         *slog.Logger
}

// NewNpmFetcher creates a new NpmFetcher
func NewNpmFetcher(cfg *config.RuntimeConfig, log *slog.Logger) *NpmFetcher {
	return &NpmFetcher{
		registryURL: strings.TrimSuffix(cfg.RegistryURL, "/"),
		client:      &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

// Fetch downloads the version document and, when the package ships
// migrations, the manifest inside its tarball
func (f *NpmFetcher) Fetch(ctx context.Context, name, version string) (*domain.MigrationMetadata, error) {
	var manifest npmVersionManifest
	docURL := fmt.Sprintf("%s/%s/%s", f.registryURL, strings.Replace(name, "/", "%2F", 1), url.PathEscape(version))
	err := f.retry(ctx, func() error {
		body, err := f.get(ctx, docURL)
		if err != nil {
			return err
		}
		defer body.Close()
		if err := json.NewDecoder(body).Decode(&manifest); err != nil {
			return backoff.Permanent(fmt.Errorf("invalid version document: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s@%s: %w", name, version, err)
	}

	meta := &domain.MigrationMetadata{Version: manifest.Version}
	ref := manifest.NxMigrations
	if ref == nil || ref.Migrations == "" || manifest.Dist.Tarball == "" {
		return meta, nil
	}
	meta.PackageGroup = ref.PackageGroup

	var migrations domain.MigrationsManifest
	err = f.retry(ctx, func() error {
		body, err := f.get(ctx, manifest.Dist.Tarball)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err := readTarballFile(body, ref.Migrations)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := json.Unmarshal(data, &migrations); err != nil {
			return backoff.Permanent(fmt.Errorf("invalid %s: %w", ref.Migrations, err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations of %s@%s: %w", name, manifest.Version, err)
	}
	meta.Generators = migrations.All()
	meta.PackageJSONUpdates = migrations.PackageJSONUpdates
	return meta, nil
}

type httpStatusError struct {
	url    string
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.url, http.StatusText(e.status))
}

func (f *NpmFetcher) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		statusErr := &httpStatusError{url: u, status: resp.StatusCode}
		if resp.StatusCode == http.StatusNotFound {
			return nil, backoff.Permanent(fmt.Errorf("%w: %w", domain.ErrNotFound, statusErr))
		}
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(statusErr)
		}
		return nil, statusErr
	}
	return resp.Body, nil
}

func (f *NpmFetcher) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxFetchElapsed
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		f.log.Debug("registry request failed, retrying", "error", err, "wait", wait)
	})
}

// readTarballFile extracts one file from an npm tarball, where every entry
// lives below a top-level "package/" directory
func readTarballFile(r io.Reader, name string) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	want := path.Clean(strings.TrimPrefix(name, "./"))
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s in package tarball", domain.ErrNotFound, want)
		}
		if err != nil {
			return nil, err
		}
		entry := hdr.Name
		if idx := strings.Index(entry, "/"); idx >= 0 {
			entry = entry[idx+1:]
		}
		if path.Clean(entry) == want {
			return io.ReadAll(tr)
		}
	}
}

// Ensure NpmFetcher implements MigrationFetcher
var _ usecase.MigrationFetcher = (*NpmFetcher)(nil)
