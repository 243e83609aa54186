// Package models fetches the pre-trained model blobs the detectors and
// embedders load.  Model weights are too large to ship with the module,
// so a manifest names each file with its download URL and an optional MD5
// checksum, and Fetch places verified copies into a local model
// directory.
package models

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Asset describes one downloadable model file
type Asset struct {
	// URL is the download location of the model file
	URL string `json:"url"`
	// MD5 is the expected hex encoded checksum, empty skips verification
	MD5 string `json:"md5,omitempty"`
}

// Manifest maps file names relative to the model directory to their
// download assets
type Manifest map[string]Asset

// ParseManifest decodes a manifest from its JSON representation
func ParseManifest(r io.Reader) (Manifest, error) {

	var manifest Manifest

	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	if len(manifest) == 0 {
		return nil, fmt.Errorf("manifest names no assets")
	}

	return manifest, nil
}

// LoadManifest reads and decodes a manifest file
func LoadManifest(path string) (Manifest, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return ParseManifest(f)
}

// Fetcher downloads manifest assets into a model directory
type Fetcher struct {
	client   *http.Client
	progress bool
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithProgress displays a progress bar per downloaded asset on stderr
func WithProgress() Option {
	return func(f *Fetcher) {
		f.progress = true
	}
}

// WithClient replaces the HTTP client used for downloads
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher returns a Fetcher with a generous download timeout suited to
// model blobs of tens of megabytes
func NewFetcher(opts ...Option) *Fetcher {

	f := &Fetcher{
		client: &http.Client{Timeout: 15 * time.Minute},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads every manifest asset into destDir, verifying checksums
// where the manifest provides them.  Files already present with a
// matching checksum are skipped.  Assets are fetched in a stable name
// order so repeated runs behave the same.
func (f *Fetcher) Fetch(ctx context.Context, manifest Manifest, destDir string) error {

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	names := make([]string, 0, len(manifest))
	for name := range manifest {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		asset := manifest[name]
		dest := filepath.Join(destDir, name)

		ok, err := f.verified(dest, asset.MD5)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		if err := f.fetchAsset(ctx, name, asset, dest); err != nil {
			return fmt.Errorf("fetch %s: %w", name, err)
		}
	}

	return nil
}

// fetchAsset downloads one asset into a temporary file, verifies it and
// moves it into place
func (f *Fetcher) fetchAsset(ctx context.Context, name string, asset Asset,
	dest string) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.URL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, asset.URL)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	hash := md5.New()
	out := io.MultiWriter(tmp, hash)

	if f.progress {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription(name),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		out = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if asset.MD5 != "" {
		sum := hex.EncodeToString(hash.Sum(nil))
		if sum != asset.MD5 {
			return fmt.Errorf("checksum mismatch: got %s, expected %s", sum, asset.MD5)
		}
	}

	return os.Rename(tmp.Name(), dest)
}

// verified reports whether the destination file already exists with the
// expected checksum.  Without a manifest checksum any existing file
// counts as verified.
func (f *Fetcher) verified(dest, expectedMD5 string) (bool, error) {

	file, err := os.Open(dest)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer file.Close()

	if expectedMD5 == "" {
		return true, nil
	}

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return false, err
	}

	return hex.EncodeToString(hash.Sum(nil)) == expectedMD5, nil
}
