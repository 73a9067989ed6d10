package ppfas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/etnz/fundiff/date"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a disclosure is not published at the expected address.
var ErrNotFound = errors.New("report not found")

// userAgents are browser identities, the publisher rejects unknown clients.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36",
	"Mozilla/5.0 (Windows NT 6.1; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36",
}

// browser is an http.RoundTripper presenting a browser User-Agent and logging responses.
type browser struct {
	base http.RoundTripper
	log  zerolog.Logger
}

func (b *browser) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])

	resp, err := b.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	b.log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).
		Str("status", resp.Status).Msg("http")
	return resp, nil
}

// NewClient returns an HTTP client for the publisher's site: 30s overall timeout, 10s to connect.
func NewClient(log zerolog.Logger) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: 10 * time.Second}).DialContext
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: &browser{base: transport, log: log},
	}
}

// Fetcher downloads disclosures into a local cache directory.
//
// A file already present in the directory is reused without any request, disclosures never
// change once published.
type Fetcher struct {
	Client  *http.Client
	Dir     string           // cache directory
	BaseURL string           // DefaultBaseURL when empty
	Today   func() date.Date // date.Today when nil
	Log     zerolog.Logger
}

// NewFetcher returns a Fetcher caching into dir, the OS temporary directory when empty.
func NewFetcher(dir string, log zerolog.Logger) *Fetcher {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Fetcher{
		Client: NewClient(log),
		Dir:    dir,
		Log:    log,
	}
}

// Fetch downloads the disclosure of monthsAgo months ago and returns its local path.
//
// Each format of Extensions is tried in order. The returned error wraps ErrNotFound when no
// format is published.
func (f *Fetcher) Fetch(ctx context.Context, monthsAgo int) (string, error) {
	today := date.Today
	if f.Today != nil {
		today = f.Today
	}
	d := ReportDate(today(), monthsAgo)

	var errs error
	for _, ext := range Extensions {
		addr := ReportURL(f.BaseURL, d, ext)
		f.Log.Debug().Str("url", addr).Msg("downloading file")
		file, err := f.FetchURL(ctx, addr)
		if err == nil {
			return file, nil
		}
		f.Log.Debug().Err(err).Str("format", ext).Msg("unable to download, trying next format")
		errs = errors.Join(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("cannot download report of %s: %w", d, errs)
}

// FetchURL downloads addr into the cache directory, named after the last element of its path.
func (f *Fetcher) FetchURL(ctx context.Context, addr string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid report address %q: %w", addr, err)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return "", fmt.Errorf("invalid report address %q: no file name", addr)
	}
	file := filepath.Join(f.Dir, name)

	if info, err := os.Stat(file); err == nil && info.Size() > 0 {
		f.Log.Debug().Str("file", file).Msg("file already exists, using cache")
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	client := f.Client
	if client == nil {
		client = NewClient(f.Log)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cannot http GET %q: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http GET %s/%s: %s", ErrNotFound, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	if err := f.save(file, resp.Body); err != nil {
		return "", err
	}
	f.Log.Info().Str("file", file).Msg("downloaded file")
	return file, nil
}

// save writes r into file, leaving no partial file behind on failure.
func (f *Fetcher) save(file string, r io.Reader) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("cannot create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.Dir, filepath.Base(file)+".*.part")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot read report body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), file)
}
