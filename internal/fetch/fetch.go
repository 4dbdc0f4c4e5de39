// Package fetch retrieves the raw bytes behind a media.Source: uploaded
// buffers, local files, http(s) URLs and s3:// objects.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/doccompare/internal/media"
)

// ErrTooLarge is returned when a source exceeds the configured size limit.
var ErrTooLarge = errors.New("content exceeds size limit")

// ObjectGetter downloads a single object from a bucket.
type ObjectGetter interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// Options configures a Fetcher.
type Options struct {
	// Timeout bounds remote retrieval. Zero means no timeout.
	Timeout time.Duration
	// MaxBytes caps remote and local reads. Zero means no cap.
	MaxBytes   int64
	HTTPClient *http.Client
	S3         S3Options
	// Objects overrides the S3 backend, mainly for tests.
	Objects ObjectGetter
}

// Fetcher is safe for concurrent use by both slots.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64

	s3opts  S3Options
	s3once  sync.Once
	objects ObjectGetter
	s3err   error
}

// New builds a Fetcher.
func New(opts Options) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:   client,
		timeout:  opts.Timeout,
		maxBytes: opts.MaxBytes,
		s3opts:   opts.S3,
		objects:  opts.Objects,
	}
}

// Fetch returns the bytes of src. Local read failures come back as
// *media.ReadError; remote failures are plain errors the caller classifies.
func (f *Fetcher) Fetch(ctx context.Context, src media.Source) ([]byte, error) {
	switch src.Kind {
	case media.SourceFile:
		return f.readFile(ctx, src)
	case media.SourceURL:
		return f.fetchRemote(ctx, src.URL)
	}
	return nil, fmt.Errorf("unknown source kind %q", src.Kind)
}

func (f *Fetcher) readFile(ctx context.Context, src media.Source) ([]byte, error) {
	if src.Path == "" {
		if src.Data == nil {
			return nil, &media.ReadError{Name: src.Name, Err: errors.New("no content")}
		}
		if f.maxBytes > 0 && int64(len(src.Data)) > f.maxBytes {
			return nil, &media.ReadError{Name: src.Name, Err: ErrTooLarge}
		}
		return src.Data, nil
	}
	file, err := os.Open(src.Path)
	if err != nil {
		return nil, &media.ReadError{Name: src.Name, Err: err}
	}
	defer file.Close()
	data, err := f.readAll(ctx, file)
	if err != nil {
		return nil, &media.ReadError{Name: src.Name, Err: err}
	}
	return data, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("invalid url: missing host in %q", raw)
		}
		return f.fetchHTTP(ctx, u.String())
	case "s3":
		return f.fetchS3(ctx, u)
	}
	return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, ErrTooLarge
	}
	data, err := f.readAll(ctx, resp.Body)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", target).Int("bytes", len(data)).Msg("fetched remote document")
	return data, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, u *url.URL) ([]byte, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 url: %s", u.String())
	}
	objects, err := f.objectGetter(ctx)
	if err != nil {
		return nil, err
	}
	data, err := objects.Download(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	log.Info().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Msg("downloaded s3 document")
	return data, nil
}

func (f *Fetcher) objectGetter(ctx context.Context) (ObjectGetter, error) {
	f.s3once.Do(func() {
		if f.objects != nil {
			return
		}
		f.objects, f.s3err = NewS3Getter(context.WithoutCancel(ctx), f.s3opts)
	})
	return f.objects, f.s3err
}

// readAll reads r until EOF, honouring ctx between chunks and the size cap.
func (f *Fetcher) readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	if f.maxBytes > 0 {
		r = io.LimitReader(r, f.maxBytes+1)
	}
	buf := make([]byte, 0, 64<<10)
	chunk := make([]byte, 32<<10)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if f.maxBytes > 0 && int64(len(buf)) > f.maxBytes {
			return nil, ErrTooLarge
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
