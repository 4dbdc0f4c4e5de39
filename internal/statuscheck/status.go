package statuscheck

import (
    "context"
    "errors"
    "time"

    "github.com/aws/aws-sdk-go-v2/service/s3"
    "golang.org/x/sync/errgroup"

    "github.com/local/doccompare/internal/fetch"
    "github.com/local/doccompare/internal/pdfpreview"
)

// RedisPinger models the minimal Redis capability we need for status checks.
type RedisPinger interface {
    Ping(ctx context.Context) error
}

// BucketHeader is the S3 call used to probe bucket access.
type BucketHeader interface {
    HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Checker aggregates readiness checks for the preview service's dependencies.
type Checker struct {
    redis    RedisPinger
    s3Bucket string
    s3Opts   fetch.S3Options
    s3Client BucketHeader
    renderer pdfpreview.Library
}

// Options configures the Checker.
type Options struct {
    Redis    RedisPinger
    S3Bucket string
    S3       fetch.S3Options
    // S3Client overrides the client built from S3, mainly for tests.
    S3Client BucketHeader
    Renderer pdfpreview.Library
}

// Status represents the readiness of a subsystem. Skipped subsystems are
// optional ones that are not configured; they do not fail the summary.
type Status struct {
    OK      bool   `json:"ok"`
    Skipped bool   `json:"skipped,omitempty"`
    Message string `json:"message"`
}

func (s Status) healthy() bool { return s.OK || s.Skipped }

// Summary bundles all subsystem statuses.
type Summary struct {
    Redis Status `json:"redis"`
    S3    Status `json:"s3"`
    MuPDF Status `json:"mupdf"`
}

// OK reports whether every subsystem is ready.
func (s Summary) OK() bool { return s.Redis.healthy() && s.S3.healthy() && s.MuPDF.healthy() }

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
    renderer := opts.Renderer
    if renderer == nil {
        renderer = pdfpreview.FitzLibrary{}
    }
    return &Checker{
        redis:    opts.Redis,
        s3Bucket: opts.S3Bucket,
        s3Opts:   opts.S3,
        s3Client: opts.S3Client,
        renderer: renderer,
    }
}

// Summary runs every check concurrently and returns the snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
    var (
        sum Summary
        g   errgroup.Group
    )
    g.Go(func() error { sum.Redis = c.checkRedis(ctx); return nil })
    g.Go(func() error { sum.S3 = c.checkS3(ctx); return nil })
    g.Go(func() error { sum.MuPDF = c.checkMuPDF(ctx); return nil })
    _ = g.Wait()
    return sum
}

func (c *Checker) checkRedis(ctx context.Context) Status {
    if c.redis == nil {
        return Status{Skipped: true, Message: "Not configured"}
    }
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := c.redis.Ping(ctx); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkS3(ctx context.Context) Status {
    if c.s3Bucket == "" {
        return Status{Skipped: true, Message: "Bucket not configured"}
    }
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    cli := c.s3Client
    if cli == nil {
        cfg, err := fetch.LoadAWSConfig(ctx, c.s3Opts)
        if err != nil {
            return Status{OK: false, Message: trimError(err)}
        }
        cli = s3.NewFromConfig(cfg)
    }
    if _, err := cli.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &c.s3Bucket}); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkMuPDF(ctx context.Context) Status {
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := pdfpreview.Probe(ctx, c.renderer); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Available"}
}

func trimError(err error) string {
    if err == nil {
        return ""
    }
    var netErr interface{ Timeout() bool }
    if errors.As(err, &netErr) && netErr.Timeout() {
        return "timeout"
    }
    msg := err.Error()
    if len(msg) > 120 {
        return msg[:120]
    }
    return msg
}
