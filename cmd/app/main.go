package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"

    "github.com/local/doccompare/internal/api"
    cfgpkg "github.com/local/doccompare/internal/config"
    "github.com/local/doccompare/internal/fetch"
    "github.com/local/doccompare/internal/imagepreview"
    "github.com/local/doccompare/internal/limiter"
    logpkg "github.com/local/doccompare/internal/logger"
    "github.com/local/doccompare/internal/metrics"
    "github.com/local/doccompare/internal/pdfpreview"
    "github.com/local/doccompare/internal/scoring"
    "github.com/local/doccompare/internal/slot"
    "github.com/local/doccompare/internal/statuscheck"
    "github.com/local/doccompare/internal/store"
    web "github.com/local/doccompare/internal/web"
    "github.com/local/doccompare/internal/workspace"
)

// redisPinger adapts *redis.Client to statuscheck.RedisPinger.
type redisPinger struct{ c *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

func main() {
    cfg := cfgpkg.Load()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level:        cfg.Logging.Level,
        Pretty:       cfg.Logging.Pretty,
        File:         cfg.Logging.File,
        MaxSizeMB:    cfg.Logging.MaxSizeMB,
        MaxBackups:   cfg.Logging.MaxBackups,
        MaxAgeDays:   cfg.Logging.MaxAgeDays,
        Compress:     cfg.Logging.Compress,
        SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey:  cfg.Axiom.APIKey,
        AxiomOrgID:   cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush:   cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    metrics.Init()

    s3opts := fetch.S3Options{
        Region:          cfg.S3.Region,
        AccessKeyID:     cfg.S3.AccessKeyID,
        SecretAccessKey: cfg.S3.SecretAccessKey,
    }
    fetcher := fetch.New(fetch.Options{
        Timeout:  cfg.Preview.FetchTimeout,
        MaxBytes: cfg.Preview.FetchMaxBytes,
        S3:       s3opts,
    })
    renders := limiter.New(cfg.Preview.MaxRenders)
    metrics.RegisterRenderGauge(renders.InFlight)
    pdfOpts := pdfpreview.Options{
        Quality:   cfg.Preview.JPEGQuality,
        Preflight: pdfpreview.ParsePreflight(cfg.Preview.PDFPreflight),
        Limiter:   renders,
    }

    deps := workspace.Deps{
        Images:         imagepreview.New(fetcher),
        NewPDFLoader:   func() slot.PDFLoader { return pdfpreview.New(fetcher, nil, pdfOpts) },
        Scorer:         scoring.NewStatic(),
        ContainerWidth: cfg.Preview.ContainerWidth,
    }

    // Redis is optional: without it reports stay in memory and saved
    // comparisons go to the embedded store.
    var (
        rdb         *redis.Client
        comparisons api.ComparisonStore
    )
    if cfg.Redis.Enabled {
        c, err := store.Open(cfg.Redis.URL)
        if err != nil {
            log.Warn().Err(err).Msg("redis unavailable, continuing without report cache")
        } else {
            rdb = c
            defer rdb.Close()
            deps.Cache = store.NewReportCache(rdb, cfg.Redis.ReportTTL)
            comparisons = store.NewComparisonStore(rdb)
        }
    }
    if comparisons == nil {
        local, err := store.OpenLocal(cfg.Store.LocalDir)
        if err != nil {
            log.Warn().Err(err).Str("dir", cfg.Store.LocalDir).Msg("saved comparisons unavailable")
        } else {
            defer local.Close()
            comparisons = local
            log.Info().Str("dir", cfg.Store.LocalDir).Msg("saved comparisons use the local store")
        }
    }

    registry := workspace.NewRegistry(deps)
    ctx, stopSweeper := context.WithCancel(context.Background())
    defer stopSweeper()
    go registry.RunSweeper(ctx, cfg.Workspace.SweepInterval, cfg.Workspace.MaxIdle)

    statusOpts := statuscheck.Options{S3Bucket: cfg.S3.Bucket, S3: s3opts}
    if rdb != nil {
        statusOpts.Redis = redisPinger{c: rdb}
    }
    apiDeps := api.Dependencies{
        Registry:       registry,
        Status:         statuscheck.New(statusOpts),
        MaxUploadBytes: cfg.Server.MaxUploadBytes,
    }
    webOpts := web.Options{Username: cfg.Web.Username, Password: cfg.Web.Password}
    if comparisons != nil {
        apiDeps.Comparisons = comparisons
        webOpts.Comparisons = comparisons
    }

    router := api.New(apiDeps).Router()

    // Dashboard and compare page
    web.New(webOpts).RegisterRoutes(router)

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           router,
        ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
    }

    go func() {
        log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    stopSweeper()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
    fmt.Println("shutdown complete")
}
