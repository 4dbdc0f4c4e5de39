package logger

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"
    "sync/atomic"
    "time"

    "github.com/axiomhq/axiom-go/axiom"
    "github.com/axiomhq/axiom-go/axiom/ingest"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
    lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options defines logger initialization parameters.
type Options struct {
    Level  string
    Pretty bool
    // Console receives the console stream; nil means stdout.
    Console io.Writer

    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool

    // Axiom
    SendToAxiom  bool
    AxiomAPIKey  string
    AxiomOrgID   string
    AxiomDataset string
    AxiomFlush   time.Duration
}

const serviceName = "doccompare"

var (
    global = zerolog.Nop()
    sink   *axiomSink
)

// Init wires the global logger: console, optional rotated file, optional
// Axiom forwarding of info and above.
func Init(opts Options) error {
    console := opts.Console
    if console == nil {
        console = os.Stdout
    }
    if opts.Pretty {
        console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
    }
    writers := []io.Writer{console}

    if opts.File != "" {
        if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
            return fmt.Errorf("create logs dir: %w", err)
        }
        writers = append(writers, &lumberjack.Logger{
            Filename:   opts.File,
            MaxSize:    opts.MaxSizeMB,
            MaxBackups: opts.MaxBackups,
            MaxAge:     opts.MaxAgeDays,
            Compress:   opts.Compress,
        })
    }

    if opts.SendToAxiom && opts.AxiomAPIKey != "" {
        s, err := newAxiomSink(opts.AxiomAPIKey, opts.AxiomOrgID, opts.AxiomDataset, opts.AxiomFlush)
        if err != nil {
            fmt.Fprintf(os.Stderr, "Axiom disabled: %v\n", err)
        } else {
            sink = s
            writers = append(writers, s)
        }
    }

    lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
    if err != nil || opts.Level == "" {
        lvl = zerolog.InfoLevel
    }
    zerolog.TimeFieldFormat = time.RFC3339

    global = zerolog.New(zerolog.MultiLevelWriter(writers...)).
        Level(lvl).
        With().Timestamp().Str("service", serviceName).
        Logger()
    log.Logger = global
    return nil
}

// Close flushes the Axiom sink, if any.
func Close() {
    if sink != nil {
        sink.Close()
        sink = nil
    }
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
    return global.With().Str("component", name).Logger()
}

// Workspace returns a child logger for one comparison workspace.
func Workspace(id string) zerolog.Logger {
    return global.With().Str("component", "workspace").Str("workspace", id).Logger()
}

// axiomSink batches events for Axiom. Debug and trace lines never leave
// the process; when the buffer is full lines are dropped and counted.
type axiomSink struct {
    client  *axiom.Client
    dataset string
    min     zerolog.Level
    events  chan axiom.Event
    dropped atomic.Int64

    stop context.CancelFunc
    done chan struct{}
}

func newAxiomSink(token, orgID, dataset string, flushEvery time.Duration) (*axiomSink, error) {
    if dataset == "" {
        dataset = "dev_" + serviceName
    }
    opts := []axiom.Option{axiom.SetToken(token)}
    if orgID != "" {
        opts = append(opts, axiom.SetOrganizationID(orgID))
    }
    c, err := axiom.NewClient(opts...)
    if err != nil {
        return nil, err
    }
    if flushEvery <= 0 {
        flushEvery = 10 * time.Second
    }
    ctx, cancel := context.WithCancel(context.Background())
    s := &axiomSink{
        client:  c,
        dataset: dataset,
        min:     zerolog.InfoLevel,
        events:  make(chan axiom.Event, 1000),
        stop:    cancel,
        done:    make(chan struct{}),
    }
    go s.run(ctx, flushEvery)
    return s, nil
}

func (s *axiomSink) Write(p []byte) (int, error) {
    return s.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (s *axiomSink) WriteLevel(l zerolog.Level, p []byte) (int, error) {
    if l != zerolog.NoLevel && l < s.min {
        return len(p), nil
    }
    var ev axiom.Event
    if err := json.Unmarshal(p, &ev); err != nil {
        ev = axiom.Event{"message": strings.TrimSpace(string(p)), "level": l.String()}
    }
    if _, ok := ev[ingest.TimestampField]; !ok {
        ev[ingest.TimestampField] = time.Now()
    }
    select {
    case s.events <- ev:
    default:
        s.dropped.Add(1)
    }
    return len(p), nil
}

func (s *axiomSink) run(ctx context.Context, flushEvery time.Duration) {
    defer close(s.done)
    ticker := time.NewTicker(flushEvery)
    defer ticker.Stop()

    batch := make([]axiom.Event, 0, 200)
    flush := func() {
        if len(batch) == 0 {
            return
        }
        fctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
        if _, err := s.client.IngestEvents(fctx, s.dataset, batch); err != nil {
            fmt.Fprintf(os.Stderr, "axiom ingest failed (%d events): %v\n", len(batch), err)
        }
        cancel()
        batch = batch[:0]
    }
    for {
        select {
        case <-ctx.Done():
            for {
                select {
                case ev := <-s.events:
                    batch = append(batch, ev)
                default:
                    flush()
                    return
                }
            }
        case <-ticker.C:
            flush()
        case ev := <-s.events:
            batch = append(batch, ev)
            if len(batch) >= 200 {
                flush()
            }
        }
    }
}

// Close drains buffered events and stops the flusher.
func (s *axiomSink) Close() {
    s.stop()
    <-s.done
    if n := s.dropped.Load(); n > 0 {
        fmt.Fprintf(os.Stderr, "axiom: dropped %d log events\n", n)
    }
}
