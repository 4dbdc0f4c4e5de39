package config

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
    Level        string
    Pretty       bool
    File         string
    MaxSizeMB    int
    MaxBackups   int
    MaxAgeDays   int
    Compress     bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
    Send          bool
    APIKey        string
    OrgID         string
    Dataset       string
    FlushInterval time.Duration
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
    Port              string
    ReadHeaderTimeout time.Duration
    MaxUploadBytes    int64
}

// PreviewConfig drives the document preview loaders.
type PreviewConfig struct {
    ContainerWidth int
    JPEGQuality    int
    PDFPreflight   string // "off"|"warn"|"strict"
    MaxRenders     int
    FetchTimeout   time.Duration
    FetchMaxBytes  int64
}

// RedisConfig defines report cache and saved comparison storage.
type RedisConfig struct {
    Enabled   bool
    URL       string
    ReportTTL time.Duration
}

// StoreConfig locates the embedded store used when Redis is unavailable.
type StoreConfig struct {
    LocalDir string
}

// S3Config is used for s3:// document references.
type S3Config struct {
    Bucket          string
    Region          string
    AccessKeyID     string
    SecretAccessKey string
}

// WorkspaceConfig controls idle workspace eviction.
type WorkspaceConfig struct {
    MaxIdle       time.Duration
    SweepInterval time.Duration
}

// WebConfig holds dashboard credentials.
type WebConfig struct {
    Username string
    Password string
}

// Config is the top-level configuration.
type Config struct {
    Logging   LoggingConfig
    Axiom     AxiomConfig
    Server    ServerConfig
    Preview   PreviewConfig
    Redis     RedisConfig
    Store     StoreConfig
    S3        S3Config
    Workspace WorkspaceConfig
    Web       WebConfig
}

// Load reads an optional .env file and then builds the configuration.
func Load() Config {
    _ = godotenv.Load()
    return FromEnv()
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
    cfg := Config{}

    // Logging defaults
    cfg.Logging = LoggingConfig{
        Level:      getEnv("LOG_LEVEL", "info"),
        Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
        File:       getEnv("LOG_FILE", "logs/doccompare.log"),
        MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
        MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
        MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
        Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
    }

    // Axiom defaults
    baseDataset := getEnv("AXIOM_DATASET", "dev")
    cfg.Axiom = AxiomConfig{
        Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
        APIKey:        getEnv("AXIOM_API_KEY", ""),
        OrgID:         getEnv("AXIOM_ORG_ID", ""),
        Dataset:       baseDataset + "_doccompare",
        FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
    }

    cfg.Server = ServerConfig{
        Port:              getEnv("PORT", "8080"),
        ReadHeaderTimeout: parseDuration(getEnv("READ_HEADER_TIMEOUT", "10s"), 10*time.Second),
        MaxUploadBytes:    int64(parseInt(getEnv("MAX_UPLOAD_MB", "32"), 32)) << 20,
    }

    cfg.Preview = PreviewConfig{
        ContainerWidth: parseInt(getEnv("PREVIEW_CONTAINER_WIDTH", "800"), 800),
        JPEGQuality:    parseInt(getEnv("PREVIEW_JPEG_QUALITY", "85"), 85),
        PDFPreflight:   strings.ToLower(getEnv("PDF_PREFLIGHT", "warn")),
        FetchTimeout:   parseDuration(getEnv("FETCH_TIMEOUT", "60s"), 60*time.Second),
        FetchMaxBytes:  int64(parseInt(getEnv("FETCH_MAX_MB", "64"), 64)) << 20,
        MaxRenders:     parseInt(getEnv("PDF_MAX_CONCURRENT_RENDERS", "2"), 2),
    }
    if cfg.Preview.ContainerWidth <= 0 { cfg.Preview.ContainerWidth = 800 }
    if cfg.Preview.JPEGQuality <= 0 || cfg.Preview.JPEGQuality > 100 { cfg.Preview.JPEGQuality = 85 }
    switch cfg.Preview.PDFPreflight {
    case "off", "warn", "strict":
    default:
        cfg.Preview.PDFPreflight = "warn"
    }

    cfg.Redis = RedisConfig{
        Enabled:   parseBool(getEnv("REDIS_ENABLED", "true")),
        URL:       getEnv("REDIS_URL", "redis://localhost:6379"),
        ReportTTL: parseDuration(getEnv("REPORT_TTL", "24h"), 24*time.Hour),
    }

    cfg.Store = StoreConfig{
        LocalDir: getEnv("COMPARISON_STORE_DIR", "data/comparisons"),
    }

    cfg.S3 = S3Config{
        Bucket:          getEnv("AWS_S3_BUCKET", ""),
        Region:          getEnv("AWS_REGION", ""),
        AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
        SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
    }

    cfg.Workspace = WorkspaceConfig{
        MaxIdle:       parseDuration(getEnv("WORKSPACE_MAX_IDLE", "2h"), 2*time.Hour),
        SweepInterval: parseDuration(getEnv("WORKSPACE_SWEEP_INTERVAL", "5m"), 5*time.Minute),
    }

    cfg.Web = WebConfig{
        Username: getEnv("WEB_USERNAME", ""),
        Password: getEnv("WEB_PASSWORD", ""),
    }

    return cfg
}

// Helpers
func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseInt(s string, def int) int {
    if s == "" { return def }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return def
}

func parseBool(s string) bool {
    v := strings.ToLower(strings.TrimSpace(s))
    return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
    if s == "" { return def }
    if d, err := time.ParseDuration(s); err == nil { return d }
    return def
}

func devDefaultPretty() string {
    env := strings.ToLower(os.Getenv("ENVIRONMENT"))
    if env == "dev" || env == "development" || env == "local" { return "true" }
    return "false"
}
