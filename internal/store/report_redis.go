package store

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    redis "github.com/redis/go-redis/v9"

    "github.com/local/doccompare/internal/scoring"
)

// ReportCache keeps the latest report per workspace.
type ReportCache struct {
    client *redis.Client
    keyNS  string
    ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
    return &ReportCache{client: client, keyNS: "workspace", ttl: ttl}
}

func (c *ReportCache) key(workspaceID string) string {
    return fmt.Sprintf("%s:%s:report", c.keyNS, workspaceID)
}

// SaveReport overwrites the cached report and refreshes its TTL.
func (c *ReportCache) SaveReport(ctx context.Context, workspaceID string, report *scoring.Report) error {
    b, err := json.Marshal(report)
    if err != nil { return fmt.Errorf("marshal report: %w", err) }
    return c.client.Set(ctx, c.key(workspaceID), b, c.ttl).Err()
}

// DeleteReport drops the cached report.
func (c *ReportCache) DeleteReport(ctx context.Context, workspaceID string) error {
    return c.client.Del(ctx, c.key(workspaceID)).Err()
}
