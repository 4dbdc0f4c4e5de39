package store

import (
    "context"
    "encoding/json"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    redis "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/doccompare/internal/scoring"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
    t.Helper()
    mr := miniredis.RunT(t)
    c, err := Open("redis://" + mr.Addr())
    require.NoError(t, err)
    t.Cleanup(func() { c.Close() })
    return mr, c
}

func TestOpen_BadURL(t *testing.T) {
    _, err := Open("not a url")
    assert.Error(t, err)
}

func TestReportCache(t *testing.T) {
    mr, c := newRedis(t)
    cache := NewReportCache(c, time.Hour)
    ctx := context.Background()

    report := scoring.ComputeReport(scoring.DefaultDataset())
    require.NoError(t, cache.SaveReport(ctx, "ws1", &report))
    assert.True(t, mr.Exists("workspace:ws1:report"))
    assert.Equal(t, time.Hour, mr.TTL("workspace:ws1:report"))

    raw, err := mr.Get("workspace:ws1:report")
    require.NoError(t, err)
    var got scoring.Report
    require.NoError(t, json.Unmarshal([]byte(raw), &got))
    assert.Equal(t, report.Overall, got.Overall)
    assert.Equal(t, report.CategoryScores, got.CategoryScores)

    mr.FastForward(2 * time.Hour)
    assert.False(t, mr.Exists("workspace:ws1:report"))

    require.NoError(t, cache.SaveReport(ctx, "ws2", &report))
    require.NoError(t, cache.DeleteReport(ctx, "ws2"))
    assert.False(t, mr.Exists("workspace:ws2:report"))
    require.NoError(t, cache.DeleteReport(ctx, "missing"))
}

type comparisonBackend interface {
    Save(ctx context.Context, c *SavedComparison) error
    Get(ctx context.Context, id string) (*SavedComparison, error)
    List(ctx context.Context, userID string) ([]*SavedComparison, error)
    Delete(ctx context.Context, userID, id string) error
}

func backends(t *testing.T) map[string]comparisonBackend {
    _, c := newRedis(t)
    local, err := OpenLocal("")
    require.NoError(t, err)
    t.Cleanup(func() { local.Close() })
    return map[string]comparisonBackend{
        "redis":  NewComparisonStore(c),
        "badger": local,
    }
}

func TestComparisonStore_SaveListDelete(t *testing.T) {
    for name, s := range backends(t) {
        t.Run(name, func(t *testing.T) { exerciseSaveListDelete(t, s) })
    }
}

func exerciseSaveListDelete(t *testing.T, s comparisonBackend) {
    ctx := context.Background()

    first := &SavedComparison{UserID: "alice", DocumentAName: "a.pdf", DocumentBName: "b.pdf", DocumentAType: "pdf", DocumentBType: "pdf"}
    require.NoError(t, s.Save(ctx, first))
    assert.NotEmpty(t, first.ID)
    assert.Equal(t, "Untitled Comparison", first.Title)
    assert.Equal(t, "{}", first.ResultsJSON)

    second := &SavedComparison{UserID: "alice", Title: "Q3 proposals", CreatedAt: first.CreatedAt.Add(time.Second)}
    require.NoError(t, s.Save(ctx, second))
    require.NoError(t, s.Save(ctx, &SavedComparison{UserID: "bob", Title: "other"}))

    list, err := s.List(ctx, "alice")
    require.NoError(t, err)
    require.Len(t, list, 2)
    assert.Equal(t, second.ID, list[0].ID, "newest first")
    assert.Equal(t, first.ID, list[1].ID)
    assert.Equal(t, "a.pdf", list[1].DocumentAName)
    assert.WithinDuration(t, first.CreatedAt, list[1].CreatedAt, time.Millisecond)

    assert.ErrorIs(t, s.Delete(ctx, "bob", first.ID), ErrNotFound)
    require.NoError(t, s.Delete(ctx, "alice", first.ID))
    assert.ErrorIs(t, s.Delete(ctx, "alice", first.ID), ErrNotFound)

    _, err = s.Get(ctx, first.ID)
    assert.ErrorIs(t, err, ErrNotFound)
    list, err = s.List(ctx, "alice")
    require.NoError(t, err)
    assert.Len(t, list, 1)
}

func TestComparisonStore_RequiresUser(t *testing.T) {
    for name, s := range backends(t) {
        t.Run(name, func(t *testing.T) {
            assert.Error(t, s.Save(context.Background(), &SavedComparison{Title: "x"}))
        })
    }
}

func TestLocalComparisonStore_PersistsAcrossReopen(t *testing.T) {
    dir := t.TempDir()
    ctx := context.Background()

    s, err := OpenLocal(dir)
    require.NoError(t, err)
    rec := &SavedComparison{UserID: "alice", Title: "kept"}
    require.NoError(t, s.Save(ctx, rec))
    require.NoError(t, s.Close())

    s, err = OpenLocal(dir)
    require.NoError(t, err)
    defer s.Close()
    got, err := s.Get(ctx, rec.ID)
    require.NoError(t, err)
    assert.Equal(t, "kept", got.Title)
}
