package store

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"
    redis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for missing records and for records owned by
// another user.
var ErrNotFound = errors.New("comparison not found or access denied")

// SavedComparison is a comparison a user chose to keep. Documents are
// referenced by name, type and url only.
type SavedComparison struct {
    ID            string    `json:"id"`
    UserID        string    `json:"user_id"`
    Title         string    `json:"title"`
    Description   string    `json:"description"`
    DocumentAName string    `json:"document_a_name"`
    DocumentBName string    `json:"document_b_name"`
    DocumentAType string    `json:"document_a_type"`
    DocumentBType string    `json:"document_b_type"`
    DocumentAURL  string    `json:"document_a_url,omitempty"`
    DocumentBURL  string    `json:"document_b_url,omitempty"`
    ResultsJSON   string    `json:"results_json"`
    CreatedAt     time.Time `json:"created_at"`
    UpdatedAt     time.Time `json:"updated_at"`
}

type ComparisonStore struct {
    client *redis.Client
}

func NewComparisonStore(client *redis.Client) *ComparisonStore {
    return &ComparisonStore{client: client}
}

func (s *ComparisonStore) recordKey(id string) string { return fmt.Sprintf("comparison:%s", id) }
func (s *ComparisonStore) userKey(userID string) string {
    return fmt.Sprintf("user:%s:comparisons", userID)
}

// prepare validates c and fills in the defaults shared by every backend.
func prepare(c *SavedComparison) error {
    if strings.TrimSpace(c.UserID) == "" { return fmt.Errorf("user id is required") }
    if strings.TrimSpace(c.Title) == "" { c.Title = "Untitled Comparison" }
    if c.ResultsJSON == "" { c.ResultsJSON = "{}" }
    now := time.Now().UTC()
    if c.ID == "" { c.ID = uuid.New().String() }
    if c.CreatedAt.IsZero() { c.CreatedAt = now }
    c.UpdatedAt = now
    return nil
}

// Save stores c, assigning ID and timestamps, and indexes it under its user.
func (s *ComparisonStore) Save(ctx context.Context, c *SavedComparison) error {
    if err := prepare(c); err != nil { return err }

    m := map[string]interface{}{
        "user_id":         c.UserID,
        "title":           c.Title,
        "description":     c.Description,
        "document_a_name": c.DocumentAName,
        "document_b_name": c.DocumentBName,
        "document_a_type": c.DocumentAType,
        "document_b_type": c.DocumentBType,
        "document_a_url":  c.DocumentAURL,
        "document_b_url":  c.DocumentBURL,
        "results_json":    c.ResultsJSON,
        "created_at":      c.CreatedAt.Format(time.RFC3339Nano),
        "updated_at":      c.UpdatedAt.Format(time.RFC3339Nano),
    }
    pipe := s.client.TxPipeline()
    pipe.HSet(ctx, s.recordKey(c.ID), m)
    pipe.ZAdd(ctx, s.userKey(c.UserID), redis.Z{Score: float64(c.CreatedAt.UnixNano()), Member: c.ID})
    _, err := pipe.Exec(ctx)
    return err
}

// Get returns a single record.
func (s *ComparisonStore) Get(ctx context.Context, id string) (*SavedComparison, error) {
    res, err := s.client.HGetAll(ctx, s.recordKey(id)).Result()
    if err != nil { return nil, err }
    if len(res) == 0 { return nil, ErrNotFound }
    c := &SavedComparison{
        ID:            id,
        UserID:        res["user_id"],
        Title:         res["title"],
        Description:   res["description"],
        DocumentAName: res["document_a_name"],
        DocumentBName: res["document_b_name"],
        DocumentAType: res["document_a_type"],
        DocumentBType: res["document_b_type"],
        DocumentAURL:  res["document_a_url"],
        DocumentBURL:  res["document_b_url"],
        ResultsJSON:   res["results_json"],
    }
    if v := res["created_at"]; v != "" {
        if t, err := time.Parse(time.RFC3339Nano, v); err == nil { c.CreatedAt = t }
    }
    if v := res["updated_at"]; v != "" {
        if t, err := time.Parse(time.RFC3339Nano, v); err == nil { c.UpdatedAt = t }
    }
    return c, nil
}

// List returns a user's records, newest first.
func (s *ComparisonStore) List(ctx context.Context, userID string) ([]*SavedComparison, error) {
    ids, err := s.client.ZRevRange(ctx, s.userKey(userID), 0, -1).Result()
    if err != nil { return nil, err }
    out := make([]*SavedComparison, 0, len(ids))
    for _, id := range ids {
        c, err := s.Get(ctx, id)
        if errors.Is(err, ErrNotFound) { continue }
        if err != nil { return out, err }
        out = append(out, c)
    }
    return out, nil
}

// Delete removes a record owned by userID.
func (s *ComparisonStore) Delete(ctx context.Context, userID, id string) error {
    owner, err := s.client.HGet(ctx, s.recordKey(id), "user_id").Result()
    if err == redis.Nil { return ErrNotFound }
    if err != nil { return err }
    if owner != userID { return ErrNotFound }
    pipe := s.client.TxPipeline()
    pipe.Del(ctx, s.recordKey(id))
    pipe.ZRem(ctx, s.userKey(userID), id)
    _, err = pipe.Exec(ctx)
    return err
}
