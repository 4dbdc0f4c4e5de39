package store

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"

    "github.com/dgraph-io/badger/v4"
)

// LocalComparisonStore keeps saved comparisons in an embedded BadgerDB. It
// is the fallback when Redis is disabled or unreachable.
type LocalComparisonStore struct {
    db *badger.DB
}

// OpenLocal opens (or creates) a store under dir. An empty dir keeps
// everything in memory.
func OpenLocal(dir string) (*LocalComparisonStore, error) {
    opts := badger.DefaultOptions(dir).WithLogger(nil)
    if dir == "" {
        opts = opts.WithInMemory(true)
    }
    db, err := badger.Open(opts)
    if err != nil {
        return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
    }
    return &LocalComparisonStore{db: db}, nil
}

func (s *LocalComparisonStore) Close() error { return s.db.Close() }

func localRecordKey(id string) []byte { return []byte("comparison:" + id) }

func localUserPrefix(userID string) []byte { return []byte("user:" + userID + ":") }

// localIndexKey sorts a user's records by creation time.
func localIndexKey(c *SavedComparison) []byte {
    return []byte(fmt.Sprintf("user:%s:%020d:%s", c.UserID, c.CreatedAt.UnixNano(), c.ID))
}

// Save stores c, assigning ID and timestamps, and indexes it under its user.
func (s *LocalComparisonStore) Save(_ context.Context, c *SavedComparison) error {
    if err := prepare(c); err != nil {
        return err
    }
    val, err := json.Marshal(c)
    if err != nil {
        return err
    }
    return s.db.Update(func(txn *badger.Txn) error {
        if err := txn.Set(localRecordKey(c.ID), val); err != nil {
            return err
        }
        return txn.Set(localIndexKey(c), []byte(c.ID))
    })
}

// Get returns a single record.
func (s *LocalComparisonStore) Get(_ context.Context, id string) (*SavedComparison, error) {
    var c *SavedComparison
    err := s.db.View(func(txn *badger.Txn) error {
        var err error
        c, err = getLocal(txn, id)
        return err
    })
    return c, err
}

func getLocal(txn *badger.Txn, id string) (*SavedComparison, error) {
    item, err := txn.Get(localRecordKey(id))
    if errors.Is(err, badger.ErrKeyNotFound) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    var c SavedComparison
    if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &c) }); err != nil {
        return nil, err
    }
    return &c, nil
}

// List returns a user's records, newest first.
func (s *LocalComparisonStore) List(_ context.Context, userID string) ([]*SavedComparison, error) {
    out := []*SavedComparison{}
    err := s.db.View(func(txn *badger.Txn) error {
        prefix := localUserPrefix(userID)
        it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
        defer it.Close()
        for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
            id, err := it.Item().ValueCopy(nil)
            if err != nil {
                return err
            }
            c, err := getLocal(txn, string(id))
            if errors.Is(err, ErrNotFound) {
                continue
            }
            if err != nil {
                return err
            }
            out = append(out, c)
        }
        return nil
    })
    for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
        out[i], out[j] = out[j], out[i]
    }
    return out, err
}

// Delete removes a record owned by userID.
func (s *LocalComparisonStore) Delete(_ context.Context, userID, id string) error {
    return s.db.Update(func(txn *badger.Txn) error {
        c, err := getLocal(txn, id)
        if err != nil {
            return err
        }
        if c.UserID != userID {
            return ErrNotFound
        }
        if err := txn.Delete(localRecordKey(id)); err != nil {
            return err
        }
        return txn.Delete(localIndexKey(c))
    })
}
