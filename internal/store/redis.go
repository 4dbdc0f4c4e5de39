package store

import (
    "context"

    redis "github.com/redis/go-redis/v9"
)

// Open parses redisURL and pings the server.
func Open(redisURL string) (*redis.Client, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil { return nil, err }
    c := redis.NewClient(opt)
    if err := c.Ping(context.Background()).Err(); err != nil {
        c.Close()
        return nil, err
    }
    return c, nil
}
