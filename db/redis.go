package db

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const (
	LatestSignalKey = "trading:signal:latest"
	SignalQueueKey  = "trading:signal:queue"

	// signalQueueMax bounds the queue so an absent consumer cannot
	// grow it forever.
	signalQueueMax = 100
)

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return errors.New("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// PublishSignal stores the latest cycle payload under a freshness TTL
// and appends it to the bounded queue read by the decision layer.
func PublishSignal(payload string, ttl time.Duration) error {
	if err := Redis.Set(Ctx, LatestSignalKey, payload, ttl).Err(); err != nil {
		return err
	}
	if err := Redis.LPush(Ctx, SignalQueueKey, payload).Err(); err != nil {
		return err
	}
	return Redis.LTrim(Ctx, SignalQueueKey, 0, signalQueueMax-1).Err()
}
