package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	StatusUp   = "up"
	StatusDown = "down"
)

// HealthCheck pings one external dependency.
type HealthCheck func(ctx context.Context) error

// HealthReport is the result of running every registered check.
type HealthReport struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	CheckedAt time.Time         `json:"checkedAt"`
}

// RunHealthChecks runs the checks concurrently with a shared timeout.
func RunHealthChecks(ctx context.Context, checks map[string]HealthCheck) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	report := HealthReport{
		Status:    StatusUp,
		Checks:    make(map[string]string, len(checks)),
		CheckedAt: time.Now(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, check := range checks {
		wg.Add(1)
		go func(name string, check HealthCheck) {
			defer wg.Done()
			status := StatusUp
			if err := check(ctx); err != nil {
				status = StatusDown
			}
			mu.Lock()
			report.Checks[name] = status
			if status == StatusDown {
				report.Status = StatusDown
			}
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return report
}

// RedisCheck pings a Redis client.
func RedisCheck(client *redis.Client) HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// MongoCheck pings a MongoDB client.
func MongoCheck(client *mongo.Client) HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}
