package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus-hub/grading-system/internal/domain/notification"
)

// Hash fields of the delivery stats key.
const (
	fieldAttempts    = "total_attempts"
	fieldSuccesses   = "total_successes"
	fieldFailures    = "total_failures"
	fieldLastAttempt = "last_attempt"
	fieldLastSuccess = "last_success"
	fieldLastError   = "last_error"
)

// DeliveryTracker implements notification.DeliveryTracker on a Redis hash.
type DeliveryTracker struct {
	rdb redis.Cmdable
	key string
}

var _ notification.DeliveryTracker = (*DeliveryTracker)(nil)

// NewDeliveryTracker creates a tracker keyed by service name.
func NewDeliveryTracker(rdb redis.Cmdable, service string) *DeliveryTracker {
	return &DeliveryTracker{rdb: rdb, key: StatsKey(service)}
}

// StatsKey returns the hash key holding delivery counters for a service.
func StatsKey(service string) string {
	return PrefixWebhook + service + ":delivery"
}

// RecordAttempt implements notification.DeliveryTracker.
func (t *DeliveryTracker) RecordAttempt(ctx context.Context, at time.Time) error {
	_, err := t.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, t.key, fieldAttempts, 1)
		p.HSet(ctx, t.key, fieldLastAttempt, at.UTC().Format(time.RFC3339Nano))
		return nil
	})
	return wrap("record attempt", err)
}

// RecordSuccess implements notification.DeliveryTracker. It clears the last error.
func (t *DeliveryTracker) RecordSuccess(ctx context.Context, at time.Time) error {
	_, err := t.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, t.key, fieldSuccesses, 1)
		p.HSet(ctx, t.key, fieldLastSuccess, at.UTC().Format(time.RFC3339Nano))
		p.HDel(ctx, t.key, fieldLastError)
		return nil
	})
	return wrap("record success", err)
}

// RecordFailure implements notification.DeliveryTracker.
func (t *DeliveryTracker) RecordFailure(ctx context.Context, reason string) error {
	_, err := t.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, t.key, fieldFailures, 1)
		p.HSet(ctx, t.key, fieldLastError, reason)
		return nil
	})
	return wrap("record failure", err)
}

// Stats implements notification.DeliveryTracker.
func (t *DeliveryTracker) Stats(ctx context.Context) (notification.DeliveryStats, error) {
	fields, err := t.rdb.HGetAll(ctx, t.key).Result()
	if err != nil {
		return notification.DeliveryStats{}, wrap("read stats", err)
	}
	return parseStats(fields), nil
}

// parseStats converts the raw hash into stats. Malformed fields read as zero.
func parseStats(fields map[string]string) notification.DeliveryStats {
	var st notification.DeliveryStats
	st.TotalAttempts, _ = strconv.ParseInt(fields[fieldAttempts], 10, 64)
	st.TotalSuccesses, _ = strconv.ParseInt(fields[fieldSuccesses], 10, 64)
	st.TotalFailures, _ = strconv.ParseInt(fields[fieldFailures], 10, 64)
	st.LastAttempt = parseTime(fields[fieldLastAttempt])
	st.LastSuccess = parseTime(fields[fieldLastSuccess])
	if e, ok := fields[fieldLastError]; ok {
		st.LastError = &e
	}
	return st
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("redis: %s: %w", op, err)
}
