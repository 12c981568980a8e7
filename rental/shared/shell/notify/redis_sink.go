package notify

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

const (
	logMsgRedisEnqueueFailed = "pushing notification to redis failed"
	logAttrUserID            = "user_id"
	logAttrType              = "type"
	logAttrMessage           = "message"
	logAttrQueue             = "queue"
	logAttrError             = "error"
)

// listPusher is the part of redis.Cmdable the sink uses.
type listPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisSink appends every notification as a JSON document to a Redis list,
// for a delivery worker outside of this process to pick up.
type RedisSink struct {
	client listPusher
	queue  string
	logger shell.Logger
	now    func() time.Time
}

// NewRedisSink creates a RedisSink that pushes to the list named queue.
func NewRedisSink(client redis.Cmdable, queue string, logger shell.Logger) RedisSink {
	return RedisSink{client: client, queue: queue, logger: logger, now: time.Now}
}

// Enqueue pushes the notification. Failures are logged and swallowed.
func (s RedisSink) Enqueue(ctx context.Context, userID core.UserIDString, message string, kind core.NotificationType) {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(core.Notification{
		UserID:    userID,
		Message:   message,
		Type:      kind,
		Timestamp: s.now().UTC(),
	})
	if err == nil {
		err = s.client.RPush(ctx, s.queue, data).Err()
	}

	if err != nil && s.logger != nil {
		s.logger.Warn(logMsgRedisEnqueueFailed, logAttrQueue, s.queue, logAttrUserID, userID, logAttrError, err.Error())
	}
}

// NewRedisClient parses redisURL and returns a client that answered a ping.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
