package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"LeafPanel/storage/redis"
)

const (
	checkinDelayPrefix     = "checkin:delay"
	messageProcessedPrefix = "message:processed"

	delayTTL     = 24 * time.Hour
	processedTTL = 48 * time.Hour
)

// GetCheckinDelay 读取当日为账号抽取的随机延迟（秒）
// 返回 (delay, found, err)，一天只抽一次，避免调度器每轮重抽
func GetCheckinDelay(ctx context.Context, date string, accountID int64) (int, bool, error) {
	key := redis.Key(checkinDelayPrefix, date, fmt.Sprintf("%d", accountID))

	val, err := redis.Client().Get(ctx, key).Result()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	delay, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return delay, true, nil
}

// SetCheckinDelay 记录当日随机延迟
func SetCheckinDelay(ctx context.Context, date string, accountID int64, delaySeconds int) error {
	key := redis.Key(checkinDelayPrefix, date, fmt.Sprintf("%d", accountID))
	return redis.Client().Set(ctx, key, delaySeconds, delayTTL).Err()
}

// TryMarkMessageProcessing 消息幂等检查
// 返回 true 表示首次处理，false 表示已处理或正在处理
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = processedTTL
	}
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().SetNX(ctx, key, 1, ttl).Result()
}

// UnmarkMessageProcessing 处理失败时清除标记，允许重试
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}
