package cache

import (
	"context"
	"fmt"
	"time"

	"LeafPanel/storage/redis"
)

// 通过 SetNX 实现分布式锁，保证同一账号同一类操作单飞

const (
	lockPrefix = "lock"

	// CheckinLockTTL 签到锁的保底过期时间
	CheckinLockTTL = 10 * time.Minute
	// RedeemLockTTL 兑换锁的保底过期时间
	RedeemLockTTL = 5 * time.Minute
)

// CheckinLockKey 账号签到锁
func CheckinLockKey(accountID int64) string {
	return fmt.Sprintf("checkin:%d", accountID)
}

// RedeemLockKey 账号兑换锁，手动兑换和批量任务共用
func RedeemLockKey(accountID int64) string {
	return fmt.Sprintf("redeem:%d", accountID)
}

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	result, err := redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

func Unlock(ctx context.Context, key string) error {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}
