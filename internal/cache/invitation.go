package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"LeafPanel/pkg/leaflow"
	"LeafPanel/storage/redis"
)

const (
	invitationPrefix = "invitation:list"

	// 邀请码列表是远端数据的快照，显式 refresh 才会绕过
	invitationTTL = 10 * time.Minute
)

// GetInvitationList 读取账号的邀请码列表缓存
func GetInvitationList(ctx context.Context, accountID int64) (*leaflow.InvitationList, error) {
	key := redis.Key(invitationPrefix, fmt.Sprintf("%d", accountID))

	val, err := redis.Client().Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var list leaflow.InvitationList
	if err := json.Unmarshal([]byte(val), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SetInvitationList 写入邀请码列表缓存
func SetInvitationList(ctx context.Context, accountID int64, list *leaflow.InvitationList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}

	key := redis.Key(invitationPrefix, fmt.Sprintf("%d", accountID))
	return redis.Client().Set(ctx, key, data, invitationTTL).Err()
}

// InvalidateInvitationList 创建邀请码后失效缓存
func InvalidateInvitationList(ctx context.Context, accountID int64) error {
	key := redis.Key(invitationPrefix, fmt.Sprintf("%d", accountID))
	return redis.Client().Del(ctx, key).Err()
}
