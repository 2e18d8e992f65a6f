package cache

import (
	"context"
	"encoding/json"

	goredis "github.com/redis/go-redis/v9"

	"LeafPanel/storage/redis"
)

// 批量任务控制信号走 Redis pub/sub，API 进程发布，调度器进程的 worker 订阅
// 信号只用于提前打断等待，数据库里的任务状态才是事实来源

const batchControlChannel = "batch:control"

// BatchControlAction 控制动作
type BatchControlAction string

const (
	BatchControlPause  BatchControlAction = "pause"
	BatchControlResume BatchControlAction = "resume"
	BatchControlCancel BatchControlAction = "cancel"
)

// BatchControlSignal 控制信号
type BatchControlSignal struct {
	TaskID int64              `json:"task_id"`
	Action BatchControlAction `json:"action"`
}

// PublishBatchControl 发布控制信号
func PublishBatchControl(ctx context.Context, taskID int64, action BatchControlAction) error {
	payload, err := json.Marshal(BatchControlSignal{TaskID: taskID, Action: action})
	if err != nil {
		return err
	}

	channel := redis.Key(batchControlChannel)
	return redis.Client().Publish(ctx, channel, payload).Err()
}

// SubscribeBatchControl 订阅控制信号，调用方负责 Close
func SubscribeBatchControl(ctx context.Context) *goredis.PubSub {
	channel := redis.Key(batchControlChannel)
	return redis.Client().Subscribe(ctx, channel)
}

// ParseBatchControlSignal 解析信号负载
func ParseBatchControlSignal(payload string) (*BatchControlSignal, error) {
	var signal BatchControlSignal
	if err := json.Unmarshal([]byte(payload), &signal); err != nil {
		return nil, err
	}
	return &signal, nil
}
