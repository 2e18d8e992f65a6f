package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"LeafPanel/config"
)

const (
	// NotifyExchange 通知事件交换机，x-delayed-message 插件支持延迟投递
	NotifyExchange = "leafpanel.notify.delayed"
	// NotifyQueue 通知事件队列
	NotifyQueue = "leafpanel.notify.events"
	// NotifyRoutingKey 通知事件路由键
	NotifyRoutingKey = "notify.events"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		conn, connErr = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if connErr != nil {
			return
		}

		ch, err := conn.Channel()
		if err != nil {
			connErr = err
			return
		}
		defer ch.Close()

		connErr = declareTopology(ch)
	})

	return connErr
}

// declareTopology 声明交换机和队列，幂等
func declareTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		NotifyExchange,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "direct"},
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", NotifyExchange, err)
	}

	if _, err := ch.QueueDeclare(NotifyQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", NotifyQueue, err)
	}

	if err := ch.QueueBind(NotifyQueue, NotifyRoutingKey, NotifyExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", NotifyQueue, err)
	}

	return nil
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
