package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeCases    Exchange = "caseflow.cases"
	ExchangeOrdering Exchange = "caseflow.ordering"
)

// Queues — имена очередей.
const (
	QueueCaseEvents     Queue = "cases.events"
	QueueOrderingEvents Queue = "ordering.events"
)

// Routing keys.
const (
	RoutingKeyCreated    RoutingKey = "created"
	RoutingKeyUpdated    RoutingKey = "updated"
	RoutingKeyDeleted    RoutingKey = "deleted"
	RoutingKeyReordered  RoutingKey = "reordered"
	RoutingKeyRebalanced RoutingKey = "rebalanced"
)

// DeclareTopology объявляет exchanges, очереди и bindings.
// Объявления идемпотентны, повторный вызов безопасен.
func DeclareTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		exchanges := []Exchange{ExchangeCases, ExchangeOrdering}
		for _, ex := range exchanges {
			err := ch.ExchangeDeclare(
				string(ex), // name
				"direct",   // type
				true,       // durable
				false,      // auto-delete
				false,      // internal
				false,      // no-wait
				nil,        // arguments
			)
			if err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		queues := []Queue{QueueCaseEvents, QueueOrderingEvents}
		for _, q := range queues {
			_, err := ch.QueueDeclare(
				string(q), // name
				true,      // durable
				false,     // auto-delete
				false,     // exclusive
				false,     // no-wait
				nil,       // arguments
			)
			if err != nil {
				return fmt.Errorf("declare queue %s: %w", q, err)
			}
		}

		bindings := []struct {
			queue      Queue
			routingKey RoutingKey
			exchange   Exchange
		}{
			{QueueCaseEvents, RoutingKeyCreated, ExchangeCases},
			{QueueCaseEvents, RoutingKeyUpdated, ExchangeCases},
			{QueueCaseEvents, RoutingKeyDeleted, ExchangeCases},
			{QueueCaseEvents, RoutingKeyReordered, ExchangeCases},
			{QueueOrderingEvents, RoutingKeyRebalanced, ExchangeOrdering},
		}

		for _, b := range bindings {
			err := ch.QueueBind(
				string(b.queue),      // queue name
				string(b.routingKey), // routing key
				string(b.exchange),   // exchange
				false,                // no-wait
				nil,                  // arguments
			)
			if err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}

		return nil
	})
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Caseflow RabbitMQ Topology:

    caseflow.cases (direct)
    └── cases.events [routing: created, updated, deleted, reordered]
            Consumer: интеграции (CI, отчётность)

    caseflow.ordering (direct)
    └── ordering.events [routing: rebalanced]
            Consumer: интеграции
  `
}
