package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeCaseCreated     MessageType = "case.created"
	MessageTypeCaseUpdated     MessageType = "case.updated"
	MessageTypeCaseDeleted     MessageType = "case.deleted"
	MessageTypeCaseReordered   MessageType = "case.reordered"
	MessageTypeOrderRebalanced MessageType = "order.rebalanced"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// CaseEventPayload — payload для событий жизненного цикла тест-кейса.
type CaseEventPayload struct {
	CaseCode string    `json:"case_id"`
	ActorID  uuid.UUID `json:"actor_id,omitempty"`
}

// CasesReorderedPayload — payload для события переупорядочивания.
type CasesReorderedPayload struct {
	CaseCodes []string  `json:"case_ids"`
	ActorID   uuid.UUID `json:"actor_id,omitempty"`
}

// OrderRebalancedPayload — payload для события ребалансировки порядка.
type OrderRebalancedPayload struct {
	Updated int64 `json:"updated"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishCaseCreated публикует событие о создании тест-кейса.
func (p *Publisher) PublishCaseCreated(ctx context.Context, caseCode string, actorID uuid.UUID) error {
	return p.publishCaseEvent(ctx, MessageTypeCaseCreated, RoutingKeyCreated, caseCode, actorID)
}

// PublishCaseUpdated публикует событие об изменении тест-кейса.
func (p *Publisher) PublishCaseUpdated(ctx context.Context, caseCode string, actorID uuid.UUID) error {
	return p.publishCaseEvent(ctx, MessageTypeCaseUpdated, RoutingKeyUpdated, caseCode, actorID)
}

// PublishCaseDeleted публикует событие об удалении тест-кейса.
func (p *Publisher) PublishCaseDeleted(ctx context.Context, caseCode string, actorID uuid.UUID) error {
	return p.publishCaseEvent(ctx, MessageTypeCaseDeleted, RoutingKeyDeleted, caseCode, actorID)
}

// PublishCasesReordered публикует событие о переупорядочивании кейсов.
func (p *Publisher) PublishCasesReordered(ctx context.Context, caseCodes []string, actorID uuid.UUID) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeCaseReordered,
		Payload:   CasesReorderedPayload{CaseCodes: caseCodes, ActorID: actorID},
		Timestamp: time.Now(),
	}
	return p.Publish(ctx, ExchangeCases, RoutingKeyReordered, msg)
}

// PublishOrderRebalanced публикует событие о ребалансировке ключей порядка.
func (p *Publisher) PublishOrderRebalanced(ctx context.Context, updated int64) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeOrderRebalanced,
		Payload:   OrderRebalancedPayload{Updated: updated},
		Timestamp: time.Now(),
	}
	return p.Publish(ctx, ExchangeOrdering, RoutingKeyRebalanced, msg)
}

func (p *Publisher) publishCaseEvent(ctx context.Context, msgType MessageType, key RoutingKey, caseCode string, actorID uuid.UUID) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   CaseEventPayload{CaseCode: caseCode, ActorID: actorID},
		Timestamp: time.Now(),
	}
	return p.Publish(ctx, ExchangeCases, key, msg)
}
