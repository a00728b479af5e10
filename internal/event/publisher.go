package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Event types published by the tutoring service.
const (
	SessionStarted   = "tutor.session.started"
	AnswerEvaluated  = "tutor.answer.evaluated"
	QuestionAdvanced = "tutor.question.advanced"
	ProgressUpdated  = "tutor.progress.updated"
	ProgressReset    = "tutor.progress.reset"
	QuestionCreated  = "tutor.question.created"
	QuestionUpdated  = "tutor.question.updated"
	QuestionDeleted  = "tutor.question.deleted"
	ContentCreated   = "tutor.content.created"
)

type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewEventPublisher(amqpURL, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one event to the topic exchange, using the event type as
// the routing key. Failures are the caller's to ignore; events are
// best-effort notifications, never part of the request contract.
func (p *EventPublisher) Publish(eventType string, payload interface{}) error {
	event := map[string]interface{}{
		"id":        uuid.NewString(),
		"type":      eventType,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"payload":   payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	log.Printf("[EVENT] %s: %v", eventType, payload)

	return p.channel.Publish(
		p.exchange,
		eventType, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *EventPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
