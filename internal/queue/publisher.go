package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/table-reservation/internal/model"
)

// AMQPNotifier publishes reservation events to RabbitMQ.  It dials per
// publish so a broker outage never wedges the booking path; errors are
// logged and returned so the caller can ignore them.
type AMQPNotifier struct {
	URL string
}

// NewAMQPNotifier returns a notifier publishing to the broker at url.
func NewAMQPNotifier(url string) *AMQPNotifier { return &AMQPNotifier{URL: url} }

func (n *AMQPNotifier) ReservationConfirmed(ctx context.Context, r model.Reservation) error {
	return n.publish(ctx, ConfirmedQueue, EventFrom(r))
}

func (n *AMQPNotifier) ReservationRefunded(ctx context.Context, r model.Reservation) error {
	return n.publish(ctx, RefundedQueue, EventFrom(r))
}

// publish sends event as a persistent JSON message to the named durable
// queue through the default exchange.
func (n *AMQPNotifier) publish(ctx context.Context, queue string, event ReservationEvent) error {
	conn, err := amqp.Dial(n.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
