package notifier

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/usecase"
)

const publishTimeout = 5 * time.Second

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes bill reminder schedule and cancel messages to a
// durable direct exchange. A downstream worker delivers them.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	queue    string
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

var _ usecase.Notifier = (*AMQPNotifier)(nil)

// DialAMQP connects to url and declares the exchange and queue.
func DialAMQP(url, exchange, queue string, logger zerolog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n, err := newAMQPNotifier(ch, exchange, queue, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	n.conn = conn
	return n, nil
}

func newAMQPNotifier(ch channel, exchange, queue string, logger zerolog.Logger) (*AMQPNotifier, error) {
	n := &AMQPNotifier{
		channel:  ch,
		exchange: exchange,
		queue:    queue,
		logger:   logger,
		now:      time.Now,
		newID:    newNotificationID,
	}
	if err := n.setup(); err != nil {
		ch.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return n, nil
}

func (n *AMQPNotifier) setup() error {
	if err := n.channel.ExchangeDeclare(n.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := n.channel.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// routing key is the queue name
	if err := n.channel.QueueBind(n.queue, n.queue, n.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// ScheduleBillReminder publishes a schedule message and returns its notification id.
func (n *AMQPNotifier) ScheduleBillReminder(ctx context.Context, reminder usecase.BillReminderNotice) (string, error) {
	id := n.newID()
	if err := n.publish(ctx, Message{Type: TypeSchedule, NotificationID: id, Reminder: &reminder}); err != nil {
		return "", err
	}

	n.logger.Debug().
		Str("notification_id", id).
		Str("bill_id", reminder.BillID).
		Time("remind_at", reminder.RemindAt).
		Msg("bill reminder scheduled")
	return id, nil
}

// CancelBillReminder publishes a cancel message for notificationID.
func (n *AMQPNotifier) CancelBillReminder(ctx context.Context, notificationID string) error {
	if err := n.publish(ctx, Message{Type: TypeCancel, NotificationID: notificationID}); err != nil {
		return err
	}

	n.logger.Debug().Str("notification_id", notificationID).Msg("bill reminder cancelled")
	return nil
}

func (n *AMQPNotifier) publish(ctx context.Context, msg Message) error {
	now := n.now()
	msg.SentAt = now

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = n.channel.PublishWithContext(ctx, n.exchange, n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.NotificationID,
		Type:         msg.Type,
		Timestamp:    now,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
