package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"consultly/pkg/config"
	"consultly/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ReconciliationQueueName = "reconciliation_queue"
	ReconciliationExchange  = "settlements"
	ReconciliationKey       = "settlement_incomplete"
)

// ReconciliationTask describes a settlement whose wallet mutations did not all
// complete. The transaction record is left with is_done=false and this task is
// published so an out-of-band worker can retry or refund.
type ReconciliationTask struct {
	SessionID     string    `json:"session_id"`
	ClientID      string    `json:"client_id"`
	CreatorID     string    `json:"creator_id"`
	GrossAmount   string    `json:"gross_amount"`
	CreatorAmount string    `json:"creator_amount"`
	FailedStep    string    `json:"failed_step"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ReconciliationExchange, // name
		"direct",               // type
		true,                   // durable
		false,                  // auto-deleted
		false,                  // internal
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		ReconciliationQueueName, // name
		true,                    // durable
		false,                   // delete when unused
		false,                   // exclusive
		false,                   // no-wait
		nil,                     // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		ReconciliationQueueName,
		ReconciliationKey,
		ReconciliationExchange,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

// PublishReconciliationTask enqueues a partially failed settlement for
// out-of-band reconciliation. Messages are persistent so a broker restart
// does not lose pending money movements.
func (c *Client) PublishReconciliationTask(task ReconciliationTask) error {
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.Publish(
		ReconciliationExchange,
		ReconciliationKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         taskJSON,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish reconciliation task for session=%s: %v", task.SessionID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published reconciliation task for session=%s, failed_step=%s", task.SessionID, task.FailedStep)
	return nil
}

// ConsumeReconciliationTasks delivers pending reconciliation tasks to the
// handler. Failed handling nacks with requeue so the task is retried.
func (c *Client) ConsumeReconciliationTasks(handler func(task ReconciliationTask) error) error {
	msgs, err := c.channel.Consume(
		ReconciliationQueueName, // queue
		"",                      // consumer
		false,                   // auto-ack
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,                     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from reconciliation queue: %s", ReconciliationQueueName)

	go func() {
		for msg := range msgs {
			var task ReconciliationTask
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal reconciliation task: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(task); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed to process reconciliation task for session=%s: %v", task.SessionID, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
			c.logger.Info("[RABBITMQ] Reconciled settlement for session=%s", task.SessionID)
		}
	}()

	return nil
}

// GetQueueLength returns the number of messages awaiting reconciliation.
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(ReconciliationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
