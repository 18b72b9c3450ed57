package middleware

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EXCHANGE_TYPE_TOPIC      = "topic"
	EXCHANGE_TYPE_DIRECT     = "direct"
	EXCHANGE_NAME_TOPIC_TYPE = "sales-analysis-topic"

	EXCHANGE_DURABILITY = false
	QUEUE_DURABILITY    = false

	// Prefetch is counted per channel. It bounds how many batches a replica holds,
	// but gives no ordering between its lines and EOF consumers.
	PREFETCH_COUNT = 1
)

type MiddlewareHandler struct {
	RabbitConn *RabbitConnection
	Channel    MiddlewareChannel
}

func NewMiddlewareHandler(rabbitConn *RabbitConnection) (*MiddlewareHandler, error) {
	ch, err := rabbitConn.CreateNewChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Qos(PREFETCH_COUNT, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set channel prefetch: %w", err)
	}

	return &MiddlewareHandler{
		RabbitConn: rabbitConn,
		Channel:    ch,
	}, nil
}

// Close closes the handler channel. The connection is shared and closed by its owner.
func (mh *MiddlewareHandler) Close() error {
	if mh.Channel.IsClosed() {
		return nil
	}
	return mh.Channel.Close()
}

func (mh *MiddlewareHandler) DeclareQueue(queueName string) (*amqp.Queue, error) {
	q, err := mh.Channel.QueueDeclare(
		queueName,        // name
		QUEUE_DURABILITY, // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)

	return &q, err
}

func (mh *MiddlewareHandler) DeclareExchange(exchangeName, exchangeType string) error {
	err := mh.Channel.ExchangeDeclare(
		exchangeName,        // name
		exchangeType,        // type
		EXCHANGE_DURABILITY, // durable
		false,               // auto-deleted
		false,               // internal
		false,               // no-wait
		nil,                 // arguments
	)
	return err
}

func (mh *MiddlewareHandler) BindQueue(queueName, exchangeName, routingKey string) error {
	err := mh.Channel.QueueBind(
		queueName,    // queue name
		routingKey,   // routing key
		exchangeName, // exchange
		false,
		nil,
	)
	return err
}

// CreateQueue declares queueName and returns a handle that publishes through the default
// exchange and consumes from the queue.
func (mh *MiddlewareHandler) CreateQueue(queueName string) (*MessageMiddlewareQueue, error) {
	_, err := mh.DeclareQueue(queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return NewMessageMiddlewareQueue(queueName, mh.Channel, nil), nil
}

// CreateTopicPublisher returns a handle publishing on the topic exchange with routeKey.
// No queue is declared: subscribers bind their own.
func (mh *MiddlewareHandler) CreateTopicPublisher(routeKey string) (*MessageMiddlewareExchange, error) {
	err := mh.DeclareExchange(EXCHANGE_NAME_TOPIC_TYPE, EXCHANGE_TYPE_TOPIC)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return NewMessageMiddlewareExchange(EXCHANGE_NAME_TOPIC_TYPE, routeKey, mh.Channel, nil), nil
}

// CreateTopicSubscription declares queueName, binds it to the topic exchange with
// bindingPattern and returns a consumable queue handle.
func (mh *MiddlewareHandler) CreateTopicSubscription(queueName, bindingPattern string) (*MessageMiddlewareQueue, error) {
	err := mh.DeclareExchange(EXCHANGE_NAME_TOPIC_TYPE, EXCHANGE_TYPE_TOPIC)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = mh.DeclareQueue(queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	err = mh.BindQueue(queueName, EXCHANGE_NAME_TOPIC_TYPE, bindingPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to bind queue %s to exchange: %w", queueName, err)
	}

	return NewMessageMiddlewareQueue(queueName, mh.Channel, nil), nil
}

// answerDelivery acks a delivery processed without error and discards it otherwise.
func answerDelivery(msg amqp.Delivery, callbackErr error) {
	if callbackErr != nil {
		msg.Nack(false, false)
		return
	}
	msg.Ack(false)
}
