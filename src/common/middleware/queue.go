package middleware

import (
	"fmt"
	"sales-analysis/src/common/logger"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var queue_logger = logger.GetLoggerWithPrefix("[QUEUE]")

func NewMessageMiddlewareQueue(queueName string, channel MiddlewareChannel, consumeChannel ConsumeChannel) *MessageMiddlewareQueue {
	return &MessageMiddlewareQueue{
		queueName:      queueName,
		consumerTag:    newConsumerTag(queueName),
		channel:        channel,
		consumeChannel: consumeChannel,
	}
}

func newConsumerTag(name string) string {
	return fmt.Sprintf("%s-%s", name, uuid.NewString())
}

func (m *MessageMiddlewareQueue) Name() string {
	return m.queueName
}

func (m *MessageMiddlewareQueue) StartConsuming(onMessageCallback OnMessageCallback, errChan chan<- MessageMiddlewareError) {
	consumeChannel, err := m.channel.Consume(
		m.queueName,   // queue
		m.consumerTag, // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)

	if err != nil {
		queue_logger.Errorf("failed to start consuming queue %s: %v", m.queueName, err)
		errChan <- MessageMiddlewareDisconnectedError
		return
	}
	m.consumeChannel = &consumeChannel

	go func() {
		for msg := range consumeChannel {
			err := onMessageCallback(msg)
			answerDelivery(msg, err)
			if err != nil {
				queue_logger.Errorf("Error while processing message from %s: %v", m.queueName, err)
				errChan <- MessageMiddlewareMessageError
			}
		}
	}()
}

func (m *MessageMiddlewareQueue) StopConsuming() (middlewareError MessageMiddlewareError) {
	if m.consumeChannel == nil {
		return MessageMiddlewareSuccess
	}

	err := m.channel.Cancel(
		m.consumerTag, // consumer
		false,         // noWait
	)

	if err != nil {
		return MessageMiddlewareDisconnectedError
	}
	m.consumeChannel = nil
	return MessageMiddlewareSuccess
}

func (m *MessageMiddlewareQueue) Send(message []byte) (middlewareError MessageMiddlewareError) {
	err := m.channel.Publish(
		"",          // exchange
		m.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		},
	)

	if err != nil {
		queue_logger.Errorf("error sending to %s: %v", m.queueName, err)
		return MessageMiddlewareMessageError
	}

	return MessageMiddlewareSuccess
}

func (m *MessageMiddlewareQueue) Close() (middlewareError MessageMiddlewareError) {
	if m.channel.IsClosed() {
		return MessageMiddlewareSuccess
	}
	err := m.channel.Close()
	if err != nil {
		return MessageMiddlewareCloseError
	}

	return MessageMiddlewareSuccess
}

func (m *MessageMiddlewareQueue) Delete() (middlewareError MessageMiddlewareError) {
	_, err := m.channel.QueueDelete(
		m.queueName, // name
		false,       // ifUnused
		false,       // ifEmpty
		false,       // noWait
	)
	if err != nil {
		return MessageMiddlewareDeleteError
	}

	return MessageMiddlewareSuccess
}
