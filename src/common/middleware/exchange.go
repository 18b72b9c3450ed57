package middleware

import (
	"sales-analysis/src/common/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

var exchange_logger = logger.GetLoggerWithPrefix("[EXCHANGE]")

func NewMessageMiddlewareExchange(exchangeName string, routeKey string, channel MiddlewareChannel, consumeChannel ConsumeChannel) *MessageMiddlewareExchange {
	return &MessageMiddlewareExchange{
		exchangeName:   exchangeName,
		routeKey:       routeKey,
		consumerTag:    newConsumerTag(routeKey),
		channel:        channel,
		consumeChannel: consumeChannel,
	}
}

// StartConsuming reads from the queue named after the route key, which
// MiddlewareHandler.CreateTopicSubscription declares and binds.
func (m *MessageMiddlewareExchange) StartConsuming(onMessageCallback OnMessageCallback, errChan chan<- MessageMiddlewareError) {
	consumeChannel, err := m.channel.Consume(
		m.routeKey,    // queue
		m.consumerTag, // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)

	if err != nil {
		exchange_logger.Errorf("failed to start consuming channel: %v", err)
		errChan <- MessageMiddlewareDisconnectedError
		return
	}
	m.consumeChannel = &consumeChannel

	go func() {
		for msg := range consumeChannel {
			err := onMessageCallback(msg)
			answerDelivery(msg, err)
			if err != nil {
				exchange_logger.Errorf("Error while processing message: %v", err)
				errChan <- MessageMiddlewareMessageError
			}
		}
	}()
}

func (m *MessageMiddlewareExchange) StopConsuming() (middlewareError MessageMiddlewareError) {
	if m.consumeChannel == nil {
		return MessageMiddlewareSuccess
	}

	err := m.channel.Cancel(
		m.consumerTag, // Consumer
		false,         // noWait
	)

	if err != nil {
		return MessageMiddlewareDisconnectedError
	}
	m.consumeChannel = nil
	return MessageMiddlewareSuccess
}

func (m *MessageMiddlewareExchange) Send(message []byte) (middlewareError MessageMiddlewareError) {
	err := m.channel.Publish(
		m.exchangeName, // exchange
		m.routeKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		},
	)

	if err != nil {
		exchange_logger.Errorf("error in sending: %v", err)
		return MessageMiddlewareMessageError
	}
	return MessageMiddlewareSuccess
}

func (m *MessageMiddlewareExchange) Close() (middlewareError MessageMiddlewareError) {
	if m.channel.IsClosed() {
		return MessageMiddlewareSuccess
	}
	err := m.channel.Close()
	if err != nil {
		return MessageMiddlewareCloseError
	}

	return MessageMiddlewareSuccess
}

func (m *MessageMiddlewareExchange) Delete() (middlewareError MessageMiddlewareError) {
	err := m.channel.ExchangeDelete(
		m.exchangeName, // name
		false,          // ifUnused
		false,          // noWait
	)
	if err != nil {
		return MessageMiddlewareDeleteError
	}

	return MessageMiddlewareSuccess
}
