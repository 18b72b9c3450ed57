package middleware

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

type MiddlewareChannel = *amqp.Channel

type ConsumeChannel = *<-chan amqp.Delivery

type MessageMiddlewareError int

const (
	MessageMiddlewareSuccess MessageMiddlewareError = iota
	MessageMiddlewareMessageError
	MessageMiddlewareDisconnectedError
	MessageMiddlewareCloseError
	MessageMiddlewareDeleteError
)

func (e MessageMiddlewareError) String() string {
	switch e {
	case MessageMiddlewareSuccess:
		return "success"
	case MessageMiddlewareMessageError:
		return "message error"
	case MessageMiddlewareDisconnectedError:
		return "disconnected"
	case MessageMiddlewareCloseError:
		return "close error"
	case MessageMiddlewareDeleteError:
		return "delete error"
	default:
		return "unknown middleware error"
	}
}

type MessageMiddlewareQueue struct {
	queueName      string
	consumerTag    string
	channel        MiddlewareChannel
	consumeChannel ConsumeChannel
}

type MessageMiddlewareExchange struct {
	exchangeName   string
	routeKey       string
	consumerTag    string
	channel        MiddlewareChannel
	consumeChannel ConsumeChannel
}

// OnMessageCallback handles a single delivery. The middleware acks the delivery when the
// callback returns nil and discards it otherwise.
type OnMessageCallback func(message amqp.Delivery) error

type MessageMiddleware interface {
	/*
	   Starts listening on the queue/exchange and invokes onMessageCallback for every
	   data or control message.
	   Reports MessageMiddlewareDisconnectedError on errChan if the broker connection is lost.
	   Reports MessageMiddlewareMessageError on errChan if a callback fails.
	*/
	StartConsuming(onMessageCallback OnMessageCallback, errChan chan<- MessageMiddlewareError)

	/*
	   Stops listening. Has no effect if the handle was not consuming.
	*/
	StopConsuming() (middlewareError MessageMiddlewareError)

	/*
	   Sends a message to the queue, or to the topic the exchange was created with.
	*/
	Send(message []byte) (middlewareError MessageMiddlewareError)

	/*
	   Closes the underlying channel.
	*/
	Close() (middlewareError MessageMiddlewareError)

	/*
	   Forces the remote deletion of the queue or exchange.
	*/
	Delete() (middlewareError MessageMiddlewareError)
}

var (
	_ MessageMiddleware = (*MessageMiddlewareQueue)(nil)
	_ MessageMiddleware = (*MessageMiddlewareExchange)(nil)
)
