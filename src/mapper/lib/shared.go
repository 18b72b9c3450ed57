package mapper

import (
	"fmt"
	"sales-analysis/src/common/middleware"
)

const (
	ERROR_CHANNEL_BUFFER_SIZE = 20
	SINGLE_ITEM_BUFFER_LEN    = 1

	LINES_QUEUE      = "transactions.lines"
	PAIRS_QUEUE      = "revenue.pairs"
	EOF_ROUTE_PREFIX = "eof.mapper"
)

type MapperConfig struct {
	Id               string
	Count            int
	PadKeys          bool
	DropDiagnostics  bool
	DayFirstFallback bool
}

// TransformOptions maps the stage configuration onto RecordTransform options.
func (c MapperConfig) TransformOptions() []Option {
	return []Option{
		WithKeyPadding(c.PadKeys),
		WithDropDiagnostics(c.DropDiagnostics),
		WithDayFirstFallback(c.DayFirstFallback),
	}
}

func eofRouteKey(mapperId string) string {
	return fmt.Sprintf("%s.%s", EOF_ROUTE_PREFIX, mapperId)
}

func createQueueHandler(rabbitConn *middleware.RabbitConnection, queueName string) (*middleware.MessageMiddlewareQueue, error) {
	middlewareHandler, err := middleware.NewMiddlewareHandler(rabbitConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create middleware handler: %w", err)
	}

	return middlewareHandler.CreateQueue(queueName)
}

func createEofPublisher(rabbitConn *middleware.RabbitConnection, mapperId string) (*middleware.MessageMiddlewareExchange, error) {
	middlewareHandler, err := middleware.NewMiddlewareHandler(rabbitConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create middleware handler: %w", err)
	}

	return middlewareHandler.CreateTopicPublisher(eofRouteKey(mapperId))
}

func prepareEofQueue(rabbitConn *middleware.RabbitConnection, mapperId string) (*middleware.MessageMiddlewareQueue, error) {
	middlewareHandler, err := middleware.NewMiddlewareHandler(rabbitConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create middleware handler: %w", err)
	}

	return middlewareHandler.CreateTopicSubscription(eofRouteKey(mapperId), EOF_ROUTE_PREFIX+".*")
}
