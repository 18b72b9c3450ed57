package sum

import (
	"fmt"
	"sales-analysis/src/common/middleware"
)

const (
	ERROR_CHANNEL_BUFFER_SIZE = 20
	SINGLE_ITEM_BUFFER_LEN    = 1

	PAIRS_QUEUE = "revenue.pairs"
)

type SumConfig struct {
	MapperCount int
	Report      ReportConfig
}

func createQueueHandler(rabbitConn *middleware.RabbitConnection, queueName string) (*middleware.MessageMiddlewareQueue, error) {
	middlewareHandler, err := middleware.NewMiddlewareHandler(rabbitConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create middleware handler: %w", err)
	}

	return middlewareHandler.CreateQueue(queueName)
}
