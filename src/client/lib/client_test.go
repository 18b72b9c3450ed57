package client

import (
	"sales-analysis/src/common/logger"
	"sales-analysis/src/common/middleware"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	messages []*middleware.Message
	failAt   int
}

func (r *recordingPublisher) Send(message []byte) middleware.MessageMiddlewareError {
	if r.failAt > 0 && len(r.messages)+1 == r.failAt {
		return middleware.MessageMiddlewareDisconnectedError
	}
	msg, err := middleware.NewMessageFromBytes(message)
	if err != nil {
		return middleware.MessageMiddlewareMessageError
	}
	r.messages = append(r.messages, msg)
	return middleware.MessageMiddlewareSuccess
}

func newTestClient(dir string, batchSize int) *Client {
	return newClient(logger.GetLoggerWithPrefix("[CLIENT-TEST]"), NewClientConfig(dir, "transactions", batchSize, true))
}

func TestSendFilesPublishesBatchesThenEof(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "transactions_1.csv", "id,item,qty,price,date,x", "1,A,10,5.0,04/15/21 10:00,X", "2,B,1,1.0,04/15/21 10:00,X", "3,C,2,2.0,05/01/21 10:00,X")
	writeFile(t, dir, "transactions_2.csv", "id,item,qty,price,date,x", "4,D,1,1.0,06/01/21 10:00,X")
	writeFile(t, dir, "stores.csv", "ignored")

	publisher := &recordingPublisher{}
	c := newTestClient(dir, 2)
	require.NoError(t, c.SendFiles(publisher))

	require.Len(t, publisher.messages, 4)
	require.Equal(t, []string{"1,A,10,5.0,04/15/21 10:00,X", "2,B,1,1.0,04/15/21 10:00,X"}, publisher.messages[0].Payload)
	require.Equal(t, []string{"3,C,2,2.0,05/01/21 10:00,X"}, publisher.messages[1].Payload)
	require.Equal(t, []string{"4,D,1,1.0,06/01/21 10:00,X"}, publisher.messages[2].Payload)

	eof := publisher.messages[3]
	require.True(t, eof.IsEof)
	require.Empty(t, eof.Payload)
	require.Equal(t, 3, eof.BatchCount)

	for _, msg := range publisher.messages {
		require.Equal(t, c.Id.Full, msg.ClientId)
		require.Equal(t, middleware.DATA_TYPE_TRANSACTIONS, msg.DataType)
	}
}

func TestSendFilesStopsOnPublishFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "transactions.csv", "header", "l1", "l2", "l3")

	publisher := &recordingPublisher{failAt: 2}
	err := newTestClient(dir, 1).SendFiles(publisher)
	require.Error(t, err)
	require.Len(t, publisher.messages, 1)
	require.False(t, publisher.messages[0].IsEof)
}

func TestSendFilesWithoutMatchingFiles(t *testing.T) {
	publisher := &recordingPublisher{}
	require.Error(t, newTestClient(t.TempDir(), 10).SendFiles(publisher))
	require.Empty(t, publisher.messages)
}
