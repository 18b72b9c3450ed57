package middleware

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	rabbitContainer testcontainers.Container
	containerOnce   sync.Once
	containerHost   string
	containerPort   int
	containerErr    error
)

func setupRabbitContainer(t *testing.T) (host string, port int) {
	if testing.Short() {
		t.Skip("skipping RabbitMQ integration test in short mode")
	}

	containerOnce.Do(func() {
		ctx := context.Background()

		rabbitContainer, containerErr = rabbitmq.Run(ctx,
			"rabbitmq:4.1.4-management",
			rabbitmq.WithAdminUsername("user"),
			rabbitmq.WithAdminPassword("password"),
		)
		if containerErr != nil {
			return
		}

		containerHost, containerErr = rabbitContainer.Host(ctx)
		if containerErr != nil {
			return
		}

		mappedPort, err := rabbitContainer.MappedPort(ctx, "5672")
		if err != nil {
			containerErr = err
			return
		}
		containerPort = mappedPort.Int()
	})

	if containerErr != nil {
		t.Fatal(containerErr)
	}

	return containerHost, containerPort
}

func TestMain(m *testing.M) {
	// Setup is done in setupRabbitContainer via sync.Once
	code := m.Run()
	if rabbitContainer != nil {
		rabbitContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func createMiddleware(t *testing.T, host string, port int) *MiddlewareHandler {
	rabbitConf := NewRabbitConfig("user", "password", host, port)
	rabbitConn, err := NewRabbitConnection(&rabbitConf)
	require.NoError(t, err, "Failed to connect to RabbitMQ")

	middleHandler, err := NewMiddlewareHandler(rabbitConn)
	require.NoError(t, err, "Failed to create middleware channel")

	t.Cleanup(func() {
		middleHandler.Close()
		rabbitConn.Close()
	})
	return middleHandler
}

func TestRabbitConnection(t *testing.T) {
	host, port := setupRabbitContainer(t)
	middleHandler := createMiddleware(t, host, port)

	queue, err := middleHandler.DeclareQueue("test_queue")
	require.NoError(t, err)
	require.Equal(t, "test_queue", queue.Name)
}

func TestDeclareExchange(t *testing.T) {
	host, port := setupRabbitContainer(t)
	middleHandler := createMiddleware(t, host, port)

	require.NoError(t, middleHandler.DeclareExchange("test_exchange", EXCHANGE_TYPE_DIRECT))
	require.NoError(t, middleHandler.DeclareExchange("test_topic_exchange", EXCHANGE_TYPE_TOPIC))
}

func TestBindQueue(t *testing.T) {
	host, port := setupRabbitContainer(t)
	middleHandler := createMiddleware(t, host, port)

	require.NoError(t, middleHandler.DeclareExchange("test_exchange", EXCHANGE_TYPE_DIRECT))

	_, err := middleHandler.DeclareQueue("test_queue")
	require.NoError(t, err)

	require.NoError(t, middleHandler.BindQueue("test_queue", "test_exchange", "test_key"))
}

func TestQueueSendAndConsume(t *testing.T) {
	host, port := setupRabbitContainer(t)
	publisher := createMiddleware(t, host, port)
	consumer := createMiddleware(t, host, port)

	sendQueue, err := publisher.CreateQueue("test_lines")
	require.NoError(t, err)
	recvQueue, err := consumer.CreateQueue("test_lines")
	require.NoError(t, err)

	received := make(chan *Message, 1)
	errChan := make(chan MessageMiddlewareError, 1)
	recvQueue.StartConsuming(func(delivery amqp.Delivery) error {
		msg, err := NewMessageFromBytes(delivery.Body)
		if err != nil {
			return err
		}
		received <- msg
		return nil
	}, errChan)
	defer recvQueue.StopConsuming()

	msg := NewMessage(DATA_TYPE_TRANSACTIONS, "client-1", []string{"1,ProdA,10,5.0,15/04/21 10:00,X"}, false)
	msgBytes, err := msg.ToBytes()
	require.NoError(t, err)
	require.Equal(t, MessageMiddlewareSuccess, sendQueue.Send(msgBytes))

	select {
	case got := <-received:
		require.Equal(t, msg, got)
	case middleErr := <-errChan:
		t.Fatalf("consumer reported %v", middleErr)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestTopicSubscriptionReceivesEveryReplicaKey(t *testing.T) {
	host, port := setupRabbitContainer(t)
	middleHandler := createMiddleware(t, host, port)

	subscription, err := middleHandler.CreateTopicSubscription("eof.test.1", "eof.test.*")
	require.NoError(t, err)
	defer subscription.Delete()

	received := make(chan string, 2)
	errChan := make(chan MessageMiddlewareError, 1)
	subscription.StartConsuming(func(delivery amqp.Delivery) error {
		received <- delivery.RoutingKey
		return nil
	}, errChan)
	defer subscription.StopConsuming()

	publisherHandler := createMiddleware(t, host, port)
	for _, id := range []string{"1", "2"} {
		publisher, err := publisherHandler.CreateTopicPublisher(fmt.Sprintf("eof.test.%s", id))
		require.NoError(t, err)
		require.Equal(t, MessageMiddlewareSuccess, publisher.Send([]byte(`{}`)))
	}

	keys := map[string]bool{}
	for len(keys) < 2 {
		select {
		case key := <-received:
			keys[key] = true
		case <-time.After(10 * time.Second):
			t.Fatalf("timed out, got keys %v", keys)
		}
	}
	require.True(t, keys["eof.test.1"])
	require.True(t, keys["eof.test.2"])
}
