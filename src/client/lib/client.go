package client

import (
	"fmt"
	"os"
	"os/signal"
	"sales-analysis/src/common/logger"
	"sales-analysis/src/common/middleware"
	"sync/atomic"
	"syscall"

	"github.com/op/go-logging"
)

const (
	LINES_QUEUE            = "transactions.lines"
	SINGLE_ITEM_BUFFER_LEN = 1
)

// LinePublisher is the part of a middleware queue the client needs.
type LinePublisher interface {
	Send(message []byte) middleware.MessageMiddlewareError
}

type Client struct {
	log        *logging.Logger
	rabbitConn *middleware.RabbitConnection
	sigChan    chan os.Signal
	isRunning  atomic.Bool
	conf       ClientConfig
	Id         ClientUuid
	currBg     *BatchGenerator
}

func NewClient(rabbitConf middleware.RabbitConfig, conf ClientConfig) (*Client, error) {
	log := logger.GetLoggerWithPrefix("[CLIENT]")

	rabbitConn, err := middleware.NewRabbitConnection(&rabbitConf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	client := newClient(log, conf)
	client.rabbitConn = rabbitConn
	client.sigChan = make(chan os.Signal, SINGLE_ITEM_BUFFER_LEN)
	signal.Notify(client.sigChan, syscall.SIGTERM, syscall.SIGINT)
	return client, nil
}

func newClient(log *logging.Logger, conf ClientConfig) *Client {
	client := &Client{
		log:  log,
		conf: conf,
		Id:   NewClientUuid(),
	}
	client.isRunning.Store(true)
	return client
}

func (c *Client) handleSignals() {
	<-c.sigChan
	c.log.Info("Handling signal")
	c.isRunning.Store(false)
}

func (c *Client) Run() error {
	defer c.Shutdown()
	go c.handleSignals()

	middlewareHandler, err := middleware.NewMiddlewareHandler(c.rabbitConn)
	if err != nil {
		return fmt.Errorf("failed to create middleware handler: %w", err)
	}

	publisher, err := middlewareHandler.CreateQueue(LINES_QUEUE)
	if err != nil {
		return fmt.Errorf("error creating queue handler for %s: %w", LINES_QUEUE, err)
	}

	return c.SendFiles(publisher)
}

// SendFiles publishes every line of the matching files in batches, then the EOF of the stream.
func (c *Client) SendFiles(publisher LinePublisher) error {
	c.log.Infof("Client %s sending files matching %q from %s in batches of %d",
		c.Id.Short, c.conf.Pattern, c.conf.DataPath, c.conf.BatchSize)

	files, err := NewFileHandler(c.conf.DataPath).GetFilesWithPattern(c.conf.Pattern)
	if err != nil {
		return err
	}

	lines, batches := 0, 0
	for _, file := range files {
		sentLines, sentBatches, err := c.sendFile(publisher, file)
		lines += sentLines
		batches += sentBatches
		if err != nil {
			return err
		}
		if !c.isRunning.Load() {
			return fmt.Errorf("interrupted while sending %s", file)
		}
	}

	if err := c.send(publisher, middleware.NewStreamEndMessage(middleware.DATA_TYPE_TRANSACTIONS, c.Id.Full, batches)); err != nil {
		return fmt.Errorf("error sending EOF: %w", err)
	}

	c.log.Infof("Client %s sent %d lines in %d batches from %d file(s)", c.Id.Short, lines, batches, len(files))
	return nil
}

// sendFile returns how many lines and batches of file were published.
func (c *Client) sendFile(publisher LinePublisher, file string) (int, int, error) {
	c.log.Infof("Processing file: %s", file)

	bg, err := NewBatchGenerator(c.conf.DataPath, file, c.conf.SkipHeader)
	if err != nil {
		return 0, 0, err
	}
	c.currBg = bg
	defer func() {
		bg.Close()
		c.currBg = nil
	}()

	sent, batches := 0, 0
	for bg.IsReading() && c.isRunning.Load() {
		batch, err := bg.GetNextBatch(c.conf.BatchSize)
		if err != nil {
			return sent, batches, err
		}
		if batch.IsEmpty() {
			continue
		}

		msg := middleware.NewMessage(middleware.DATA_TYPE_TRANSACTIONS, c.Id.Full, batch.Items, false)
		if err := c.send(publisher, msg); err != nil {
			return sent, batches, fmt.Errorf("error sending batch from file %s: %w", file, err)
		}
		sent += len(batch.Items)
		batches++
		c.log.Debugf("Sent batch of %d lines from %s", len(batch.Items), file)
	}

	c.log.Infof("Finished processing file: %s", file)
	return sent, batches, nil
}

func (c *Client) send(publisher LinePublisher, msg *middleware.Message) error {
	msgBytes, err := msg.ToBytes()
	if err != nil {
		return err
	}

	if middleError := publisher.Send(msgBytes); middleError != middleware.MessageMiddlewareSuccess {
		return fmt.Errorf("publish to %s failed: %v", LINES_QUEUE, middleError)
	}
	return nil
}

func (c *Client) Shutdown() {
	if c.currBg != nil {
		c.currBg.Close()
	}

	if c.sigChan != nil {
		signal.Stop(c.sigChan)
	}

	if c.rabbitConn != nil {
		c.rabbitConn.Close()
	}

	c.isRunning.Store(false)
	c.log.Info("Client shutdown complete")
}
