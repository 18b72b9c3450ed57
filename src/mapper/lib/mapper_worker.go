package mapper

import (
	"fmt"
	"os"
	"os/signal"
	"sales-analysis/src/common/logger"
	"sales-analysis/src/common/middleware"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/op/go-logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

type MapperExchangeHandlers struct {
	linesSubscription middleware.MessageMiddlewareQueue
	pairsPublishing   middleware.MessageMiddlewareQueue
	eofPublishing     middleware.MessageMiddlewareExchange
	eofSubscription   middleware.MessageMiddlewareQueue
}

type MapperWorker struct {
	log              *logging.Logger
	rabbitConn       *middleware.RabbitConnection
	sigChan          chan os.Signal
	isRunning        atomic.Bool
	shutdownOnce     sync.Once
	exchangeHandlers MapperExchangeHandlers
	errChan          chan middleware.MessageMiddlewareError
	conf             MapperConfig
	transform        *RecordTransform
	mutex            sync.Mutex
	statsPerClient   map[string]*Stats
}

func NewMapperWorker(rabbitConf middleware.RabbitConfig, conf MapperConfig) (*MapperWorker, error) {
	log := logger.GetLoggerWithPrefix("[MAPPER]")

	log.Infof("Establishing connection with RabbitMQ on address %s", rabbitConf.Address())

	rabbitConn, err := middleware.NewRabbitConnection(&rabbitConf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	log.Info("Connection with RabbitMQ successfully established")

	sigChan := make(chan os.Signal, SINGLE_ITEM_BUFFER_LEN)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	worker := &MapperWorker{
		log:            log,
		rabbitConn:     rabbitConn,
		sigChan:        sigChan,
		errChan:        make(chan middleware.MessageMiddlewareError, ERROR_CHANNEL_BUFFER_SIZE),
		conf:           conf,
		transform:      NewRecordTransform(conf.TransformOptions()...),
		statsPerClient: make(map[string]*Stats),
	}
	worker.isRunning.Store(true)
	return worker, nil
}

// handleSignal listens for SIGTERM signal and triggers shutdown.
func (m *MapperWorker) handleSignal() {
	<-m.sigChan
	m.log.Info("Handling signal")
	m.Shutdown()
}

func (m *MapperWorker) createExchangeHandlers() error {
	linesSubscription, err := createQueueHandler(m.rabbitConn, LINES_QUEUE)
	if err != nil {
		return fmt.Errorf("error creating queue handler for %s: %w", LINES_QUEUE, err)
	}

	pairsPublishing, err := createQueueHandler(m.rabbitConn, PAIRS_QUEUE)
	if err != nil {
		return fmt.Errorf("error creating queue handler for %s: %w", PAIRS_QUEUE, err)
	}

	eofPublishing, err := createEofPublisher(m.rabbitConn, m.conf.Id)
	if err != nil {
		return fmt.Errorf("error creating EOF publisher: %w", err)
	}

	eofSubscription, err := prepareEofQueue(m.rabbitConn, m.conf.Id)
	if err != nil {
		return fmt.Errorf("error preparing EOF queue: %w", err)
	}

	m.exchangeHandlers = MapperExchangeHandlers{
		linesSubscription: *linesSubscription,
		pairsPublishing:   *pairsPublishing,
		eofPublishing:     *eofPublishing,
		eofSubscription:   *eofSubscription,
	}
	return nil
}

func (m *MapperWorker) statsFor(clientId string) *Stats {
	stats, ok := m.statsPerClient[clientId]
	if !ok {
		newStats := NewStats()
		stats = &newStats
		m.statsPerClient[clientId] = stats
	}
	return stats
}

// mapBatch runs the transform over every line of a batch. Must be called with the mutex held.
func (m *MapperWorker) mapBatch(msg *middleware.Message) []middleware.KeyValue {
	pairs := make([]middleware.KeyValue, 0, len(msg.Payload))
	collector := CollectorFunc(func(key string, value float64) {
		pairs = append(pairs, middleware.KeyValue{Key: key, Value: value})
	})
	reporter := ReporterFunc(func(status string) {
		m.log.Warningf("client %s: %s", msg.ClientId, status)
	})

	stats := m.statsFor(msg.ClientId)
	for _, line := range msg.Payload {
		stats.Add(m.transform.Process(line, collector, reporter))
	}
	return pairs
}

// pairMessageFor maps a batch into the message published downstream. Every batch yields
// one message, even without pairs, since the sum stage counts batches per client.
// Must be called with the mutex held.
func (m *MapperWorker) pairMessageFor(msg *middleware.Message) *middleware.PairMessage {
	return middleware.NewPairMessage(msg.ClientId, m.conf.Id, m.mapBatch(msg), false)
}

func (m *MapperWorker) mapMessage(message amqp.Delivery) error {
	msg, err := middleware.NewMessageFromBytes(message.Body)
	if err != nil {
		return err
	}

	if msg.IsEof {
		return m.broadcastEof(msg)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	response := m.pairMessageFor(msg)
	responseBytes, err := response.ToBytes()
	if err != nil {
		return err
	}

	middleError := m.exchangeHandlers.pairsPublishing.Send(responseBytes)
	if middleError != middleware.MessageMiddlewareSuccess {
		return fmt.Errorf("problem while sending pairs to %s: %v", PAIRS_QUEUE, middleError)
	}

	m.log.Debugf("Mapped batch of %d lines into %d pairs for client %s", len(msg.Payload), len(response.Pairs), msg.ClientId)
	return nil
}

// broadcastEof tells every mapper replica, this one included, that the client stream ended.
func (m *MapperWorker) broadcastEof(msg *middleware.Message) error {
	eofMsg := middleware.NewEofMessage(msg.DataType, msg.ClientId, m.conf.Id, msg.BatchCount)
	msgBytes, err := eofMsg.ToBytes()
	if err != nil {
		return err
	}

	middleError := m.exchangeHandlers.eofPublishing.Send(msgBytes)
	if middleError != middleware.MessageMiddlewareSuccess {
		return fmt.Errorf("problem while broadcasting EOF: %v", middleError)
	}

	m.log.Infof("Broadcast EOF of client %s (%d batches) to %d mapper(s)", msg.ClientId, msg.BatchCount, m.conf.Count)
	return nil
}

// processInboundEof forwards this replica's EOF downstream. A batch of the same client may
// still be waiting in the lines consumer; the sum stage holds the report until the
// batch count carried by the EOF is reached.
func (m *MapperWorker) processInboundEof(message amqp.Delivery) error {
	msg, err := middleware.NewEofMessageFromBytes(message.Body)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	eof := middleware.NewPairEofMessage(msg.ClientId, m.conf.Id, msg.BatchCount)
	eofBytes, err := eof.ToBytes()
	if err != nil {
		return err
	}

	middleError := m.exchangeHandlers.pairsPublishing.Send(eofBytes)
	if middleError != middleware.MessageMiddlewareSuccess {
		return fmt.Errorf("problem while propagating EOF: %v", middleError)
	}

	m.log.Infof("Propagated EOF of client %s (origin mapper %s) | %s", msg.ClientId, msg.Origin, m.statsFor(msg.ClientId))
	delete(m.statsPerClient, msg.ClientId)
	return nil
}

func (m *MapperWorker) Run() error {
	defer m.Shutdown()
	go m.handleSignal()

	err := m.createExchangeHandlers()
	if err != nil {
		return fmt.Errorf("failed to create exchange handlers: %w", err)
	}

	m.log.Infof("Consuming batches from %s", m.exchangeHandlers.linesSubscription.Name())
	m.exchangeHandlers.linesSubscription.StartConsuming(m.mapMessage, m.errChan)
	m.exchangeHandlers.eofSubscription.StartConsuming(m.processInboundEof, m.errChan)

	for err := range m.errChan {
		if err != middleware.MessageMiddlewareSuccess {
			m.log.Errorf("Error found while mapping message: %v", err)
		}

		if !m.isRunning.Load() {
			break
		}
	}

	m.log.Info("Finished mapping")
	return nil
}

// Shutdown stops consuming and closes the broker connection. Safe to call more than once.
func (m *MapperWorker) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.isRunning.Store(false)
		m.errChan <- middleware.MessageMiddlewareSuccess

		m.exchangeHandlers.linesSubscription.StopConsuming()
		m.exchangeHandlers.eofSubscription.StopConsuming()
		m.rabbitConn.Close()

		m.log.Info("Shutdown complete")
	})
}
