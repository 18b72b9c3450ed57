package sum

import (
	"context"
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

type clientState struct {
	totals          *PeriodTotals
	eofSources      map[string]struct{}
	pairs           int
	batches         int
	expectedBatches int
}

// isComplete reports whether every mapper sent its EOF and every batch of the stream arrived.
func (c *clientState) isComplete(mapperCount int) bool {
	return len(c.eofSources) >= mapperCount && c.batches >= c.expectedBatches
}

func newClientState() *clientState {
	return &clientState{
		totals:     NewPeriodTotals(),
		eofSources: make(map[string]struct{}),
	}
}

type SumWorker struct {
	log               *logging.Logger
	rabbitConn        *middleware.RabbitConnection
	sigChan           chan os.Signal
	isRunning         atomic.Bool
	shutdownOnce      sync.Once
	pairsSubscription *middleware.MessageMiddlewareQueue
	errChan           chan middleware.MessageMiddlewareError
	conf              SumConfig
	sink              ReportSink
	ctx               context.Context
	cancel            context.CancelFunc
	clients           map[string]*clientState
	finished          map[string]struct{}
}

func NewSumWorker(rabbitConf middleware.RabbitConfig, conf SumConfig, sink ReportSink) (*SumWorker, error) {
	log := logger.GetLoggerWithPrefix("[SUM]")

	log.Infof("Establishing connection with RabbitMQ on address %s", rabbitConf.Address())

	rabbitConn, err := middleware.NewRabbitConnection(&rabbitConf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	log.Info("Connection with RabbitMQ successfully established")

	sigChan := make(chan os.Signal, SINGLE_ITEM_BUFFER_LEN)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	worker := newSumWorker(log, conf, sink)
	worker.rabbitConn = rabbitConn
	worker.sigChan = sigChan
	return worker, nil
}

func newSumWorker(log *logging.Logger, conf SumConfig, sink ReportSink) *SumWorker {
	ctx, cancel := context.WithCancel(context.Background())
	worker := &SumWorker{
		log:      log,
		errChan:  make(chan middleware.MessageMiddlewareError, ERROR_CHANNEL_BUFFER_SIZE),
		conf:     conf,
		sink:     sink,
		ctx:      ctx,
		cancel:   cancel,
		clients:  make(map[string]*clientState),
		finished: make(map[string]struct{}),
	}
	worker.isRunning.Store(true)
	return worker
}

func (s *SumWorker) handleSignal() {
	<-s.sigChan
	s.log.Info("Handling signal")
	s.Shutdown()
}

func (s *SumWorker) stateFor(clientId string) *clientState {
	state, ok := s.clients[clientId]
	if !ok {
		state = newClientState()
		s.clients[clientId] = state
	}
	return state
}

func (s *SumWorker) handlePairs(message amqp.Delivery) error {
	msg, err := middleware.NewPairMessageFromBytes(message.Body)
	if err != nil {
		return err
	}
	return s.processPairMessage(msg)
}

// processPairMessage folds a batch into the client's totals, or records a mapper EOF.
// The report is written once every mapper replica has sent its EOF and all the batches
// the client announced have been summed, in whatever order they arrive.
func (s *SumWorker) processPairMessage(msg *middleware.PairMessage) error {
	if _, done := s.finished[msg.ClientId]; done {
		s.log.Warningf("Discarding message from mapper %s for finished client %s (eof: %t, pairs: %d)",
			msg.Source, msg.ClientId, msg.IsEof, len(msg.Pairs))
		return nil
	}

	state := s.stateFor(msg.ClientId)

	if !msg.IsEof {
		for _, pair := range msg.Pairs {
			state.totals.Add(pair.Key, pair.Value)
		}
		state.pairs += len(msg.Pairs)
		state.batches++
	} else {
		if _, seen := state.eofSources[msg.Source]; seen {
			s.log.Warningf("Duplicated EOF from mapper %s for client %s", msg.Source, msg.ClientId)
			return nil
		}
		state.eofSources[msg.Source] = struct{}{}
		state.expectedBatches = msg.ExpectedBatches
		s.log.Debugf("EOF %d/%d for client %s | batches %d/%d",
			len(state.eofSources), s.conf.MapperCount, msg.ClientId, state.batches, state.expectedBatches)
	}

	if !state.isComplete(s.conf.MapperCount) {
		return nil
	}
	return s.finishClient(msg.ClientId, state)
}

func (s *SumWorker) finishClient(clientId string, state *clientState) error {
	report, err := RenderBytes(state.totals, s.conf.Report.Options())
	if err != nil {
		return fmt.Errorf("failed to render report of client %s: %w", clientId, err)
	}

	if err := s.sink.Write(s.ctx, clientId, report); err != nil {
		return err
	}

	s.log.Infof("Report of client %s written: %d periods from %d pairs", clientId, state.totals.Len(), state.pairs)
	delete(s.clients, clientId)
	s.finished[clientId] = struct{}{}
	return nil
}

func (s *SumWorker) Run() error {
	defer s.Shutdown()
	go s.handleSignal()

	pairsSubscription, err := createQueueHandler(s.rabbitConn, PAIRS_QUEUE)
	if err != nil {
		return fmt.Errorf("error creating queue handler for %s: %w", PAIRS_QUEUE, err)
	}
	s.pairsSubscription = pairsSubscription

	s.log.Infof("Consuming pairs from %s, waiting for %d mapper(s) per client", s.pairsSubscription.Name(), s.conf.MapperCount)
	s.pairsSubscription.StartConsuming(s.handlePairs, s.errChan)

	for err := range s.errChan {
		if err != middleware.MessageMiddlewareSuccess {
			s.log.Errorf("Error found while summing pairs: %v", err)
		}

		if !s.isRunning.Load() {
			break
		}
	}

	s.log.Info("Finished summing")
	return nil
}

// Shutdown stops consuming, closes the sink and the broker connection. Safe to call more than once.
func (s *SumWorker) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.isRunning.Store(false)
		s.errChan <- middleware.MessageMiddlewareSuccess
		s.cancel()

		if s.pairsSubscription != nil {
			s.pairsSubscription.StopConsuming()
		}
		if err := s.sink.Close(); err != nil {
			s.log.Errorf("Error closing report sink: %v", err)
		}
		if s.rabbitConn != nil {
			s.rabbitConn.Close()
		}

		s.log.Info("Shutdown complete")
	})
}
