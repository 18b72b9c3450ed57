package middleware

import (
	"encoding/json"
	"fmt"
)

const (
	DATA_TYPE_TRANSACTIONS = "transactions"
)

// Message carries a batch of raw input lines for one client stream. The EOF of a
// stream has no payload and tells how many data batches were sent before it.
type Message struct {
	DataType   string
	ClientId   string
	Payload    []string
	IsEof      bool
	BatchCount int
}

func NewMessage(dataType, clientId string, payload []string, isEof bool) *Message {
	return &Message{
		DataType: dataType,
		ClientId: clientId,
		Payload:  payload,
		IsEof:    isEof,
	}
}

func NewStreamEndMessage(dataType, clientId string, batchCount int) *Message {
	return &Message{
		DataType:   dataType,
		ClientId:   clientId,
		IsEof:      true,
		BatchCount: batchCount,
	}
}

func NewMessageFromBytes(msgBytes []byte) (*Message, error) {
	var msg Message
	err := json.Unmarshal(msgBytes, &msg)
	if err != nil {
		return nil, fmt.Errorf("failed message deserialization: %w", err)
	}

	return &msg, nil
}

func (m *Message) ToBytes() ([]byte, error) {
	msgBytes, err := json.Marshal(m)
	if err != nil {
		return []byte{}, fmt.Errorf("problem while marshalling message of dataType %s: %w", m.DataType, err)
	}

	return msgBytes, nil
}

type KeyValue struct {
	Key   string
	Value float64
}

// PairMessage carries the (key, value) pairs a mapper replica emitted for one batch,
// possibly none. An EOF PairMessage has no pairs, names the replica in Source and
// repeats how many batches the client sent.
type PairMessage struct {
	ClientId        string
	Source          string
	Pairs           []KeyValue
	IsEof           bool
	ExpectedBatches int
}

func NewPairMessage(clientId, source string, pairs []KeyValue, isEof bool) *PairMessage {
	return &PairMessage{
		ClientId: clientId,
		Source:   source,
		Pairs:    pairs,
		IsEof:    isEof,
	}
}

func NewPairEofMessage(clientId, source string, expectedBatches int) *PairMessage {
	return &PairMessage{
		ClientId:        clientId,
		Source:          source,
		IsEof:           true,
		ExpectedBatches: expectedBatches,
	}
}

func NewPairMessageFromBytes(msgBytes []byte) (*PairMessage, error) {
	var msg PairMessage
	err := json.Unmarshal(msgBytes, &msg)
	if err != nil {
		return nil, fmt.Errorf("failed pair message deserialization: %w", err)
	}

	return &msg, nil
}

func (m *PairMessage) ToBytes() ([]byte, error) {
	msgBytes, err := json.Marshal(m)
	if err != nil {
		return []byte{}, fmt.Errorf("problem while marshalling pairs of client %s: %w", m.ClientId, err)
	}

	return msgBytes, nil
}

// EofMessage is broadcast between mapper replicas when one of them receives
// the end of a client stream.
type EofMessage struct {
	DataType   string
	ClientId   string
	Origin     string
	BatchCount int
}

func NewEofMessage(dataType, clientId, origin string, batchCount int) *EofMessage {
	return &EofMessage{
		DataType:   dataType,
		ClientId:   clientId,
		Origin:     origin,
		BatchCount: batchCount,
	}
}

func NewEofMessageFromBytes(msgBytes []byte) (*EofMessage, error) {
	var msg EofMessage
	err := json.Unmarshal(msgBytes, &msg)
	if err != nil {
		return nil, fmt.Errorf("failed message deserialization: %w", err)
	}

	return &msg, nil
}

func (m *EofMessage) ToBytes() ([]byte, error) {
	msgBytes, err := json.Marshal(m)
	if err != nil {
		return []byte{}, fmt.Errorf("problem while marshalling message of dataType %s: %w", m.DataType, err)
	}

	return msgBytes, nil
}
