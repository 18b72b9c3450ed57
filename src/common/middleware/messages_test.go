package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairMessageKeepsPaddedKeys(t *testing.T) {
	msg := NewPairMessage("client-1", "mapper-1", []KeyValue{
		{Key: "Abril(04)/2021     \t\t", Value: 50.0},
		{Key: "Octubre(10)/2021\t\t", Value: 12.5},
	}, false)

	msgBytes, err := msg.ToBytes()
	require.NoError(t, err)

	decoded, err := NewPairMessageFromBytes(msgBytes)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
}

func TestNewMessageFromBytesRejectsGarbage(t *testing.T) {
	_, err := NewMessageFromBytes([]byte("not json"))
	require.Error(t, err)

	_, err = NewEofMessageFromBytes([]byte("{"))
	require.Error(t, err)
}

func TestEofMessagesCarryBatchCount(t *testing.T) {
	end := NewStreamEndMessage(DATA_TYPE_TRANSACTIONS, "client-1", 7)
	endBytes, err := end.ToBytes()
	require.NoError(t, err)
	decodedEnd, err := NewMessageFromBytes(endBytes)
	require.NoError(t, err)
	require.True(t, decodedEnd.IsEof)
	require.Equal(t, 7, decodedEnd.BatchCount)

	broadcast := NewEofMessage(DATA_TYPE_TRANSACTIONS, "client-1", "2", 7)
	broadcastBytes, err := broadcast.ToBytes()
	require.NoError(t, err)
	decodedBroadcast, err := NewEofMessageFromBytes(broadcastBytes)
	require.NoError(t, err)
	require.Equal(t, broadcast, decodedBroadcast)

	forwarded := NewPairEofMessage("client-1", "2", 7)
	require.True(t, forwarded.IsEof)
	require.Empty(t, forwarded.Pairs)
	require.Equal(t, 7, forwarded.ExpectedBatches)
}
