package mapper

import (
	"sales-analysis/src/common/logger"
	"sales-analysis/src/common/middleware"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestWorker(conf MapperConfig) *MapperWorker {
	return &MapperWorker{
		log:            logger.GetLoggerWithPrefix("[MAPPER-TEST]"),
		conf:           conf,
		transform:      NewRecordTransform(conf.TransformOptions()...),
		statsPerClient: make(map[string]*Stats),
	}
}

func TestMapBatchCollectsPairsAndStatsPerClient(t *testing.T) {
	worker := newTestWorker(MapperConfig{Id: "1", Count: 1, PadKeys: true, DayFirstFallback: true})

	msg := middleware.NewMessage(middleware.DATA_TYPE_TRANSACTIONS, "client-a", []string{
		"1,ProdA,10,5.0,15/04/21 10:00,X",
		"2,ProdB,3,2.0,10/03/21 11:00,X",
		"3,ProdC,foo,2.0,10/03/21 11:00,X",
		"too,short",
	}, false)

	pairs := worker.mapBatch(msg)

	require.Equal(t, []middleware.KeyValue{
		{Key: "Abril(04)/2021     \t\t", Value: 50.0},
		{Key: "Octubre(10)/2021\t\t", Value: 6.0},
	}, pairs)

	stats := worker.statsFor("client-a")
	require.Equal(t, 4, stats.Lines)
	require.Equal(t, 2, stats.Emitted)
	require.Equal(t, 1, stats.Dropped[DropNumeric])
	require.Equal(t, 1, stats.Dropped[DropSchema])

	require.Equal(t, 0, worker.statsFor("client-b").Lines)
}

func TestMapperConfigHonoursPadding(t *testing.T) {
	worker := newTestWorker(MapperConfig{Id: "2", Count: 3, PadKeys: false})

	msg := middleware.NewMessage(middleware.DATA_TYPE_TRANSACTIONS, "client-a", []string{
		"1,ProdA,10,5.0,04/15/21 10:00,X",
	}, false)

	require.Equal(t, []middleware.KeyValue{{Key: "Abril(04)/2021", Value: 50.0}}, worker.mapBatch(msg))
	require.Equal(t, "eof.mapper.2", eofRouteKey(worker.conf.Id))
}

func TestBatchWithoutValidLinesStillYieldsPairMessage(t *testing.T) {
	worker := newTestWorker(MapperConfig{Id: "3", Count: 2, PadKeys: true})

	msg := middleware.NewMessage(middleware.DATA_TYPE_TRANSACTIONS, "client-a", []string{
		"bad,line",
		"1,P,q,1.0,04/15/21 10:00,X",
	}, false)

	response := worker.pairMessageFor(msg)
	require.False(t, response.IsEof)
	require.Empty(t, response.Pairs)
	require.Equal(t, "client-a", response.ClientId)
	require.Equal(t, "3", response.Source)

	_, err := response.ToBytes()
	require.NoError(t, err)
}
