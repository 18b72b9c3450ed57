package client

const (
	DEFAULT_BATCH_SIZE = 500
	DEFAULT_PATTERN    = "transactions"
)

type ClientConfig struct {
	DataPath   string
	Pattern    string
	BatchSize  int
	SkipHeader bool
}

func NewClientConfig(dataPath, pattern string, batchSize int, skipHeader bool) ClientConfig {
	if batchSize <= 0 {
		batchSize = DEFAULT_BATCH_SIZE
	}
	return ClientConfig{
		DataPath:   dataPath,
		Pattern:    pattern,
		BatchSize:  batchSize,
		SkipHeader: skipHeader,
	}
}
