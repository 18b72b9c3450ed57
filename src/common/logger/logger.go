package logger

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

const (
	DEFAULT_LOG_LEVEL = "INFO"
)

var (
	initOnce sync.Once
	initErr  error
)

// InitGlobalLogger sets the process-wide backend and level. Only the first call has effect.
func InitGlobalLogger(logLevel string) error {
	initOnce.Do(func() {
		initErr = setBackend(os.Stderr, logLevel)
	})
	return initErr
}

// InitLoggerWithWriter replaces the backend with one writing to w, used by tests
// that need to inspect log output.
func InitLoggerWithWriter(w io.Writer, logLevel string) error {
	return setBackend(w, logLevel)
}

func setBackend(w io.Writer, logLevel string) error {
	if logLevel == "" {
		logLevel = DEFAULT_LOG_LEVEL
	}

	logLevelCode, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}

	backend := logging.NewLogBackend(w, "", 0)

	// %{module} will be the prefix set in logging.MustGetLogger(prefix)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05.000} [%{level:.5s}] %{module}: %{message}`,
	)

	backendFormatter := logging.NewBackendFormatter(backend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	backendLeveled.SetLevel(logLevelCode, "")

	logging.SetBackend(backendLeveled)
	return nil
}

// GetLoggerWithPrefix returns a new logger with its own prefix (per module)
func GetLoggerWithPrefix(prefix string) *logging.Logger {
	return logging.MustGetLogger(prefix)
}
