package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	client "sales-analysis/src/client/lib"
	logger "sales-analysis/src/common/logger"
	local "sales-analysis/src/local/lib"
	mapper "sales-analysis/src/mapper/lib"
	sum "sales-analysis/src/sum/lib"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

const (
	SUCCESS_EXIT_CODE                 = 0
	STARTUP_ERROR_EXIT_CODE           = 1
	ERROR_DURING_PROCESSING_EXIT_CODE = 2
)

// InitConfig initializes the application configuration using Viper.
// It reads from config.yaml and environment variables, after loading an optional .env file.
func InitConfig() (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", "INFO")
	v.SetDefault("local.workers", mapper.DEFAULT_POOL_WORKERS)
	v.SetDefault("client.dataPath", "./data")
	v.SetDefault("client.pattern", client.DEFAULT_PATTERN)
	v.SetDefault("client.batchSize", client.DEFAULT_BATCH_SIZE)
	v.SetDefault("client.skipHeader", false)
	v.SetDefault("mapper.padKeys", true)
	v.SetDefault("mapper.dropDiagnostics", false)
	v.SetDefault("mapper.dayFirstFallback", true)
	v.SetDefault("sum.topK", 0)
	v.SetDefault("report.align", false)

	v.SetConfigFile("./config.yaml")
	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Configuration could not be read from config file. Using env variables instead")
	}

	return v, nil
}

// PrintConfig logs the current local run configuration details.
func PrintConfig(v *viper.Viper, logger *logging.Logger) {
	logger.Infof("Local run with: workers: %d | dataPath: %s | pattern: %s | skipHeader: %t | padKeys: %t | dropDiagnostics: %t | dayFirstFallback: %t | topK: %d",
		v.GetInt("local.workers"),
		v.GetString("client.dataPath"),
		v.GetString("client.pattern"),
		v.GetBool("client.skipHeader"),
		v.GetBool("mapper.padKeys"),
		v.GetBool("mapper.dropDiagnostics"),
		v.GetBool("mapper.dayFirstFallback"),
		v.GetInt("sum.topK"),
	)
}

func main() {
	config, err := InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing configuration: %v\n", err)
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	err = logger.InitGlobalLogger(config.GetString("log.level"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	log := logger.GetLoggerWithPrefix("[MAIN]")

	PrintConfig(config, log)

	runnerConf := local.RunnerConfig{
		Client: client.NewClientConfig(
			config.GetString("client.dataPath"),
			config.GetString("client.pattern"),
			config.GetInt("client.batchSize"),
			config.GetBool("client.skipHeader"),
		),
		Mapper: mapper.MapperConfig{
			PadKeys:          config.GetBool("mapper.padKeys"),
			DropDiagnostics:  config.GetBool("mapper.dropDiagnostics"),
			DayFirstFallback: config.GetBool("mapper.dayFirstFallback"),
		},
		Report: sum.ReportOptions{
			Align: config.GetBool("report.align"),
			TopK:  config.GetInt("sum.topK"),
		},
		Workers: config.GetInt("local.workers"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if _, err := local.Run(ctx, runnerConf, os.Stdout); err != nil {
		log.Errorf("Local run failed: %s", err)
		stop()
		os.Exit(ERROR_DURING_PROCESSING_EXIT_CODE)
	}

	stop()
	os.Exit(SUCCESS_EXIT_CODE)
}
