package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	logger "sales-analysis/src/common/logger"
	middleware "sales-analysis/src/common/middleware"
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
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("sum.mapperCount", 1)
	v.SetDefault("sum.topK", 0)
	v.SetDefault("report.sink", sum.SINK_FILE)
	v.SetDefault("report.path", "./reports")
	v.SetDefault("report.align", false)

	v.SetConfigFile("./config.yaml")
	if err := v.ReadInConfig(); err != nil {
		fmt.Println("Configuration could not be read from config file. Using env variables instead")
	}

	if v.GetInt("sum.mapperCount") < 1 {
		return nil, fmt.Errorf("sum.mapperCount must be at least 1, got %d", v.GetInt("sum.mapperCount"))
	}

	return v, nil
}

// PrintConfig logs the current sum configuration details.
func PrintConfig(v *viper.Viper, logger *logging.Logger) {
	logger.Infof("Sum startup with: mapperCount: %d | topK: %d | sink: %s | path: %s | bucket: %s | prefix: %s | align: %t",
		v.GetInt("sum.mapperCount"),
		v.GetInt("sum.topK"),
		v.GetString("report.sink"),
		v.GetString("report.path"),
		v.GetString("report.bucket"),
		v.GetString("report.prefix"),
		v.GetBool("report.align"),
	)

	logger.Infof("Detected RabbitMQ configuration: host: %s | port: %d | username: %s",
		v.GetString("rabbitmq.host"),
		v.GetInt("rabbitmq.port"),
		v.GetString("rabbitmq.user"),
	)
}

func main() {
	config, err := InitConfig()
	if err != nil {
		fmt.Printf("Error initializing configuration: %v\n", err)
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	err = logger.InitGlobalLogger(config.GetString("log.level"))
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	log := logger.GetLoggerWithPrefix("[MAIN]")

	PrintConfig(config, log)

	rabbitConf := middleware.NewRabbitConfig(
		config.GetString("rabbitmq.user"),
		config.GetString("rabbitmq.pass"),
		config.GetString("rabbitmq.host"),
		config.GetInt("rabbitmq.port"),
	)

	sumConf := sum.SumConfig{
		MapperCount: config.GetInt("sum.mapperCount"),
		Report: sum.ReportConfig{
			Sink:   config.GetString("report.sink"),
			Path:   config.GetString("report.path"),
			Bucket: config.GetString("report.bucket"),
			Prefix: config.GetString("report.prefix"),
			Align:  config.GetBool("report.align"),
			TopK:   config.GetInt("sum.topK"),
		},
	}

	sink, err := sum.NewReportSink(context.Background(), sumConf.Report)
	if err != nil {
		log.Errorf("Failed creating report sink: %s", err)
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	sumWorker, err := sum.NewSumWorker(rabbitConf, sumConf, sink)
	if err != nil {
		log.Errorf("Failed creating new sum worker: %s", err)
		sink.Close()
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	err = sumWorker.Run()
	if err != nil {
		log.Errorf("Sum worker failed: %s", err)
		os.Exit(ERROR_DURING_PROCESSING_EXIT_CODE)
	}

	os.Exit(SUCCESS_EXIT_CODE)
}
