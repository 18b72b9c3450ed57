package main

import (
	"fmt"
	"os"
	"strings"

	client "sales-analysis/src/client/lib"
	logger "sales-analysis/src/common/logger"
	middleware "sales-analysis/src/common/middleware"

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
	v.SetDefault("client.dataPath", "./data")
	v.SetDefault("client.pattern", client.DEFAULT_PATTERN)
	v.SetDefault("client.batchSize", client.DEFAULT_BATCH_SIZE)
	v.SetDefault("client.skipHeader", false)

	v.SetConfigFile("./config.yaml")
	if err := v.ReadInConfig(); err != nil {
		fmt.Println("Configuration could not be read from config file. Using env variables instead")
	}

	return v, nil
}

// PrintConfig logs the current client configuration details.
func PrintConfig(v *viper.Viper, logger *logging.Logger) {
	logger.Infof("Client startup with: dataPath: %s | pattern: %s | batchSize: %d | skipHeader: %t",
		v.GetString("client.dataPath"),
		v.GetString("client.pattern"),
		v.GetInt("client.batchSize"),
		v.GetBool("client.skipHeader"),
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

	clientConf := client.NewClientConfig(
		config.GetString("client.dataPath"),
		config.GetString("client.pattern"),
		config.GetInt("client.batchSize"),
		config.GetBool("client.skipHeader"),
	)

	c, err := client.NewClient(rabbitConf, clientConf)
	if err != nil {
		log.Errorf("Failed creating new client: %s", err)
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	log.Infof("Client id: %s", c.Id.Full)

	err = c.Run()
	if err != nil {
		log.Errorf("Client failed: %s", err)
		os.Exit(ERROR_DURING_PROCESSING_EXIT_CODE)
	}

	os.Exit(SUCCESS_EXIT_CODE)
}
