package main

import (
	"fmt"
	"os"
	"strings"

	logger "sales-analysis/src/common/logger"
	middleware "sales-analysis/src/common/middleware"
	mapper "sales-analysis/src/mapper/lib"

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
// Returns the configured Viper instance or an error.
func InitConfig() (*viper.Viper, error) {
	// A missing .env is fine: the variables may come from the real environment
	_ = godotenv.Load()

	v := viper.New()

	// Use a replacer to replace env variables underscores with points. This let us
	// use nested configurations in the config file and at the same time define
	// env variables for the nested configurations
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", "INFO")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("mapper.id", "1")
	v.SetDefault("mapper.count", 1)
	v.SetDefault("mapper.padKeys", true)
	v.SetDefault("mapper.dropDiagnostics", false)
	v.SetDefault("mapper.dayFirstFallback", true)

	// Try to read configuration from config file. If config file
	// does not exists then ReadInConfig will fail but configuration
	// can be loaded from the environment variables so we shouldn't
	// return an error in that case
	v.SetConfigFile("./config.yaml")
	if err := v.ReadInConfig(); err != nil {
		fmt.Println("Configuration could not be read from config file. Using env variables instead")
	}

	if v.GetInt("mapper.count") < 1 {
		return nil, fmt.Errorf("mapper.count must be at least 1, got %d", v.GetInt("mapper.count"))
	}

	return v, nil
}

// PrintConfig logs the current mapper configuration details.
func PrintConfig(v *viper.Viper, logger *logging.Logger) {
	logger.Infof("Mapper startup with: id: %s | mapperCount: %d | padKeys: %t | dropDiagnostics: %t | dayFirstFallback: %t",
		v.GetString("mapper.id"),
		v.GetInt("mapper.count"),
		v.GetBool("mapper.padKeys"),
		v.GetBool("mapper.dropDiagnostics"),
		v.GetBool("mapper.dayFirstFallback"),
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

	mapperConf := mapper.MapperConfig{
		Id:               config.GetString("mapper.id"),
		Count:            config.GetInt("mapper.count"),
		PadKeys:          config.GetBool("mapper.padKeys"),
		DropDiagnostics:  config.GetBool("mapper.dropDiagnostics"),
		DayFirstFallback: config.GetBool("mapper.dayFirstFallback"),
	}

	mapperWorker, err := mapper.NewMapperWorker(rabbitConf, mapperConf)
	if err != nil {
		log.Errorf("Failed creating new mapper worker: %s", err)
		os.Exit(STARTUP_ERROR_EXIT_CODE)
	}

	err = mapperWorker.Run()
	if err != nil {
		log.Errorf("Mapper worker failed: %s", err)
		os.Exit(ERROR_DURING_PROCESSING_EXIT_CODE)
	}

	os.Exit(SUCCESS_EXIT_CODE)
}
