package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/natalie-goriela/Library-API/internal/notifier"
	"github.com/natalie-goriela/Library-API/internal/server"
	"github.com/natalie-goriela/Library-API/internal/service"
	"github.com/natalie-goriela/Library-API/pkg/kafka"
	"github.com/natalie-goriela/Library-API/pkg/logger"
	"github.com/natalie-goriela/Library-API/pkg/postgres"
)

type Config struct {
	Server   server.Config           `yaml:"server"`
	Database postgres.DB             `yaml:"db"`
	Kafka    kafka.Config            `yaml:"kafka"`
	Telegram notifier.TelegramConfig `yaml:"telegram"`
	Auth     service.AuthConfig      `yaml:"auth"`
	Log      logger.Log              `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	redacted := *cfg
	redacted.Auth.JWTKey = "***"
	redacted.Database.Password = "***"
	redacted.Telegram.BotToken = "***"
	jscfg, _ := json.MarshalIndent(redacted, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
