package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/Astemirdum/library-management/pkg/redis"
	"github.com/Astemirdum/library-management/pkg/server"
)

const defaultMigrationsTable = "stats_goose_db_version"

type Auth struct {
	JWTSecret string `json:"-" envconfig:"JWT_SECRET" required:"true"`
}

type Config struct {
	Server   server.Config `yaml:"server"`
	Database postgres.DB   `yaml:"db"`
	Redis    redis.Config
	Kafka    kafka.Config
	Auth     Auth
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads STATS_ prefixed variables, falling back to the unprefixed names
// so both services can run from one .env file.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("stats", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		if config.Database.MigrationsTable == "" {
			config.Database.MigrationsTable = defaultMigrationsTable
		}
		if !config.Kafka.Enabled() {
			log.Fatal("NewConfig: KAFKA_ADDRS is required")
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
