package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/Astemirdum/library-management/pkg/redis"
	"github.com/Astemirdum/library-management/pkg/server"
)

type Auth struct {
	JWTSecret string        `json:"-" envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `yaml:"tokenTTL" envconfig:"JWT_TTL" default:"24h"`
}

// Bootstrap describes the librarian created on an empty database.
// No account is created when Username is empty.
type Bootstrap struct {
	Username string `envconfig:"BOOTSTRAP_LIBRARIAN_USERNAME"`
	Password string `json:"-" envconfig:"BOOTSTRAP_LIBRARIAN_PASSWORD"`
	Email    string `envconfig:"BOOTSTRAP_LIBRARIAN_EMAIL" default:"librarian@library.local"`
	FullName string `envconfig:"BOOTSTRAP_LIBRARIAN_FULL_NAME" default:"Head Librarian"`
}

type Config struct {
	Server    server.Config `yaml:"server"`
	Database  postgres.DB   `yaml:"db"`
	Redis     redis.Config
	Kafka     kafka.Config
	Auth      Auth
	Bootstrap Bootstrap
	Log       logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Options set values the environment may override.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
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
