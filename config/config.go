package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Mode               string                               `json:"mode" yaml:"mode"`         // debug | test | release; release uses the production APNs host
	LogMode            string                               `json:"log_mode" yaml:"log_mode"` // overrides Mode for the logger only
	Port               int                                  `json:"port" yaml:"port"`         // server port
	LogFilePath        string                               `json:"log_file_path" yaml:"log_file_path"`
	TopicTimeout       int                                  `json:"topic_timeout" yaml:"topic_timeout"` // seconds per subscribe/unsubscribe request
	StoreConfig        config_entries.StoreConfig           `json:"store_config" yaml:"store_config"`
	DBConfig           config_entries.DBConfigItem          `json:"db_config" yaml:"db_config"`
	CacheConfig        config_entries.CacheConfig           `json:"cache_config" yaml:"cache_config"`
	ApplePushConfig    config_entries.ApplePushSecretConfig `json:"apple_push_config" yaml:"apple_push_config"`
	FirebasePushConfig config_entries.FirebaseConfig        `json:"firebase_push_config" yaml:"firebase_push_config"`
	Mq                 config_entries.MqConfig              `json:"mq_config" yaml:"mq_config"`
}

const (
	defaultPort          = 8080
	defaultMode          = "debug"
	defaultLogFilePath   = "logs/fcm-bridge.log"
	defaultStoreFilePath = "data/tokens.json"
	defaultTopicTimeout  = 30
)

// LoadConfig reads the config file at path (json, or yaml by extension), applies
// environment overrides and fills defaults. A missing path yields a config built
// from defaults and the environment only.
func LoadConfig(path string) (*AppConfig, error) {
	// a .env next to the binary is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var conf AppConfig
	if len(path) > 0 {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := Unmarshal(path, bytes, &conf); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnvOverrides(&conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Unmarshal decodes bytes into conf, choosing the decoder by the extension of path.
func Unmarshal(path string, bytes []byte, conf *AppConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(bytes, conf); err != nil {
			return fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(bytes, conf); err != nil {
			return fmt.Errorf("parse json config %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnvOverrides overwrites config values with the matching environment variables.
func ApplyEnvOverrides(conf *AppConfig) error {
	if val := os.Getenv("FCM_BRIDGE_MODE"); val != "" {
		conf.Mode = val
	}
	if val := os.Getenv("FCM_BRIDGE_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("FCM_BRIDGE_PORT is not a number: %w", err)
		}
		conf.Port = port
	}
	if val := os.Getenv("FCM_BRIDGE_STORE_DRIVER"); val != "" {
		conf.StoreConfig.Driver = val
	}
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		conf.CacheConfig.RedisAddr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		conf.CacheConfig.RedisPassword = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		db, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("REDIS_DB is not a number: %w", err)
		}
		conf.CacheConfig.RedisDB = db
	}
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		conf.FirebasePushConfig.ProjectID = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		conf.FirebasePushConfig.ServiceAccountFile = val
	}
	return nil
}

// Validate fills defaults and rejects values that can not work.
func (c *AppConfig) Validate() error {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.Mode) == 0 {
		c.Mode = defaultMode
	}
	if !isKnownMode(c.Mode) {
		return fmt.Errorf("unknown mode %q, want one of debug, test, release", c.Mode)
	}
	if len(c.LogMode) > 0 && !isKnownMode(c.LogMode) {
		return fmt.Errorf("unknown log_mode %q, want one of debug, test, release", c.LogMode)
	}
	if len(c.LogFilePath) == 0 {
		c.LogFilePath = defaultLogFilePath
	}
	if c.TopicTimeout <= 0 {
		c.TopicTimeout = defaultTopicTimeout
	}

	if len(c.StoreConfig.Driver) == 0 {
		c.StoreConfig.Driver = config_entries.FileStore
	}
	switch c.StoreConfig.Driver {
	case config_entries.FileStore:
		if len(c.StoreConfig.FilePath) == 0 {
			c.StoreConfig.FilePath = defaultStoreFilePath
		}
	case config_entries.MemoryStore:
	case config_entries.RedisStore:
		if len(c.CacheConfig.RedisAddr) == 0 {
			return fmt.Errorf("store driver redis needs cache_config.redis_addr")
		}
	case config_entries.MySQLStore:
		if len(c.DBConfig.DSN) == 0 && len(c.DBConfig.Addr) == 0 {
			return fmt.Errorf("store driver mysql needs db_config.dsn or db_config.addr")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreConfig.Driver)
	}

	if c.Mq.Enabled {
		if len(c.CacheConfig.RedisAddr) == 0 {
			return fmt.Errorf("mq_config.enabled needs cache_config.redis_addr")
		}
		if len(c.Mq.TokenChangedStream) == 0 {
			c.Mq.TokenChangedStream = "fcm_token_changed_stream"
		}
		if len(c.Mq.PushReceivedStream) == 0 {
			c.Mq.PushReceivedStream = "push_received_stream"
		}
		if len(c.Mq.TopicCommandStream) == 0 {
			c.Mq.TopicCommandStream = "topic_command_stream"
		}
		if len(c.Mq.GroupName) == 0 {
			c.Mq.GroupName = "fcm_bridge_group"
		}
		if c.Mq.Concurrency <= 0 {
			c.Mq.Concurrency = 1
		}
		if c.Mq.StreamMaxLength <= 0 {
			c.Mq.StreamMaxLength = 10000
		}
		if c.Mq.MaxRetryCount <= 0 {
			c.Mq.MaxRetryCount = 5
		}
		if c.Mq.RecoverMessageDuration <= 0 {
			c.Mq.RecoverMessageDuration = 1000
		}
	}

	if c.FirebasePushConfig.MaxExchangeRetries <= 0 {
		c.FirebasePushConfig.MaxExchangeRetries = 5
	}
	return nil
}

func isKnownMode(mode string) bool {
	switch mode {
	case "debug", "test", "release":
		return true
	default:
		return false
	}
}

// FirebaseCredentials returns the service account JSON, reading the file variant if needed.
func (c *AppConfig) FirebaseCredentials() ([]byte, error) {
	if len(c.FirebasePushConfig.ServiceAccountFileContent) > 0 {
		return []byte(c.FirebasePushConfig.ServiceAccountFileContent), nil
	}
	if len(c.FirebasePushConfig.ServiceAccountFile) > 0 {
		return os.ReadFile(c.FirebasePushConfig.ServiceAccountFile)
	}
	return nil, nil
}
