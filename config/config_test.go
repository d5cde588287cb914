package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("json with defaults", func(t *testing.T) {
		path := writeFile(t, "conf.json", `{"mode":"release","firebase_push_config":{"bundle_id":"com.example.app"}}`)

		conf, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "release", conf.Mode)
		assert.Equal(t, defaultPort, conf.Port)
		assert.Equal(t, config_entries.FileStore, conf.StoreConfig.Driver)
		assert.Equal(t, defaultStoreFilePath, conf.StoreConfig.FilePath)
		assert.Equal(t, defaultTopicTimeout, conf.TopicTimeout)
		assert.Equal(t, "com.example.app", conf.FirebasePushConfig.BundleID)
		assert.Equal(t, 5, conf.FirebasePushConfig.MaxExchangeRetries)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "conf.yaml", `
mode: test
port: 9090
store_config:
  driver: redis
cache_config:
  redis_addr: localhost:6379
  key_prefix: "fcm_bridge:"
mq_config:
  enabled: true
`)
		conf, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, conf.Port)
		assert.Equal(t, config_entries.RedisStore, conf.StoreConfig.Driver)
		assert.Equal(t, "fcm_bridge:", conf.CacheConfig.KeyPrefix)
		assert.Equal(t, "topic_command_stream", conf.Mq.TopicCommandStream)
		assert.Equal(t, "fcm_bridge_group", conf.Mq.GroupName)
		assert.Equal(t, 1, conf.Mq.Concurrency)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("FCM_BRIDGE_PORT", "7070")
		t.Setenv("FCM_BRIDGE_STORE_DRIVER", "memory")
		t.Setenv("FIREBASE_PROJECT_ID", "demo-project")

		conf, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 7070, conf.Port)
		assert.Equal(t, config_entries.MemoryStore, conf.StoreConfig.Driver)
		assert.Equal(t, "demo-project", conf.FirebasePushConfig.ProjectID)
	})

	t.Run("bad env port", func(t *testing.T) {
		t.Setenv("FCM_BRIDGE_PORT", "eighty")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		conf    AppConfig
		wantErr bool
	}{
		{name: "empty is fine", conf: AppConfig{}},
		{name: "unknown mode", conf: AppConfig{Mode: "staging"}, wantErr: true},
		{name: "unknown log mode", conf: AppConfig{LogMode: "prod"}, wantErr: true},
		{name: "log mode overrides mode", conf: AppConfig{Mode: "debug", LogMode: "release"}},
		{name: "unknown driver", conf: AppConfig{StoreConfig: config_entries.StoreConfig{Driver: "sqlite"}}, wantErr: true},
		{name: "redis without addr", conf: AppConfig{StoreConfig: config_entries.StoreConfig{Driver: "redis"}}, wantErr: true},
		{name: "mysql without dsn", conf: AppConfig{StoreConfig: config_entries.StoreConfig{Driver: "mysql"}}, wantErr: true},
		{name: "mysql with dsn", conf: AppConfig{
			StoreConfig: config_entries.StoreConfig{Driver: "mysql"},
			DBConfig:    config_entries.DBConfigItem{DSN: "root@tcp(localhost:3306)/fcm"},
		}},
		{name: "mq without redis", conf: AppConfig{Mq: config_entries.MqConfig{Enabled: true}}, wantErr: true},
		{name: "port out of range", conf: AppConfig{Port: 70000}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFirebaseCredentials(t *testing.T) {
	path := writeFile(t, "sa.json", `{"type":"service_account"}`)
	conf := AppConfig{}
	conf.FirebasePushConfig.ServiceAccountFile = path

	creds, err := conf.FirebaseCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(creds))

	conf.FirebasePushConfig.ServiceAccountFileContent = `{"inline":true}`
	creds, err = conf.FirebaseCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"inline":true}`, string(creds))
}
