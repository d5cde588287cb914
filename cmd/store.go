package cmd

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/shitamachi/fcm-bridge/cache"
	"github.com/shitamachi/fcm-bridge/config"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/db"
	"github.com/shitamachi/fcm-bridge/store"
)

// openStore builds the token store for the configured driver. The returned
// closer releases whatever connection the store holds.
func openStore(ctx context.Context, conf *config.AppConfig, redisClient *redis.Client) (store.Store, func(), error) {
	noop := func() {}
	switch conf.StoreConfig.Driver {
	case config_entries.MemoryStore:
		return store.NewMemoryStore(), noop, nil
	case config_entries.FileStore:
		s, err := store.NewFileStore(conf.StoreConfig.FilePath)
		return s, noop, err
	case config_entries.RedisStore:
		if redisClient == nil {
			return nil, noop, fmt.Errorf("store driver redis needs a redis client")
		}
		return cache.NewRedisStore(redisClient, conf.CacheConfig.KeyPrefix), noop, nil
	case config_entries.MySQLStore:
		sqlDB, err := db.InitDB(ctx, conf.DBConfig)
		if err != nil {
			return nil, noop, err
		}
		s, err := db.NewMySQLStore(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, noop, err
		}
		return s, func() { _ = sqlDB.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", conf.StoreConfig.Driver)
	}
}

func needsRedis(conf *config.AppConfig) bool {
	return conf.Mq.Enabled || conf.StoreConfig.Driver == config_entries.RedisStore
}
