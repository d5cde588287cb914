package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/shitamachi/fcm-bridge/cache"
	"github.com/shitamachi/fcm-bridge/fcm"
	"github.com/shitamachi/fcm-bridge/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type cachedTokens struct {
	APNsToken string `yaml:"cached_apns_token"`
	FCMToken  string `yaml:"cached_fcm_token"`
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Print the cached APNs and FCM tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		conf, err := loadConfig()
		if err != nil {
			return err
		}

		var redisClient *redis.Client
		if needsRedis(conf) {
			if redisClient, err = cache.InitRedis(ctx, conf.CacheConfig); err != nil {
				return err
			}
			defer redisClient.Close()
		}
		kv, closeStore, err := openStore(ctx, conf, redisClient)
		if err != nil {
			return err
		}
		defer closeStore()

		tokens, err := readCachedTokens(ctx, kv)
		if err != nil {
			return err
		}

		if useYAML {
			return yaml.NewEncoder(os.Stdout).Encode(tokens)
		}
		fmt.Printf("APNs token:   %s\n", orNone(tokens.APNsToken))
		fmt.Printf("FCM token:    %s\n", orNone(tokens.FCMToken))
		return nil
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&useYAML, "yaml", false, "Print output in YAML format")
	rootCmd.AddCommand(tokensCmd)
}

func readCachedTokens(ctx context.Context, kv store.Store) (cachedTokens, error) {
	var tokens cachedTokens
	for key, dst := range map[string]*string{
		fcm.CachedAPNsTokenKey: &tokens.APNsToken,
		fcm.CachedFCMTokenKey:  &tokens.FCMToken,
	} {
		val, err := kv.Get(ctx, key)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return tokens, fmt.Errorf("read %s: %w", key, err)
		}
		*dst = val
	}
	return tokens, nil
}

func orNone(s string) string {
	if len(s) == 0 {
		return "(none)"
	}
	return s
}
