package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shitamachi/fcm-bridge/api"
	"github.com/shitamachi/fcm-bridge/apns"
	"github.com/shitamachi/fcm-bridge/cache"
	"github.com/shitamachi/fcm-bridge/config"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/fcm"
	"github.com/shitamachi/fcm-bridge/log"
	"github.com/shitamachi/fcm-bridge/mq"
	"github.com/shitamachi/fcm-bridge/push"
	"github.com/shitamachi/fcm-bridge/router"
	"github.com/shitamachi/fcm-bridge/service"
	"github.com/shitamachi/redisqueue/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge and its HTTP relay",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := log.InitLogger(conf)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		zap.ReplaceGlobals(logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = log.SetLoggerToContext(ctx, logger)

		return serve(ctx, conf, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, conf *config.AppConfig, logger *zap.Logger) error {
	var redisClient *redis.Client
	if needsRedis(conf) {
		var err error
		if redisClient, err = cache.InitRedis(ctx, conf.CacheConfig); err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("Serve: init redis client successfully", zap.String("addr", conf.CacheConfig.RedisAddr))
	}

	kv, closeStore, err := openStore(ctx, conf, redisClient)
	if err != nil {
		return fmt.Errorf("open %s store: %w", conf.StoreConfig.Driver, err)
	}
	defer closeStore()

	credentials, err := conf.FirebaseCredentials()
	if err != nil {
		return fmt.Errorf("read firebase credentials: %w", err)
	}
	sdk, err := push.NewFirebasePush(ctx, conf.FirebasePushConfig, credentials, logger)
	if err != nil {
		return err
	}

	registrar := apns.NewRegistrar(logger)
	manager := fcm.NewManager(sdk, registrar, kv,
		fcm.WithLogger(logger),
		fcm.WithTopicTimeout(time.Duration(conf.TopicTimeout)*time.Second),
	)

	pushers := map[config_entries.PushType]push.Pusher{config_entries.FirebasePush: sdk}
	if conf.ApplePushConfig.Enabled() {
		applePush, err := push.NewApplePushClient(conf.ApplePushConfig, conf.Mode, logger)
		if err != nil {
			return err
		}
		pushers[config_entries.ApplePush] = applePush
	}

	var consumer *redisqueue.Consumer
	if conf.Mq.Enabled {
		if consumer, err = startStreams(ctx, conf, logger, redisClient, manager); err != nil {
			return err
		}
	}

	manager.Configure(ctx)
	go manager.Run(ctx)

	engine := router.InitRouter(conf, api.NewAppContext(conf, logger, redisClient, manager, registrar, pushers))
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.Port),
		Handler: engine,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Serve: init server listen port", zap.Int("port", conf.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Serve: shutting down")
	case err = <-serverErr:
		logger.Error("Serve: http server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Serve: http server shutdown", zap.Error(err))
	}
	if consumer != nil {
		consumer.Shutdown()
	}
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Serve: topic requests still running at exit", zap.Error(err))
	}
	if err := sdk.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Serve: token exchanges still running at exit", zap.Error(err))
	}
	return err
}

// startStreams publishes token and push events and starts consuming topic commands.
func startStreams(
	ctx context.Context,
	conf *config.AppConfig,
	logger *zap.Logger,
	redisClient *redis.Client,
	manager *fcm.Manager,
) (*redisqueue.Consumer, error) {
	producer, err := mq.InitProducer(ctx, redisClient, conf.Mq)
	if err != nil {
		return nil, fmt.Errorf("init producer: %w", err)
	}
	manager.OnTokenReceived(service.PublishTokenChanged(ctx, producer, manager, conf.Mq.TokenChangedStream))
	manager.SetOnPushReceived(service.PublishPushReceived(producer, conf.Mq.PushReceivedStream, manager.OnPushReceived()))

	consumer, err := mq.InitConsumer(ctx, redisClient, logger, conf.Mq, conf.Mq.TopicCommandStream,
		service.ProcessTopicCommand(manager))
	if err != nil {
		return nil, fmt.Errorf("init consumer: %w", err)
	}
	go consumer.Run()

	sweeper := mq.NewSweeper(redisClient, logger, conf.Mq.TopicCommandStream, conf.Mq.GroupName, conf.Mq.MaxRetryCount)
	go sweeper.Run(ctx, time.Duration(conf.Mq.RecoverMessageDuration)*time.Millisecond)

	logger.Info("Serve: redis streams started",
		zap.String("token_changed_stream", conf.Mq.TokenChangedStream),
		zap.String("push_received_stream", conf.Mq.PushReceivedStream),
		zap.String("topic_command_stream", conf.Mq.TopicCommandStream),
	)
	return consumer, nil
}
