package log

import (
	"os"
	"path/filepath"

	"github.com/shitamachi/fcm-bridge/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func InitLogger(config *config.AppConfig) (logger *zap.Logger, err error) {

	var mode string
	if len(config.LogMode) > 0 {
		mode = config.LogMode
	} else {
		mode = config.Mode
	}

	switch mode {
	case "test":
		if err = EnsureDirExisted(config.LogFilePath); err != nil {
			return nil, err
		}
		devEncoder := newDevEncoder()
		fileCore := zapcore.NewCore(devEncoder, getLogWriter(config), zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level > zap.DebugLevel
		}))
		stdoutCore := zapcore.NewCore(devEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel)
		logger = zap.New(zapcore.NewTee(fileCore, stdoutCore), zap.AddCaller())
	case "release":
		if err = EnsureDirExisted(config.LogFilePath); err != nil {
			return nil, err
		}
		releaseEncoder := newReleaseEncoder()
		fileCore := zapcore.NewCore(releaseEncoder, getLogWriter(config), zap.InfoLevel)
		stdoutCore := zapcore.NewCore(releaseEncoder, zapcore.Lock(os.Stdout), zap.InfoLevel)
		logger = zap.New(zapcore.NewTee(fileCore, stdoutCore), zap.AddCaller())
	default:
		logger, err = zap.NewDevelopment()
	}

	return
}

func newDevEncoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func newReleaseEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func getLogWriter(config *config.AppConfig) zapcore.WriteSyncer {
	writer := &lumberjack.Logger{
		Filename:   config.LogFilePath,
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 10,
		LocalTime:  true,
		Compress:   false,
	}
	return zapcore.AddSync(writer)
}

// EnsureDirExisted creates the parent directory of every given file path.
func EnsureDirExisted(paths ...string) error {
	for _, fileOrDirPath := range paths {
		if err := os.MkdirAll(filepath.Dir(fileOrDirPath), 0o755); err != nil {
			return err
		}
	}
	return nil
}
