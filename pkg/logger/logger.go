package logger

import (
	"os"
	"path/filepath"

	"github.com/fisker/zadmin-backend/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger 全局日志实例，Init 之前为 Nop
	Logger = zap.NewNop()
	// Sugar 带格式化的日志实例
	Sugar = Logger.Sugar()
)

// Init 初始化日志系统
func Init(cfg *config.LoggingConfig) error {
	level := parseLevel(cfg.Level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core
	if cfg.Output != "file" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}
	if cfg.Output == "file" || cfg.Output == "both" {
		// 文件使用 JSON 格式、无颜色
		fileEncoderConfig := encoderConfig
		fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		fileWriter, err := openLogFile(cfg.File)
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig),
			zapcore.AddSync(fileWriter),
			level,
		))
	}

	Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	Sugar = Logger.Sugar()
	zap.ReplaceGlobals(Logger)

	Sugar.Infof("Logger initialized: output=%s, level=%s", cfg.Output, cfg.Level)
	return nil
}

// openLogFile 以追加模式打开日志文件
func openLogFile(logFile string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }

func Debugf(format string, args ...interface{}) { Sugar.Debugf(format, args...) }

func Info(msg string, fields ...zap.Field) { Logger.Info(msg, fields...) }

func Infof(format string, args ...interface{}) { Sugar.Infof(format, args...) }

func Warn(msg string, fields ...zap.Field) { Logger.Warn(msg, fields...) }

func Warnf(format string, args ...interface{}) { Sugar.Warnf(format, args...) }

func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

func Errorf(format string, args ...interface{}) { Sugar.Errorf(format, args...) }

// Fatalf 记录日志后退出进程
func Fatalf(format string, args ...interface{}) { Sugar.Fatalf(format, args...) }

// Sync 刷新缓冲区
func Sync() {
	_ = Logger.Sync()
}

// With 创建带字段的子 logger
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}
