// Package log содержит настройку zap-логгера для всего приложения.
package log

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config представляет конфигурацию логгера
type Config struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// DefaultConfig возвращает конфигурацию логгера по умолчанию
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		FilePath:   "logs/igmonitor.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// New создает логгер из переменных окружения (LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT, LOG_FILE_PATH)
func New() (*zap.Logger, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("LOG_FILE_PATH"); v != "" {
		cfg.FilePath = v
	}
	return NewWithConfig(cfg)
}

// NewWithConfig создает логгер с кастомной конфигурацией
func NewWithConfig(config Config) (*zap.Logger, error) {
	// Настройка энкодера
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "msg"
	encoderConfig.LevelKey = "level"

	// Выбор формата (JSON или Console)
	var encoder zapcore.Encoder
	if config.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	// Настройка уровня логирования
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Настройка вывода
	var cores []zapcore.Core

	// Console output
	if config.Output == "stdout" || config.Output == "both" {
		consoleCore := zapcore.NewCore(
			encoder,
			zapcore.AddSync(os.Stdout),
			level,
		)
		cores = append(cores, consoleCore)
	}

	// File output
	if config.Output == "file" || config.Output == "both" {
		// Создаем директорию для логов
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, err
		}

		// Настройка ротации логов
		rotator := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSize, // MB
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge, // days
			Compress:   true,
		}

		fileCore := zapcore.NewCore(
			encoder,
			zapcore.AddSync(rotator),
			level,
		)
		cores = append(cores, fileCore)
	}

	// Создаем логгер с несколькими ядрами
	core := zapcore.NewTee(cores...)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, nil
}

// NewNop создает пустой логгер для случаев, когда логирование не нужно
func NewNop() *zap.Logger {
	return zap.NewNop()
}
