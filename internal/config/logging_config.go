package config

import (
	"fmt"
	"strings"

	"github.com/Kargones/mediaio/internal/pkg/logging"
)

// LoggingConfig содержит настройки для логирования.
// Значения по умолчанию совпадают с logging.DefaultXxx.
type LoggingConfig struct {
	// Level - уровень логирования (debug, info, warn, error)
	Level string `yaml:"level" env:"MIO_LOG_LEVEL" env-default:"info"`

	// Format - формат логов (json, text)
	Format string `yaml:"format" env:"MIO_LOG_FORMAT" env-default:"text"`

	// Output - вывод логов (stderr, file); stdout занят результатом команды
	Output string `yaml:"output" env:"MIO_LOG_OUTPUT" env-default:"stderr"`

	// FilePath - путь к файлу логов (если output=file)
	FilePath string `yaml:"filePath" env:"MIO_LOG_FILE_PATH" env-default:"/var/log/mediaio.log"`

	// MaxSize - максимальный размер файла лога в MB
	MaxSize int `yaml:"maxSize" env:"MIO_LOG_MAX_SIZE" env-default:"100"`

	// MaxBackups - максимальное количество backup файлов
	MaxBackups int `yaml:"maxBackups" env:"MIO_LOG_MAX_BACKUPS" env-default:"3"`

	// MaxAge - максимальный возраст backup файлов в днях
	MaxAge int `yaml:"maxAge" env:"MIO_LOG_MAX_AGE" env-default:"7"`

	// NoCompress - не сжимать backup файлы
	NoCompress bool `yaml:"noCompress" env:"MIO_LOG_NO_COMPRESS"`
}

// Logging преобразует секцию в logging.Config.
func (c LoggingConfig) Logging() logging.Config {
	return logging.Config{
		Level:      c.Level,
		Format:     c.Format,
		Output:     c.Output,
		FilePath:   c.FilePath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   !c.NoCompress,
	}
}

// Validate проверяет перечислимые значения.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("неизвестный уровень логирования %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("неизвестный формат логов %q", c.Format)
	}
	switch strings.ToLower(c.Output) {
	case logging.OutputStderr:
	case logging.OutputFile:
		if c.FilePath == "" {
			return fmt.Errorf("filePath обязателен при output=%s", logging.OutputFile)
		}
	default:
		return fmt.Errorf("неизвестный вывод логов %q", c.Output)
	}
	return nil
}
