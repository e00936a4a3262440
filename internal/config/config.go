// Package config загружает конфигурацию mediaio.
//
// Источники в порядке приоритета: переменные окружения MIO_*, YAML-файл
// (MIO_CONFIG или путь, переданный в Load), значения env-default.
// Переменные окружения перекрывают файл, env-default заполняет только
// поля, которые остались нулевыми после чтения файла.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/mediaio/internal/pkg/apperrors"
	"github.com/Kargones/mediaio/internal/pkg/progress"
)

// Config: полная конфигурация приложения.
type Config struct {
	// Command: имя выполняемой команды. Если пусто, берётся первый
	// позиционный аргумент командной строки.
	Command string `yaml:"-" env:"MIO_COMMAND"`

	// ConfigPath: путь к YAML-файлу, из которого была загружена конфигурация.
	ConfigPath string `yaml:"-" env:"MIO_CONFIG"`

	// OutputFormat: формат результата команды (text, json).
	OutputFormat string `yaml:"outputFormat" env:"MIO_OUTPUT_FORMAT" env-default:"text"`

	// Progress: вывод прогресса copy и scrub в stderr: auto, off, json.
	// В режиме auto при JSON-выводе результата прогресс не показывается.
	Progress string `yaml:"progress" env:"MIO_PROGRESS" env-default:"auto"`

	IO      IOConfig       `yaml:"io"`
	Disk    DiskConfig     `yaml:"disk"`
	Logging LoggingConfig  `yaml:"logging"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Tracing TracingConfig  `yaml:"tracing"`
	Alert   AlertingConfig `yaml:"alerting"`

	// Params: параметры конкретного запуска, задаются только окружением.
	Params Params `yaml:"-"`
}

// Params: входные параметры команд.
type Params struct {
	// Src: исходный файл для copy и scrub.
	Src string `env:"MIO_SRC"`

	// Dst: файл назначения для copy и scrub.
	Dst string `env:"MIO_DST"`

	// Chunk: размер куска чтения в copy и scrub.
	Chunk int `env:"MIO_CHUNK" env-default:"4096"`

	// Dir: каталог для disk-usage. Пусто: Disk.WorkDir.
	Dir string `env:"MIO_DIR"`
}

// Load читает конфигурацию. path == "" означает MIO_CONFIG; если и он
// пуст, конфигурация собирается только из окружения.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv("MIO_CONFIG")
	}
	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigPath = path
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать переменные окружения", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile разбирает YAML строго: неизвестный ключ: ошибка.
func readFile(path string, cfg *Config) error {
	f, err := os.Open(path) //nolint:gosec // путь задаёт оператор
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigLoad,
			fmt.Sprintf("не удалось открыть файл конфигурации %s", path), err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewAppError(apperrors.ErrConfigParse,
			fmt.Sprintf("ошибка разбора файла конфигурации %s", path), err)
	}
	return nil
}

// Validate проверяет все секции и возвращает первую ошибку
// с кодом CONFIG.VALIDATION_FAILED.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		fn      func() error
	}{
		{"io", c.IO.Validate},
		{"disk", c.Disk.Validate},
		{"logging", c.Logging.Validate},
		{"metrics", c.Metrics.Validate},
		{"tracing", c.Tracing.Validate},
		{"alerting", c.Alert.Validate},
	}
	for _, chk := range checks {
		if err := chk.fn(); err != nil {
			return apperrors.NewAppError(apperrors.ErrConfigValidate,
				fmt.Sprintf("некорректная секция %s", chk.section), err)
		}
	}
	if !progress.ValidMode(c.Progress) {
		return apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("неизвестный режим прогресса %q", c.Progress), nil)
	}
	if c.Params.Chunk <= 0 {
		return apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("MIO_CHUNK должен быть положительным, получено %d", c.Params.Chunk), nil)
	}
	return nil
}
