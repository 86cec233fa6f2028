package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PDF generators.
const (
	GeneratorNative   = "native"
	GeneratorSnapshot = "snapshot"
)

// ExportConfig tunes the editor feedback and PDF export. It is reloaded
// from invoicemaker.yml while the process runs.
type ExportConfig struct {
	SettleDelay      time.Duration `mapstructure:"settleDelay"`
	SavedSignal      time.Duration `mapstructure:"savedSignal"`
	Generator        string        `mapstructure:"generator"`
	FileNameTemplate string        `mapstructure:"fileNameTemplate"`
	MarginMM         float64       `mapstructure:"marginMM"`
	FooterText       string        `mapstructure:"footerText"`

	// RasterizerCommand is an HTML-to-PNG command used by the snapshot
	// generator, e.g. "wkhtmltoimage".
	RasterizerCommand string `mapstructure:"rasterizerCommand"`
}

func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SettleDelay:      300 * time.Millisecond,
		SavedSignal:      1500 * time.Millisecond,
		Generator:        GeneratorNative,
		FileNameTemplate: "Invoice-{NUMBER}-{YYYY}-{MM}-{DD}.pdf",
		MarginMM:         10,
		FooterText:       "Generated with invoicemaker",
	}
}

type ExportConfigHolder struct {
	current atomic.Value // holds ExportConfig
}

// NewStaticExportConfigHolder returns a holder that never reloads.
func NewStaticExportConfigHolder(cfg ExportConfig) *ExportConfigHolder {
	holder := &ExportConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewExportConfigHolder(log *zap.Logger) (*ExportConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("invoicemaker")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/invoicemaker")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INVOICEMAKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return newExportConfigHolder(v, log)
}

func newExportConfigHolder(v *viper.Viper, log *zap.Logger) (*ExportConfigHolder, error) {
	log = log.Named("export-config")
	setExportDefaults(v)

	found := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		found = false
	}

	cfg, err := decodeExportConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticExportConfigHolder(cfg)
	if !found {
		log.Info("no config file, using defaults")
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeExportConfig(v)
		if err != nil {
			log.Warn("invalid config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *ExportConfigHolder) Get() ExportConfig {
	return h.current.Load().(ExportConfig)
}

func setExportDefaults(v *viper.Viper) {
	defaults := DefaultExportConfig()
	v.SetDefault("export.settleDelay", defaults.SettleDelay)
	v.SetDefault("export.savedSignal", defaults.SavedSignal)
	v.SetDefault("export.generator", defaults.Generator)
	v.SetDefault("export.fileNameTemplate", defaults.FileNameTemplate)
	v.SetDefault("export.marginMM", defaults.MarginMM)
	v.SetDefault("export.footerText", defaults.FooterText)
	v.SetDefault("export.rasterizerCommand", defaults.RasterizerCommand)
}

// decodeExportConfig goes through Unmarshal rather than UnmarshalKey so
// that defaults fill keys missing from a partial file.
func decodeExportConfig(v *viper.Viper) (ExportConfig, error) {
	var file struct {
		Export ExportConfig `mapstructure:"export"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return ExportConfig{}, err
	}
	cfg := file.Export
	cfg.Generator = strings.ToLower(strings.TrimSpace(cfg.Generator))
	if err := validateExportConfig(cfg); err != nil {
		return ExportConfig{}, err
	}
	return cfg, nil
}

func validateExportConfig(cfg ExportConfig) error {
	if cfg.SettleDelay < 0 {
		return errors.New("export.settleDelay cannot be negative")
	}
	if cfg.SavedSignal <= 0 {
		return errors.New("export.savedSignal must be positive")
	}
	switch cfg.Generator {
	case GeneratorNative, GeneratorSnapshot:
	default:
		return fmt.Errorf("export.generator %q is not supported", cfg.Generator)
	}
	if strings.TrimSpace(cfg.FileNameTemplate) == "" {
		return errors.New("export.fileNameTemplate cannot be empty")
	}
	if cfg.MarginMM < 0 || cfg.MarginMM >= 100 {
		return errors.New("export.marginMM must be within [0, 100)")
	}
	return nil
}
