package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RiskThresholds tunes the overdue risk aggregation.
type RiskThresholds struct {
	// OverdueAgeDays is the minimum age before a past-due payment enters the
	// report. A payment due exactly this many days ago is included.
	OverdueAgeDays int
	// CriticalAgeDays marks a payment as critical when daysOverdue exceeds it.
	CriticalAgeDays int
	// LookupConcurrency caps in-flight customer identity lookups.
	LookupConcurrency int
}

func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		OverdueAgeDays:    5,
		CriticalAgeDays:   15,
		LookupConcurrency: 5,
	}
}

// RiskThresholdsHolder exposes the current thresholds and hot-reloads them
// from an optional risk.yml file.
type RiskThresholdsHolder struct {
	current atomic.Value // holds RiskThresholds
}

func NewRiskThresholdsHolder() (*RiskThresholdsHolder, error) {
	v := viper.New()

	v.SetConfigName("risk")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/runway/config")
	v.AddConfigPath("/etc/runway")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RUNWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults are registered before reading the file, so a risk.yml that
	// sets only some keys, or none at all, still yields a usable config.
	defaults := DefaultRiskThresholds()
	v.SetDefault("risk.overdueAgeDays", defaults.OverdueAgeDays)
	v.SetDefault("risk.criticalAgeDays", defaults.CriticalAgeDays)
	v.SetDefault("risk.lookupConcurrency", defaults.LookupConcurrency)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg, err := loadRiskThresholds(v)
	if err != nil {
		return nil, err
	}

	holder := &RiskThresholdsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := loadRiskThresholds(v)
		if err != nil {
			log.Printf("[risk-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[risk-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// loadRiskThresholds reads individual keys rather than unmarshalling the risk
// section, so registered defaults fill in whatever the file leaves out.
func loadRiskThresholds(v *viper.Viper) (RiskThresholds, error) {
	cfg := RiskThresholds{
		OverdueAgeDays:    v.GetInt("risk.overdueAgeDays"),
		CriticalAgeDays:   v.GetInt("risk.criticalAgeDays"),
		LookupConcurrency: v.GetInt("risk.lookupConcurrency"),
	}
	if err := validateRiskThresholds(cfg); err != nil {
		return RiskThresholds{}, err
	}
	return cfg, nil
}

func (h *RiskThresholdsHolder) Get() RiskThresholds {
	return h.current.Load().(RiskThresholds)
}

// NewStaticRiskThresholds wraps fixed thresholds, for tests.
func NewStaticRiskThresholds(cfg RiskThresholds) *RiskThresholdsHolder {
	holder := &RiskThresholdsHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateRiskThresholds(cfg RiskThresholds) error {
	if cfg.OverdueAgeDays < 0 {
		return errors.New("risk.overdueAgeDays cannot be negative")
	}
	if cfg.CriticalAgeDays < cfg.OverdueAgeDays {
		return errors.New("risk.criticalAgeDays cannot be below risk.overdueAgeDays")
	}
	if cfg.LookupConcurrency <= 0 {
		return errors.New("risk.lookupConcurrency must be positive")
	}
	return nil
}
