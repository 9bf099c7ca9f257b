package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ReservationPolicy holds booking rules that operators may change without a
// restart.
type ReservationPolicy struct {
	DefaultCurrency string `mapstructure:"defaultCurrency"`
	CodePrefix      string `mapstructure:"codePrefix"`
	MaxStayNights   int    `mapstructure:"maxStayNights"`
	DefaultStatus   string `mapstructure:"defaultStatus"`
}

func DefaultReservationPolicy() ReservationPolicy {
	return ReservationPolicy{
		DefaultCurrency: "USD",
		CodePrefix:      "RES-",
		MaxStayNights:   365,
		DefaultStatus:   "CONFIRMED",
	}
}

type PolicyHolder struct {
	current atomic.Value // holds ReservationPolicy
}

// NewStaticPolicyHolder returns a holder that never reloads.
func NewStaticPolicyHolder(policy ReservationPolicy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(normalizePolicy(policy))
	return holder
}

func NewPolicyHolder(log *zap.Logger) (*PolicyHolder, error) {
	log = log.Named("config.policy")

	v := viper.New()
	v.SetConfigName("reservation")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/hotel")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HOTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReservationPolicy()
	v.SetDefault("reservation.defaultCurrency", defaults.DefaultCurrency)
	v.SetDefault("reservation.codePrefix", defaults.CodePrefix)
	v.SetDefault("reservation.maxStayNights", defaults.MaxStayNights)
	v.SetDefault("reservation.defaultStatus", defaults.DefaultStatus)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var policy ReservationPolicy
	if err := v.UnmarshalKey("reservation", &policy); err != nil {
		return nil, err
	}
	policy = normalizePolicy(policy)
	if err := validatePolicy(policy); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(policy)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated ReservationPolicy
			if err := v.UnmarshalKey("reservation", &updated); err != nil {
				log.Warn("reload failed", zap.Error(err))
				return
			}
			updated = normalizePolicy(updated)
			if err := validatePolicy(updated); err != nil {
				log.Warn("invalid policy ignored", zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("policy reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

func (h *PolicyHolder) Get() ReservationPolicy {
	if h == nil {
		return DefaultReservationPolicy()
	}
	return h.current.Load().(ReservationPolicy)
}

func normalizePolicy(p ReservationPolicy) ReservationPolicy {
	defaults := DefaultReservationPolicy()
	p.DefaultCurrency = strings.ToUpper(strings.TrimSpace(p.DefaultCurrency))
	if p.DefaultCurrency == "" {
		p.DefaultCurrency = defaults.DefaultCurrency
	}
	p.CodePrefix = strings.TrimSpace(p.CodePrefix)
	if p.CodePrefix == "" {
		p.CodePrefix = defaults.CodePrefix
	}
	if p.MaxStayNights == 0 {
		p.MaxStayNights = defaults.MaxStayNights
	}
	p.DefaultStatus = strings.ToUpper(strings.TrimSpace(p.DefaultStatus))
	if p.DefaultStatus == "" {
		p.DefaultStatus = defaults.DefaultStatus
	}
	return p
}

func validatePolicy(p ReservationPolicy) error {
	if len(p.DefaultCurrency) != 3 {
		return errors.New("reservation.defaultCurrency must be a 3-letter code")
	}
	if p.MaxStayNights < 1 {
		return errors.New("reservation.maxStayNights must be positive")
	}
	switch p.DefaultStatus {
	case "HOLD", "CONFIRMED":
	default:
		return errors.New("reservation.defaultStatus must be HOLD or CONFIRMED")
	}
	return nil
}
