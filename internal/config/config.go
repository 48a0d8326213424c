// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/safekey/internal/util"
	"github.com/alvinbaena/safekey/pkg/hibp"
	"github.com/alvinbaena/safekey/pkg/strength"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"reflect"
	"strings"
	"time"
)

type Config struct {
	Host        string   `mapstructure:"HOST" validate:"required"`
	Port        uint16   `mapstructure:"PORT" validate:"required"`
	Debug       bool     `mapstructure:"DEBUG"`
	SelfTLS     bool     `mapstructure:"SELF_TLS"`
	TLSCert     string   `mapstructure:"TLS_CERT" validate:"required_with=TLSKey"`
	TLSKey      string   `mapstructure:"TLS_KEY" validate:"required_with=TLSCert"`
	CorsOrigins []string `mapstructure:"CORS_ORIGINS" validate:"dive,eq=*|startswith=http://|startswith=https://"`

	RangeApiURL        string        `mapstructure:"RANGE_API_URL" validate:"required,url"`
	BreachTimeout      time.Duration `mapstructure:"BREACH_TIMEOUT" validate:"min=1ms,max=3s"`
	BreachRetryMax     int           `mapstructure:"BREACH_RETRY_MAX" validate:"min=0,max=1"`
	BreachRetryWaitMin time.Duration `mapstructure:"BREACH_RETRY_WAIT_MIN" validate:"min=0s"`
	BreachRetryWaitMax time.Duration `mapstructure:"BREACH_RETRY_WAIT_MAX" validate:"gtefield=BreachRetryWaitMin"`
	BreachPadding      bool          `mapstructure:"BREACH_PADDING"`
	UserAgent          string        `mapstructure:"USER_AGENT" validate:"required"`

	MinLength            int      `mapstructure:"MIN_LENGTH" validate:"min=1"`
	MaxLength            int      `mapstructure:"MAX_LENGTH" validate:"min=0"`
	SymbolAlphabetSize   int      `mapstructure:"SYMBOL_ALPHABET_SIZE" validate:"min=2"`
	OtherAlphabetSize    int      `mapstructure:"OTHER_ALPHABET_SIZE" validate:"min=2"`
	LowEntropyBits       float64  `mapstructure:"LOW_ENTROPY_BITS" validate:"gte=0"`
	HighEntropyBits      float64  `mapstructure:"HIGH_ENTROPY_BITS" validate:"gtfield=LowEntropyBits"`
	HighEntropyMinChecks int      `mapstructure:"HIGH_ENTROPY_MIN_CHECKS" validate:"min=0,max=6"`
	LowEntropyCap        int      `mapstructure:"LOW_ENTROPY_CAP" validate:"min=0,max=5"`
	CommonPatternCap     int      `mapstructure:"COMMON_PATTERN_CAP" validate:"min=0,max=5"`
	CommonPatterns       []string `mapstructure:"COMMON_PATTERNS" validate:"dive,required"`
}

// flagKeys maps CLI flag names to the configuration key they override.
var flagKeys = map[string]string{
	"host":       "HOST",
	"port":       "PORT",
	"self-tls":   "SELF_TLS",
	"tls-cert":   "TLS_CERT",
	"tls-key":    "TLS_KEY",
	"range-url":  "RANGE_API_URL",
	"timeout":    "BREACH_TIMEOUT",
	"min-length": "MIN_LENGTH",
}

func setDefaults(v *viper.Viper) {
	policy := strength.DefaultPolicy()
	breach := hibp.DefaultOptions()

	v.SetDefault("HOST", "127.0.0.1")
	v.SetDefault("PORT", 3100)
	v.SetDefault("CORS_ORIGINS", []string{"*"})
	v.SetDefault("RANGE_API_URL", breach.BaseURL)
	v.SetDefault("BREACH_TIMEOUT", breach.Timeout)
	v.SetDefault("BREACH_RETRY_MAX", breach.RetryMax)
	v.SetDefault("BREACH_RETRY_WAIT_MIN", breach.RetryWaitMin)
	v.SetDefault("BREACH_RETRY_WAIT_MAX", breach.RetryWaitMax)
	v.SetDefault("BREACH_PADDING", breach.AddPadding)
	v.SetDefault("USER_AGENT", breach.UserAgent)
	v.SetDefault("MIN_LENGTH", policy.MinLength)
	v.SetDefault("MAX_LENGTH", 256)
	v.SetDefault("SYMBOL_ALPHABET_SIZE", policy.SymbolAlphabetSize)
	v.SetDefault("OTHER_ALPHABET_SIZE", policy.OtherAlphabetSize)
	v.SetDefault("LOW_ENTROPY_BITS", policy.LowEntropyBits)
	v.SetDefault("HIGH_ENTROPY_BITS", policy.HighEntropyBits)
	v.SetDefault("HIGH_ENTROPY_MIN_CHECKS", policy.HighEntropyMinChecks)
	v.SetDefault("LOW_ENTROPY_CAP", policy.LowEntropyCap)
	v.SetDefault("COMMON_PATTERN_CAP", policy.CommonPatternCap)
	v.SetDefault("COMMON_PATTERNS", policy.CommonPatterns)
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}

	// --no-padding is the negation of BREACH_PADDING.
	if f := flags.Lookup("no-padding"); f != nil && f.Changed {
		v.Set("BREACH_PADDING", f.Value.String() != "true")
	}
	return nil
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return fmt.Sprintf("This is field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "url":
		return "This field must be an absolute URL"
	case "min", "gte":
		return fmt.Sprintf("This field must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("This field must be at most %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("This field must be greater than %s", util.ToScreamingSnakeCase(fe.Param()))
	case "gtefield":
		return fmt.Sprintf("This field must not be less than %s", util.ToScreamingSnakeCase(fe.Param()))
	}
	return fe.Error() // default error
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads the configuration from the environment, with flags (when given) taking
// precedence. No config file is required.
func Load(flags *pflag.FlagSet) (config Config, err error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	// I hate this, but it works.
	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(v, config)

	if flags != nil {
		if err = bindFlags(v, flags); err != nil {
			return
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	validate := validator.New()
	if err = validate.Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", util.ToScreamingSnakeCase(fe.Field()), msgForTag(fe)))
			}
			return config, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, ". "))
		}
		return config, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	if err = config.Policy().Validate(); err != nil {
		return config, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	return config, nil
}

// Policy builds the strength policy. The level table is not configurable from the
// environment and always uses strength.DefaultLevels.
func (c Config) Policy() strength.Policy {
	return strength.Policy{
		MinLength:            c.MinLength,
		SymbolAlphabetSize:   c.SymbolAlphabetSize,
		OtherAlphabetSize:    c.OtherAlphabetSize,
		LowEntropyBits:       c.LowEntropyBits,
		LowEntropyCap:        c.LowEntropyCap,
		HighEntropyBits:      c.HighEntropyBits,
		HighEntropyMinChecks: c.HighEntropyMinChecks,
		CommonPatternCap:     c.CommonPatternCap,
		CommonPatterns:       c.CommonPatterns,
		Levels:               strength.DefaultLevels,
	}
}

func (c Config) BreachOptions() hibp.Options {
	return hibp.Options{
		BaseURL:      c.RangeApiURL,
		Timeout:      c.BreachTimeout,
		RetryMax:     c.BreachRetryMax,
		RetryWaitMin: c.BreachRetryWaitMin,
		RetryWaitMax: c.BreachRetryWaitMax,
		AddPadding:   c.BreachPadding,
		UserAgent:    c.UserAgent,
	}
}
