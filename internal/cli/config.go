package cli

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/registry"
)

// envPrefix is the prefix of environment variables that override flags,
// e.g. IOMAP_SORT_KEYS=true.
const envPrefix = "IOMAP"

// Config holds the settings of one command invocation, merged from flags
// and IOMAP_* environment variables.
type Config struct {
	Verbose  bool   `mapstructure:"verbose"`
	From     string `mapstructure:"from" validate:"omitempty,format"`
	Encoding string `mapstructure:"encoding"`

	To       string `mapstructure:"to" validate:"omitempty,format"`
	Out      string `mapstructure:"out"`
	Indent   int    `mapstructure:"indent" validate:"gte=0,lte=16"`
	SortKeys bool   `mapstructure:"sort-keys"`
	Watch    bool   `mapstructure:"watch" validate:"excluded_without=Out"`
}

func newValidator(reg *registry.Registry) (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		_, err := reg.Lookup(format.Identifier(fl.Field().String()))
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register format validation: %w", err)
	}
	return v, nil
}

// loadConfig reads the command's flags, overlays IOMAP_* environment
// variables, and validates the result.
func loadConfig(cmd *cobra.Command, reg *registry.Registry) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	validate, err := newValidator(reg)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
