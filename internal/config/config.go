// Package config loads srforge settings from defaults, an optional YAML file
// and SRFORGE_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/util"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SRFORGE"

// Code is a coded concept as written in the configuration.
type Code struct {
	Value   string `mapstructure:"value" yaml:"value" validate:"required"`
	Scheme  string `mapstructure:"scheme" yaml:"scheme" validate:"required"`
	Meaning string `mapstructure:"meaning" yaml:"meaning" validate:"required"`
}

// Config holds the settings that are not part of a report's metadata.
type Config struct {
	Manufacturer          string `mapstructure:"manufacturer" yaml:"manufacturer" validate:"required,max=64"`
	ManufacturerModelName string `mapstructure:"manufacturer_model_name" yaml:"manufacturer_model_name" validate:"max=64"`
	DeviceSerialNumber    string `mapstructure:"device_serial_number" yaml:"device_serial_number" validate:"max=64"`
	SoftwareVersions      string `mapstructure:"software_versions" yaml:"software_versions" validate:"max=64"`

	// UIDRoot prefixes generated UIDs. Empty means the 2.25 UUID form.
	UIDRoot               string `mapstructure:"uid_root" yaml:"uid_root" validate:"uidroot"`
	VerifyingOrganization string `mapstructure:"verifying_organization" yaml:"verifying_organization" validate:"required,max=64"`
	ProcedureCode         Code   `mapstructure:"procedure_code" yaml:"procedure_code"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
}

var keys = []string{
	"manufacturer",
	"manufacturer_model_name",
	"device_serial_number",
	"software_versions",
	"uid_root",
	"verifying_organization",
	"procedure_code.value",
	"procedure_code.scheme",
	"procedure_code.meaning",
	"log_level",
	"log_format",
}

var validate *validator.Validate

const uidRootTag = "uidroot"

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation(uidRootTag, validateUIDRoot); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", uidRootTag, err))
	}
}

func validateUIDRoot(fl validator.FieldLevel) bool {
	_, err := util.UIDGenerator(fl.Field().String())
	return err == nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("manufacturer", "srforge")
	v.SetDefault("manufacturer_model_name", "srforge")
	v.SetDefault("device_serial_number", "")
	v.SetDefault("software_versions", "dev")
	v.SetDefault("uid_root", "")
	v.SetDefault("verifying_organization", "srforge")
	v.SetDefault("procedure_code.value", code.ImagingProcedure.CodeValue)
	v.SetDefault("procedure_code.scheme", code.ImagingProcedure.CodingScheme)
	v.SetDefault("procedure_code.meaning", code.ImagingProcedure.CodeMeaning)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads the configuration. An empty path skips the file; a path that
// cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints, including the UID root syntax.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Procedure returns the configured procedure reported code.
func (c *Config) Procedure() (code.CodedEntry, error) {
	return code.New(c.ProcedureCode.Value, c.ProcedureCode.Scheme, c.ProcedureCode.Meaning)
}

// UIDGenerator returns a generator of UIDs under the configured root.
func (c *Config) UIDGenerator() (func() string, error) {
	return util.UIDGenerator(c.UIDRoot)
}

// WriteYAML writes c in the configuration file format.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
