// Package config loads the broker configuration from defaults, an optional YAML file,
// a .env file and GRIDBROKER_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/gridqueue/gridbroker/pkg/lib/validate"
)

const (
	environmentVariablePrefix = "GRIDBROKER"
	configType                = "yaml"
	dotEnvFile                = ".env"

	maxLifecycleAttempts   = 10
	maxHousekeepingWorkers = 64
	maxRedisDB             = 15
)

var (
	environmentVariableReplace = strings.NewReplacer(".", "_")
	configDecoderHook          = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
)

// Load reads the configuration. path may be empty, in which case only defaults and the
// environment are used.
func Load(path string) (BrokerConfig, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return BrokerConfig{}, fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(environmentVariablePrefix)
	v.SetEnvKeyReplacer(environmentVariableReplace)
	v.SetTypeByDefaultValue(true)
	for key, value := range defaults(Default()) {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return BrokerConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	var out BrokerConfig
	if err := v.Unmarshal(&out, configDecoderHook); err != nil {
		return BrokerConfig{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := out.Validate(); err != nil {
		return BrokerConfig{}, err
	}
	return out, nil
}

// Validate checks the settings that have no usable fallback.
func (c BrokerConfig) Validate() error {
	err := errors.Join(
		validate.OneOf(c.Store.Driver, []string{DriverSQLite, DriverPostgres}, "unknown store driver %q", c.Store.Driver),
		validate.OneOf(c.Notify.Backend, []string{NotifyBackendStore, NotifyBackendRedis},
			"unknown notification backend %q", c.Notify.Backend),
		validate.OneOf(c.Output.Backend, []string{OutputBackendNone, OutputBackendS3},
			"unknown output backend %q", c.Output.Backend),
		validate.IsGreaterThanZero(c.Matching.QueryTimeout, "query timeout must be greater than zero"),
		validate.IsGreaterThanZero(c.Housekeeping.Interval, "housekeeping interval must be greater than zero"),
		// zero selects the built-in default for the sizes below
		validate.IsGreaterOrEqualToZero(c.Store.MaxOpenConns, "store connection limit cannot be negative"),
		validate.IsGreaterOrEqualToZero(c.Lookup.CacheSize, "lookup cache size cannot be negative"),
		validate.IsGreaterOrEqualToZero(c.Lifecycle.MaxConcurrent, "lifecycle concurrency cannot be negative"),
		validate.IsInRange(c.Lifecycle.MaxAttempts, 0, maxLifecycleAttempts,
			"lifecycle attempts must be between 0 and %d", maxLifecycleAttempts),
		validate.IsInRange(c.Housekeeping.Workers, 0, maxHousekeepingWorkers,
			"housekeeping workers must be between 0 and %d", maxHousekeepingWorkers),
		validate.IsInRange(c.Notify.RedisDB, 0, maxRedisDB, "redis database must be between 0 and %d", maxRedisDB),
	)
	if c.Store.Driver == DriverSQLite {
		err = errors.Join(err, validate.NotBlank(c.Store.Path, "sqlite store path cannot be blank"))
	}
	if c.Store.Driver == DriverPostgres {
		err = errors.Join(err, validate.NotBlank(c.Store.DSN, "postgres DSN cannot be blank"))
	}
	if c.Output.Backend == OutputBackendS3 {
		err = errors.Join(err, validate.NotBlank(c.Output.Bucket, "s3 output bucket cannot be blank"))
	}
	return err
}

// KeyAsEnvVar returns the environment variable corresponding to a config key
func KeyAsEnvVar(key string) string {
	return strings.ToUpper(
		fmt.Sprintf("%s_%s", environmentVariablePrefix, environmentVariableReplace.Replace(key)),
	)
}
