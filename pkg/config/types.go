package config

import "time"

// BrokerConfig is the complete configuration of a broker process.
type BrokerConfig struct {
	Logging      LoggingConfig      `yaml:"Logging"`
	Store        StoreConfig        `yaml:"Store"`
	Lookup       LookupConfig       `yaml:"Lookup"`
	Matching     MatchingConfig     `yaml:"Matching"`
	Revision     RevisionConfig     `yaml:"Revision"`
	Tokens       TokenConfig        `yaml:"Tokens"`
	Lifecycle    LifecycleConfig    `yaml:"Lifecycle"`
	Notify       NotifyConfig       `yaml:"Notify"`
	Output       OutputConfig       `yaml:"Output"`
	Housekeeping HousekeepingConfig `yaml:"Housekeeping"`
}

type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `yaml:"Level"`
	// Mode is "default" for console output or "json".
	Mode string `yaml:"Mode"`
}

type StoreConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver       string `yaml:"Driver"`
	Path         string `yaml:"Path"`
	DSN          string `yaml:"DSN"`
	MaxOpenConns int    `yaml:"MaxOpenConns"`
}

type LookupConfig struct {
	CacheSize int `yaml:"CacheSize"`
}

type MatchingConfig struct {
	QueryTimeout  time.Duration `yaml:"QueryTimeout"`
	RemoteTimeout time.Duration `yaml:"RemoteTimeout"`
	RemoteRefresh time.Duration `yaml:"RemoteRefresh"`
}

type RevisionConfig struct {
	// File holds the current image revision. Revision checks are disabled when empty.
	File            string        `yaml:"File"`
	RefreshInterval time.Duration `yaml:"RefreshInterval"`
	RetryInterval   time.Duration `yaml:"RetryInterval"`
	GracePeriod     time.Duration `yaml:"GracePeriod"`
}

type TokenConfig struct {
	Secret string        `yaml:"Secret"`
	Issuer string        `yaml:"Issuer"`
	TTL    time.Duration `yaml:"TTL"`
}

type LifecycleConfig struct {
	MaxConcurrent  int64         `yaml:"MaxConcurrent"`
	MaxAttempts    uint64        `yaml:"MaxAttempts"`
	InitialBackoff time.Duration `yaml:"InitialBackoff"`
}

type NotifyConfig struct {
	// Backend is "store" or "redis".
	Backend       string `yaml:"Backend"`
	RedisAddr     string `yaml:"RedisAddr"`
	RedisPassword string `yaml:"RedisPassword"`
	RedisDB       int    `yaml:"RedisDB"`
	KeyPrefix     string `yaml:"KeyPrefix"`
}

type OutputConfig struct {
	// Backend is "none" or "s3".
	Backend  string `yaml:"Backend"`
	Bucket   string `yaml:"Bucket"`
	Region   string `yaml:"Region"`
	Endpoint string `yaml:"Endpoint"`
}

type HousekeepingConfig struct {
	Interval time.Duration `yaml:"Interval"`
	Workers  int           `yaml:"Workers"`
}
