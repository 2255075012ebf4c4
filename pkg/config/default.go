package config

import (
	"github.com/gridqueue/gridbroker/pkg/broker"
	"github.com/gridqueue/gridbroker/pkg/broker/matcher"
	"github.com/gridqueue/gridbroker/pkg/broker/revision"
	"github.com/gridqueue/gridbroker/pkg/housekeeping"
	"github.com/gridqueue/gridbroker/pkg/lifecycle"
	"github.com/gridqueue/gridbroker/pkg/lookup"
	"github.com/gridqueue/gridbroker/pkg/models"
	"github.com/gridqueue/gridbroker/pkg/token"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	NotifyBackendStore = "store"
	NotifyBackendRedis = "redis"

	OutputBackendNone = "none"
	OutputBackendS3   = "s3"
)

// Default returns the configuration of a single node broker on a local SQLite file.
func Default() BrokerConfig {
	return BrokerConfig{
		Logging: LoggingConfig{Level: "info", Mode: "default"},
		Store: StoreConfig{
			Driver:       DriverSQLite,
			Path:         "gridbroker.db",
			MaxOpenConns: 10,
		},
		Lookup: LookupConfig{CacheSize: lookup.DefaultCacheSize},
		Matching: MatchingConfig{
			QueryTimeout:  broker.DefaultQueryTimeout,
			RemoteTimeout: models.DefaultRemoteTimeout,
			RemoteRefresh: matcher.DefaultRemoteRefresh,
		},
		Revision: RevisionConfig{
			RefreshInterval: revision.DefaultRefreshInterval,
			RetryInterval:   revision.DefaultRetryInterval,
			GracePeriod:     revision.DefaultGracePeriod,
		},
		Tokens: TokenConfig{Issuer: "gridbroker", TTL: token.DefaultTTL},
		Lifecycle: LifecycleConfig{
			MaxConcurrent:  lifecycle.DefaultMaxConcurrent,
			MaxAttempts:    lifecycle.DefaultMaxAttempts,
			InitialBackoff: lifecycle.DefaultInitialBackoff,
		},
		Notify: NotifyConfig{Backend: NotifyBackendStore, RedisAddr: "localhost:6379"},
		Output: OutputConfig{Backend: OutputBackendNone},
		Housekeeping: HousekeepingConfig{
			Interval: housekeeping.DefaultInterval,
			Workers:  housekeeping.DefaultWorkers,
		},
	}
}

func defaults(cfg BrokerConfig) map[string]any {
	return map[string]any{
		LoggingLevel:            cfg.Logging.Level,
		LoggingMode:             cfg.Logging.Mode,
		StoreDriver:             cfg.Store.Driver,
		StorePath:               cfg.Store.Path,
		StoreDSN:                cfg.Store.DSN,
		StoreMaxOpenConns:       cfg.Store.MaxOpenConns,
		LookupCacheSize:         cfg.Lookup.CacheSize,
		MatchingQueryTimeout:    cfg.Matching.QueryTimeout,
		MatchingRemoteTimeout:   cfg.Matching.RemoteTimeout,
		MatchingRemoteRefresh:   cfg.Matching.RemoteRefresh,
		RevisionFile:            cfg.Revision.File,
		RevisionRefreshInterval: cfg.Revision.RefreshInterval,
		RevisionRetryInterval:   cfg.Revision.RetryInterval,
		RevisionGracePeriod:     cfg.Revision.GracePeriod,
		TokensSecret:            cfg.Tokens.Secret,
		TokensIssuer:            cfg.Tokens.Issuer,
		TokensTTL:               cfg.Tokens.TTL,
		LifecycleMaxConcurrent:  cfg.Lifecycle.MaxConcurrent,
		LifecycleMaxAttempts:    cfg.Lifecycle.MaxAttempts,
		LifecycleInitialBackoff: cfg.Lifecycle.InitialBackoff,
		NotifyBackend:           cfg.Notify.Backend,
		NotifyRedisAddr:         cfg.Notify.RedisAddr,
		NotifyRedisPassword:     cfg.Notify.RedisPassword,
		NotifyRedisDB:           cfg.Notify.RedisDB,
		NotifyKeyPrefix:         cfg.Notify.KeyPrefix,
		OutputBackend:           cfg.Output.Backend,
		OutputBucket:            cfg.Output.Bucket,
		OutputRegion:            cfg.Output.Region,
		OutputEndpoint:          cfg.Output.Endpoint,
		HousekeepingInterval:    cfg.Housekeeping.Interval,
		HousekeepingWorkers:     cfg.Housekeeping.Workers,
	}
}
