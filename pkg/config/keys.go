package config

const (
	LoggingLevel = "logging.level"
	LoggingMode  = "logging.mode"

	StoreDriver       = "store.driver"
	StorePath         = "store.path"
	StoreDSN          = "store.dsn"
	StoreMaxOpenConns = "store.maxopenconns"

	LookupCacheSize = "lookup.cachesize"

	MatchingQueryTimeout  = "matching.querytimeout"
	MatchingRemoteTimeout = "matching.remotetimeout"
	MatchingRemoteRefresh = "matching.remoterefresh"

	RevisionFile            = "revision.file"
	RevisionRefreshInterval = "revision.refreshinterval"
	RevisionRetryInterval   = "revision.retryinterval"
	RevisionGracePeriod     = "revision.graceperiod"

	TokensSecret = "tokens.secret"
	TokensIssuer = "tokens.issuer"
	TokensTTL    = "tokens.ttl"

	LifecycleMaxConcurrent  = "lifecycle.maxconcurrent"
	LifecycleMaxAttempts    = "lifecycle.maxattempts"
	LifecycleInitialBackoff = "lifecycle.initialbackoff"

	NotifyBackend       = "notify.backend"
	NotifyRedisAddr     = "notify.redisaddr"
	NotifyRedisPassword = "notify.redispassword"
	NotifyRedisDB       = "notify.redisdb"
	NotifyKeyPrefix     = "notify.keyprefix"

	OutputBackend  = "output.backend"
	OutputBucket   = "output.bucket"
	OutputRegion   = "output.region"
	OutputEndpoint = "output.endpoint"

	HousekeepingInterval = "housekeeping.interval"
	HousekeepingWorkers  = "housekeeping.workers"
)
