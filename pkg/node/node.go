// Package node assembles a broker process from its configuration.
package node

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/imdario/mergo"
	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/broker"
	"github.com/gridqueue/gridbroker/pkg/broker/claimer"
	"github.com/gridqueue/gridbroker/pkg/broker/matcher"
	"github.com/gridqueue/gridbroker/pkg/broker/revision"
	"github.com/gridqueue/gridbroker/pkg/config"
	"github.com/gridqueue/gridbroker/pkg/housekeeping"
	"github.com/gridqueue/gridbroker/pkg/jobstore/sqlstore"
	"github.com/gridqueue/gridbroker/pkg/lifecycle"
	"github.com/gridqueue/gridbroker/pkg/lookup"
	"github.com/gridqueue/gridbroker/pkg/notify"
	"github.com/gridqueue/gridbroker/pkg/output"
	"github.com/gridqueue/gridbroker/pkg/token"
)

const ephemeralSecretLength = 32

type Node struct {
	// Visible for testing
	Store        *sqlstore.Store
	Lookups      *lookup.Cache
	Tokens       *token.Issuer
	Notifier     notify.Notifier
	Manager      *lifecycle.Manager
	Broker       *broker.Broker
	Housekeeping *housekeeping.Housekeeping

	cleanupFuncs []func(ctx context.Context) error
}

// NewNode opens the store and wires every component. Settings left at their zero value
// take the defaults. Close releases what it opened.
//
//nolint:funlen
func NewNode(ctx context.Context, cfg config.BrokerConfig, opts ...sqlstore.Option) (*Node, error) {
	if err := mergo.Merge(&cfg, config.Default()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating broker config: %w", err)
	}
	c := clock.New()
	n := &Node{}

	var err error
	defer func() {
		if err != nil {
			_ = n.Close(ctx)
		}
	}()

	opts = append([]sqlstore.Option{sqlstore.WithMaxOpenConns(cfg.Store.MaxOpenConns)}, opts...)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		n.Store, err = sqlstore.NewPostgres(cfg.Store.DSN, opts...)
	default:
		n.Store, err = sqlstore.NewSQLite(cfg.Store.Path, opts...)
	}
	if err != nil {
		return nil, err
	}
	n.cleanupFuncs = append(n.cleanupFuncs, n.Store.Close)

	if n.Lookups, err = lookup.NewCache(n.Store, cfg.Lookup.CacheSize); err != nil {
		return nil, err
	}

	secret := []byte(cfg.Tokens.Secret)
	if len(secret) == 0 {
		log.Ctx(ctx).Warn().Msg("no token secret configured, tokens will not survive a restart")
		secret = make([]byte, ephemeralSecretLength)
		if _, err = rand.Read(secret); err != nil {
			return nil, err
		}
	}
	minter, err := token.NewJWTMinter(secret, cfg.Tokens.Issuer, c)
	if err != nil {
		return nil, err
	}
	n.Tokens = token.NewIssuer(token.IssuerParams{Store: n.Store, Minter: minter, TTL: cfg.Tokens.TTL, Clock: c})

	if n.Notifier, err = n.newNotifier(cfg.Notify, c); err != nil {
		return nil, err
	}
	cleaner, err := newCleaner(ctx, cfg.Output)
	if err != nil {
		return nil, err
	}

	n.Manager, err = lifecycle.NewManager(lifecycle.ManagerParams{
		Store:    n.Store,
		Lookups:  n.Lookups,
		Tokens:   n.Tokens,
		Notifier: n.Notifier,
		Cleaner:  cleaner,
		Clock:    c,
		Gate: lifecycle.GateParams{
			MaxConcurrent:  cfg.Lifecycle.MaxConcurrent,
			MaxAttempts:    cfg.Lifecycle.MaxAttempts,
			InitialBackoff: cfg.Lifecycle.InitialBackoff,
		},
	})
	if err != nil {
		return nil, err
	}
	n.cleanupFuncs = append(n.cleanupFuncs, func(context.Context) error {
		n.Manager.Wait()
		return nil
	})

	n.Broker, err = broker.NewBroker(broker.BrokerParams{
		Store: n.Store,
		Matcher: matcher.NewMatcher(matcher.MatcherParams{
			Store:         n.Store,
			Users:         n.Lookups,
			Clock:         c,
			RemoteTimeout: cfg.Matching.RemoteTimeout,
			RemoteRefresh: cfg.Matching.RemoteRefresh,
		}),
		Claimer: claimer.NewClaimer(claimer.ClaimerParams{
			Store:         n.Store,
			Hosts:         n.Lookups,
			Clock:         c,
			RemoteTimeout: cfg.Matching.RemoteTimeout,
		}),
		Revisions: revision.NewTracker(revision.TrackerParams{
			Source:          revisionSource(cfg.Revision),
			Clock:           c,
			RefreshInterval: cfg.Revision.RefreshInterval,
			RetryInterval:   cfg.Revision.RetryInterval,
			GracePeriod:     cfg.Revision.GracePeriod,
		}),
		Tokens:       n.Tokens,
		Status:       n.Manager,
		Clock:        c,
		QueryTimeout: cfg.Matching.QueryTimeout,
	})
	if err != nil {
		return nil, err
	}

	n.Housekeeping, err = housekeeping.NewHousekeeping(housekeeping.HousekeepingParams{
		Store:    n.Store,
		Interval: cfg.Housekeeping.Interval,
		Workers:  cfg.Housekeeping.Workers,
		Clock:    c,
	})
	if err != nil {
		return nil, err
	}
	n.cleanupFuncs = append(n.cleanupFuncs, func(ctx context.Context) error {
		n.Housekeeping.Stop(ctx)
		return nil
	})
	return n, nil
}

func (n *Node) newNotifier(cfg config.NotifyConfig, c clock.Clock) (notify.Notifier, error) {
	if cfg.Backend != config.NotifyBackendRedis {
		return notify.NewStoreNotifier(n.Store, c), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	n.cleanupFuncs = append(n.cleanupFuncs, func(context.Context) error { return client.Close() })
	return notify.NewRedisNotifier(notify.RedisNotifierParams{Client: client, KeyPrefix: cfg.KeyPrefix, Clock: c}), nil
}

func newCleaner(ctx context.Context, cfg config.OutputConfig) (output.Cleaner, error) {
	if cfg.Backend != config.OutputBackendS3 {
		return output.NoopCleaner{}, nil
	}
	client, err := output.NewS3Client(ctx, cfg.Region, cfg.Endpoint)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create output cleaner")
	}
	return output.NewS3Cleaner(output.S3CleanerParams{Client: client, Bucket: cfg.Bucket}), nil
}

func revisionSource(cfg config.RevisionConfig) revision.Source {
	if cfg.File == "" {
		return revision.SourceFunc(func(context.Context) (int, error) {
			return 0, errors.New("no revision file configured")
		})
	}
	return revision.FileSource{Path: cfg.File}
}

// Close releases resources in the reverse order they were acquired.
func (n *Node) Close(ctx context.Context) error {
	var errs error
	for i := len(n.cleanupFuncs) - 1; i >= 0; i-- {
		errs = errors.Join(errs, n.cleanupFuncs[i](ctx))
	}
	n.cleanupFuncs = nil
	return errs
}
