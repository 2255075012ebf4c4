// Package broker answers job agent polls: it gates the worker, walks the matching tiers
// and hands out the claimed job together with its execution token.
package broker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gridqueue/gridbroker/pkg/broker/claimer"
	"github.com/gridqueue/gridbroker/pkg/broker/matcher"
	"github.com/gridqueue/gridbroker/pkg/broker/revision"
	"github.com/gridqueue/gridbroker/pkg/jobstore"
	"github.com/gridqueue/gridbroker/pkg/lib/validate"
	"github.com/gridqueue/gridbroker/pkg/lifecycle"
	"github.com/gridqueue/gridbroker/pkg/logger"
	"github.com/gridqueue/gridbroker/pkg/models"
	"github.com/gridqueue/gridbroker/pkg/telemetry"
)

const (
	DefaultQueryTimeout = 10 * time.Second

	tierLocal          = "local"
	tierLocalPackages  = "local-packages"
	tierRemote         = "remote"
	tierRemotePackages = "remote-packages"
)

// TokenIssuer issues and revokes the execution tokens of claimed jobs.
type TokenIssuer interface {
	Issue(ctx context.Context, job models.Job) (models.ExecutionToken, error)
	Destroy(ctx context.Context, jobID int64) error
}

// StatusSetter applies status changes through the status machine.
type StatusSetter interface {
	SetStatus(ctx context.Context, change lifecycle.StatusChange) (models.Job, error)
}

type BrokerParams struct {
	Store     jobstore.Store
	Matcher   *matcher.Matcher
	Claimer   *claimer.Claimer
	Revisions *revision.Tracker
	Tokens    TokenIssuer
	Status    StatusSetter
	Clock     clock.Clock
	// QueryTimeout bounds each matching tier.
	QueryTimeout time.Duration
}

func (p BrokerParams) Validate() error {
	return errors.Join(
		validate.NotNil(p.Store, "store cannot be nil"),
		validate.NotNil(p.Matcher, "matcher cannot be nil"),
		validate.NotNil(p.Claimer, "claimer cannot be nil"),
		validate.NotNil(p.Revisions, "revision tracker cannot be nil"),
		validate.NotNil(p.Tokens, "token issuer cannot be nil"),
		validate.NotNil(p.Status, "status setter cannot be nil"),
	)
}

type Broker struct {
	store        jobstore.Store
	matcher      *matcher.Matcher
	claimer      *claimer.Claimer
	revisions    *revision.Tracker
	tokens       TokenIssuer
	status       StatusSetter
	clock        clock.Clock
	queryTimeout time.Duration
}

func NewBroker(params BrokerParams) (*Broker, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := &Broker{
		store:        params.Store,
		matcher:      params.Matcher,
		claimer:      params.Claimer,
		revisions:    params.Revisions,
		tokens:       params.Tokens,
		status:       params.Status,
		clock:        params.Clock,
		queryTimeout: params.QueryTimeout,
	}
	if b.clock == nil {
		b.clock = clock.New()
	}
	if b.queryTimeout <= 0 {
		b.queryTimeout = DefaultQueryTimeout
	}
	return b, nil
}

// Match answers one poll. The error is only set when a job was claimed but could not be
// handed out; every other failure is reported in the response.
func (b *Broker) Match(ctx context.Context, request models.MatchRequest) (models.MatchResponse, error) {
	ctx = logger.ContextWithCELogger(ctx, request.CE)
	ctx, span := telemetry.NewSpan(ctx, "broker", "Match",
		attribute.String("ce", request.CE), attribute.String("host", request.Host))
	defer span.End()

	response, tier, err := b.match(ctx, request)
	if err != nil {
		telemetry.RecordError(span, err)
	}
	span.SetAttributes(attribute.String("outcome", response.Outcome.String()), attribute.String("tier", tier))
	matchOutcomes.Inc(ctx, attribute.String("outcome", response.Outcome.String()), attribute.String("tier", tier))
	return response, err
}

func (b *Broker) match(ctx context.Context, request models.MatchRequest) (models.MatchResponse, string, error) {
	w := request.WorkerSnapshot
	if !request.ConstraintsResolved {
		cfg, err := b.store.GetCEConfig(ctx, w.CE)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to load CE configuration")
			return models.NewNothingToRunResponse("CE configuration unavailable"), "", nil
		}
		w = cfg.Apply(w)
	}

	if response, rejected := b.gate(ctx, w); rejected {
		return response, "", nil
	}

	job, ok, err := b.exact(ctx, w, matcher.ModeLocal)
	if err != nil {
		return unavailable(ctx, err), tierLocal, nil
	}
	if ok {
		return b.finish(ctx, w, job, tierLocal)
	}
	response, ok, err := b.packages(ctx, w, matcher.ModeLocal)
	if err != nil {
		return unavailable(ctx, err), tierLocalPackages, nil
	}
	if ok {
		return response, tierLocalPackages, nil
	}
	if w.RemoteAllowed {
		job, ok, err = b.exact(ctx, w, matcher.ModeRemote)
		if err != nil {
			return unavailable(ctx, err), tierRemote, nil
		}
		if ok {
			return b.finish(ctx, w, job, tierRemote)
		}
		response, ok, err = b.packages(ctx, w, matcher.ModeRemote)
		if err != nil {
			return unavailable(ctx, err), tierRemotePackages, nil
		}
		if ok {
			return response, tierRemotePackages, nil
		}
	}

	b.recordRejection(ctx, w.CE, "nothing to run")
	b.setSiteStatus(ctx, w.CE, models.SiteStatusNoMatch)
	return models.NewNothingToRunResponse("no job matches the worker"), "", nil
}

// gate rejects workers with an outdated image or a closed queue, and records the host as
// active otherwise.
func (b *Broker) gate(ctx context.Context, w models.WorkerSnapshot) (models.MatchResponse, bool) {
	if err := b.revisions.Check(ctx, w.ImageRevision); err != nil {
		b.recordRejection(ctx, w.CE, err.Error())
		return models.NewRejectedResponse(models.RejectionStaleRevision, err.Error()), true
	}

	queue, err := b.store.GetSiteQueue(ctx, w.CE)
	switch {
	case jobstore.IsNotFound(err):
		message := fmt.Sprintf("queue %s does not exist", w.CE)
		b.recordRejection(ctx, w.CE, message)
		return models.NewRejectedResponse(models.RejectionQueueClosed, message), true
	case err != nil:
		log.Ctx(ctx).Warn().Err(err).Msg("failed to read site queue")
		return models.NewNothingToRunResponse("site queue unavailable"), true
	case !queue.IsOpen():
		message := fmt.Sprintf("queue %s is %s", w.CE, queue.Blocked)
		b.recordRejection(ctx, w.CE, message)
		return models.NewRejectedResponse(models.RejectionQueueClosed, message), true
	}

	if w.Host != "" {
		if err = b.store.MarkHostActive(ctx, w.Host, b.clock.Now()); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("host", w.Host).Msg("failed to mark host active")
		}
	}
	return models.MatchResponse{}, false
}

// exact claims a job from the best bucket the worker can run as it is. A claim lost to a
// concurrent poll is retried once.
func (b *Broker) exact(ctx context.Context, w models.WorkerSnapshot, mode matcher.Mode) (models.Job, bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		job, err := b.claimOnce(ctx, w, mode)
		switch {
		case err == nil:
			return job, true, nil
		case errors.Is(err, jobstore.ErrNoJobAvailable):
			lostClaims.Inc(ctx, attribute.String("mode", mode.String()))
		case errors.Is(err, jobstore.ErrNoMatchingBucket):
			return models.Job{}, false, nil
		default:
			return models.Job{}, false, err
		}
	}
	return models.Job{}, false, nil
}

func (b *Broker) claimOnce(ctx context.Context, w models.WorkerSnapshot, mode matcher.Mode) (models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, b.queryTimeout)
	defer cancel()

	bucket, err := b.matcher.FindBucket(ctx, w, mode)
	if err != nil {
		return models.Job{}, err
	}
	return b.claimer.Claim(ctx, bucket.ID, w, mode == matcher.ModeRemote)
}

// packages looks for a bucket the worker could run after installing packages.
func (b *Broker) packages(
	ctx context.Context, w models.WorkerSnapshot, mode matcher.Mode,
) (models.MatchResponse, bool, error) {
	if w.OnDemandImage {
		return models.MatchResponse{}, false, nil
	}
	queryCtx, cancel := context.WithTimeout(ctx, b.queryTimeout)
	defer cancel()

	missing, err := b.matcher.FindPackages(queryCtx, w, mode)
	if errors.Is(err, jobstore.ErrNoMatchingBucket) {
		return models.MatchResponse{}, false, nil
	}
	if err != nil {
		return models.MatchResponse{}, false, err
	}
	b.recordRejection(ctx, w.CE, "packages to install: "+strings.Join(missing, ","))
	b.setSiteStatus(ctx, w.CE, models.SiteStatusInstallPackage)
	return models.NewInstallPackagesResponse(missing), true, nil
}

// unavailable turns a store failure or an expired query into a harmless answer; the
// worker polls again later.
func unavailable(ctx context.Context, err error) models.MatchResponse {
	log.Ctx(ctx).Warn().Err(err).Msg("matching failed")
	return models.NewNothingToRunResponse("matching temporarily unavailable")
}

// finish issues the token of a claimed job. Without a token the job cannot run, so it is
// failed instead of being left ASSIGNED.
func (b *Broker) finish(
	ctx context.Context, w models.WorkerSnapshot, job models.Job, tier string,
) (models.MatchResponse, string, error) {
	ctx = logger.ContextWithJobLogger(ctx, job.ID)
	token, err := b.tokens.Issue(ctx, job)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to issue job token")
		if _, statusErr := b.status.SetStatus(ctx, lifecycle.StatusChange{
			JobID:          job.ID,
			NewStatus:      models.JobStatusErrorA,
			ExpectedStatus: models.JobStatusAssigned,
			Comment:        "token issuance failed",
		}); statusErr != nil {
			log.Ctx(ctx).Error().Err(statusErr).Msg("failed to move job to ERROR_A")
		}
		if destroyErr := b.tokens.Destroy(ctx, job.ID); destroyErr != nil {
			log.Ctx(ctx).Warn().Err(destroyErr).Msg("failed to destroy partial job token")
		}
		b.recordRejection(ctx, w.CE, fmt.Sprintf("token issuance failed for job %d", job.ID))
		return models.NewNothingToRunResponse("token issuance failed"), tier, NewErrTokenIssuance(job.ID, err)
	}

	b.setSiteStatus(ctx, w.CE, models.SiteStatusMatch)
	log.Ctx(ctx).Info().Str("tier", tier).Str("host", w.Host).Msg("job assigned")
	return models.NewAssignedResponse(models.AssignedJob{
		JobID:        job.ID,
		Resubmission: job.Resubmission,
		Owner:        job.Owner,
		Spec:         job.Spec,
		Token:        token.Credential,
		LegacyToken:  token.LegacyToken,
	}), tier, nil
}

func (b *Broker) recordRejection(ctx context.Context, ce, reason string) {
	err := b.store.RecordRejection(ctx, models.RejectionRecord{CE: ce, Reason: reason, Time: b.clock.Now()})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to record rejection")
	}
}

func (b *Broker) setSiteStatus(ctx context.Context, ce, status string) {
	if err := b.store.SetSiteQueueStatus(ctx, ce, status); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("status", status).Msg("failed to update site status")
	}
}
