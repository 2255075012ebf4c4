package broker

import (
	"go.opentelemetry.io/otel"

	"github.com/gridqueue/gridbroker/pkg/telemetry"
)

var (
	Meter = otel.GetMeterProvider().Meter("broker")
)

var (
	matchOutcomes = telemetry.Must(telemetry.NewCounter(Meter,
		"broker.match.outcome", "Match responses by outcome and tier"))

	lostClaims = telemetry.Must(telemetry.NewCounter(Meter,
		"broker.claim.lost", "Claims that lost the race for the last job of a bucket"))
)
