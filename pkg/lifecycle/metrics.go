package lifecycle

import (
	"go.opentelemetry.io/otel"

	"github.com/gridqueue/gridbroker/pkg/telemetry"
)

var (
	Meter = otel.GetMeterProvider().Meter("lifecycle")
)

var (
	statusChanges = telemetry.Must(telemetry.NewCounter(Meter,
		"lifecycle.status.changes", "Job status changes by target status"))

	statusChangeFailures = telemetry.Must(telemetry.NewCounter(Meter,
		"lifecycle.status.failures", "Job status changes that were refused or lost"))

	resubmissions = telemetry.Must(telemetry.NewCounter(Meter,
		"lifecycle.resubmissions", "Resubmission requests by result code"))
)
