// MIT License
//
// Copyright (c) 2026 Silo Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package host

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/silo-run/silo/log"
)

const instrumentationName = "github.com/silo-run/silo/host"

// telemetry holds the runtime's metric instruments. Instruments come from the
// globally registered meter provider, so without one they are no-ops.
type telemetry struct {
	activations   metric.Int64Counter
	deactivations metric.Int64Counter
	invocations   metric.Int64Counter
	faults        metric.Int64Counter
	duration      metric.Float64Histogram
}

func newTelemetry(logger log.Logger) *telemetry {
	meter := otel.GetMeterProvider().Meter(instrumentationName)
	tel := new(telemetry)

	var err error
	if tel.activations, err = meter.Int64Counter(
		"actor_activations_total",
		metric.WithDescription("Total number of actor activations"),
	); err != nil {
		logger.Errorf("failed to create activations counter: %v", err)
	}

	if tel.deactivations, err = meter.Int64Counter(
		"actor_deactivations_total",
		metric.WithDescription("Total number of actor deactivations"),
	); err != nil {
		logger.Errorf("failed to create deactivations counter: %v", err)
	}

	if tel.invocations, err = meter.Int64Counter(
		"actor_invocations_total",
		metric.WithDescription("Total number of actor invocations"),
	); err != nil {
		logger.Errorf("failed to create invocations counter: %v", err)
	}

	if tel.faults, err = meter.Int64Counter(
		"actor_remote_faults_total",
		metric.WithDescription("Total number of invocations translated into remote faults"),
	); err != nil {
		logger.Errorf("failed to create faults counter: %v", err)
	}

	if tel.duration, err = meter.Float64Histogram(
		"actor_invocation_duration_seconds",
		metric.WithDescription("Actor invocation duration"),
		metric.WithUnit("s"),
	); err != nil {
		logger.Errorf("failed to create duration histogram: %v", err)
	}

	return tel
}

func (t *telemetry) recordActivation(ctx context.Context, kind string) {
	if t.activations != nil {
		t.activations.Add(ctx, 1, metric.WithAttributes(attribute.String("actor.kind", kind)))
	}
}

func (t *telemetry) recordDeactivation(ctx context.Context, kind string) {
	if t.deactivations != nil {
		t.deactivations.Add(ctx, 1, metric.WithAttributes(attribute.String("actor.kind", kind)))
	}
}

func (t *telemetry) recordFault(ctx context.Context, kind string) {
	if t.faults != nil {
		t.faults.Add(ctx, 1, metric.WithAttributes(attribute.String("actor.kind", kind)))
	}
}

func (t *telemetry) recordInvocation(ctx context.Context, kind string, callType CallType, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("actor.kind", kind),
		attribute.String("call.type", callType.String()),
		attribute.Bool("call.failed", err != nil),
	)
	if t.invocations != nil {
		t.invocations.Add(ctx, 1, attrs)
	}
	if t.duration != nil {
		t.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}
