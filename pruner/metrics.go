package pruner

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("storage_pruner")

type metrics struct {
	prunedCounter metric.Int64Counter

	lastPruned    metric.Int64ObservableGauge
	failedHeights metric.Int64ObservableGauge

	clientReg metric.Registration
}

// WithMetrics turns on pruner metrics.
func (p *Pruner) WithMetrics() error {
	prunedCounter, err := meter.Int64Counter("prnr_pruned_counter",
		metric.WithDescription("pruner pruned entries counter"))
	if err != nil {
		return err
	}

	failedHeights, err := meter.Int64ObservableGauge("prnr_failed_counter",
		metric.WithDescription("pruner failed heights counter"))
	if err != nil {
		return err
	}

	lastPruned, err := meter.Int64ObservableGauge("prnr_last_pruned",
		metric.WithDescription("pruner highest pruned height"))
	if err != nil {
		return err
	}

	callback := func(_ context.Context, observer metric.Observer) error {
		if p.checkpoint == nil {
			// no pass has loaded the checkpoint yet
			return nil
		}
		observer.ObserveInt64(lastPruned, int64(p.checkpoint.LastPrunedHeight))
		observer.ObserveInt64(failedHeights, int64(len(p.checkpoint.FailedHeights)))
		return nil
	}

	clientReg, err := meter.RegisterCallback(callback, lastPruned, failedHeights)
	if err != nil {
		return err
	}

	p.metrics = &metrics{
		prunedCounter: prunedCounter,
		lastPruned:    lastPruned,
		failedHeights: failedHeights,
		clientReg:     clientReg,
	}
	return nil
}

func (m *metrics) close() error {
	if m == nil {
		return nil
	}

	return m.clientReg.Unregister()
}

func (m *metrics) observePrune(ctx context.Context, segment string, deleted int) {
	if m == nil {
		return
	}
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	m.prunedCounter.Add(ctx, int64(deleted), metric.WithAttributes(
		attribute.String("segment", segment)))
}
