package gateway

import (
	"context"
	"log/slog"
	"time"

	"DnsBot/entity"
	"DnsBot/internal/lib/sl"
)

// Observer receives the outcome of every provider call.
type Observer interface {
	ObserveGateway(operation string, took time.Duration, err error)
}

// Instrumented logs and measures calls to a DNS provider. Dialogue steps see
// it as a plain entity.DnsGateway.
type Instrumented struct {
	next     entity.DnsGateway
	observer Observer
	log      *slog.Logger
}

func NewInstrumented(next entity.DnsGateway, observer Observer, logger *slog.Logger) *Instrumented {
	return &Instrumented{
		next:     next,
		observer: observer,
		log:      logger.With(sl.Module("dns gateway")),
	}
}

func (g *Instrumented) done(operation string, t time.Time, err error, attrs ...any) {
	took := time.Since(t)
	if g.observer != nil {
		g.observer.ObserveGateway(operation, took, err)
	}
	log := g.log.With(attrs...).With(
		slog.String("operation", operation),
		slog.Duration("duration", took),
	)
	if err != nil {
		log.Error("dns gateway call", sl.Err(err))
		return
	}
	log.Debug("dns gateway call")
}

func (g *Instrumented) ListDomains(ctx context.Context) (zones []entity.Zone, err error) {
	defer func(t time.Time) {
		g.done("list_zones", t, err, slog.Int("count", len(zones)))
	}(time.Now())
	return g.next.ListDomains(ctx)
}

func (g *Instrumented) ListDnsRecords(ctx context.Context, zoneID string) (records []entity.DnsRecord, err error) {
	defer func(t time.Time) {
		g.done("list_records", t, err, slog.String("zone_id", zoneID), slog.Int("count", len(records)))
	}(time.Now())
	return g.next.ListDnsRecords(ctx, zoneID)
}

func (g *Instrumented) CreateDnsRecord(ctx context.Context, input entity.DnsRecordInput) (record *entity.DnsRecord, err error) {
	defer func(t time.Time) {
		g.done("create_record", t, err,
			slog.String("zone_id", input.ZoneID),
			slog.String("type", input.Type),
			slog.String("name", input.Name),
		)
	}(time.Now())
	return g.next.CreateDnsRecord(ctx, input)
}

func (g *Instrumented) UpdateDnsRecord(ctx context.Context, id, zoneID string, input entity.DnsRecordInput) (record *entity.DnsRecord, err error) {
	defer func(t time.Time) {
		g.done("update_record", t, err,
			slog.String("zone_id", zoneID),
			slog.String("record_id", id),
			slog.String("type", input.Type),
		)
	}(time.Now())
	return g.next.UpdateDnsRecord(ctx, id, zoneID, input)
}

func (g *Instrumented) DeleteDnsRecord(ctx context.Context, id, zoneID string) (err error) {
	defer func(t time.Time) {
		g.done("delete_record", t, err, slog.String("zone_id", zoneID), slog.String("record_id", id))
	}(time.Now())
	return g.next.DeleteDnsRecord(ctx, id, zoneID)
}

func (g *Instrumented) RegisterDomain(ctx context.Context, input entity.ZoneInput) (zone *entity.Zone, err error) {
	defer func(t time.Time) {
		g.done("register_zone", t, err, slog.String("zone", input.Name))
	}(time.Now())
	return g.next.RegisterDomain(ctx, input)
}
