package core

import (
	"context"
	"errors"

	"DnsBot/entity"
)

var errNoGateway = errors.New("dns gateway not configured")

func (c *Core) ListZones(ctx context.Context) ([]entity.Zone, error) {
	if c.gateway == nil {
		return nil, errNoGateway
	}
	return c.gateway.ListDomains(ctx)
}

func (c *Core) ListRecords(ctx context.Context, zoneID string) ([]entity.DnsRecord, error) {
	if c.gateway == nil {
		return nil, errNoGateway
	}
	return c.gateway.ListDnsRecords(ctx, zoneID)
}
