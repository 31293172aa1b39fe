package zones

import (
	"context"

	"DnsBot/entity"
)

type Core interface {
	ListZones(ctx context.Context) ([]entity.Zone, error)
	ListRecords(ctx context.Context, zoneID string) ([]entity.DnsRecord, error)
}
