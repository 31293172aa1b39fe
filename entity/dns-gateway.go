package entity

import "context"

// DnsGateway is the DNS provider as seen by dialogue steps.
type DnsGateway interface {
	ListDomains(ctx context.Context) ([]Zone, error)
	ListDnsRecords(ctx context.Context, zoneID string) ([]DnsRecord, error)
	CreateDnsRecord(ctx context.Context, input DnsRecordInput) (*DnsRecord, error)
	UpdateDnsRecord(ctx context.Context, id, zoneID string, input DnsRecordInput) (*DnsRecord, error)
	DeleteDnsRecord(ctx context.Context, id, zoneID string) error
	RegisterDomain(ctx context.Context, input ZoneInput) (*Zone, error)
}
