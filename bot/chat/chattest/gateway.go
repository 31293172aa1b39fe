package chattest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"DnsBot/entity"
)

// Gateway is an in-memory DnsGateway that records mutations.
type Gateway struct {
	mu      sync.Mutex
	Zones   []entity.Zone
	Records map[string][]entity.DnsRecord

	Created    []entity.DnsRecordInput
	Updated    []Update
	Deleted    []string
	Registered []entity.ZoneInput

	// Err, when set, fails every mutation.
	Err error
	// Delay holds CreateDnsRecord before it records anything.
	Delay time.Duration
}

// Update is one recorded UpdateDnsRecord call.
type Update struct {
	ID     string
	ZoneID string
	Input  entity.DnsRecordInput
}

// NewGateway returns a gateway holding one zone, example.com.
func NewGateway() *Gateway {
	return &Gateway{
		Zones:   []entity.Zone{{ID: "zone-1", Name: "example.com", Status: "active", Type: entity.ZoneTypeFull}},
		Records: make(map[string][]entity.DnsRecord),
	}
}

func (g *Gateway) ListDomains(_ context.Context) ([]entity.Zone, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]entity.Zone(nil), g.Zones...), nil
}

func (g *Gateway) ListDnsRecords(_ context.Context, zoneID string) ([]entity.DnsRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]entity.DnsRecord(nil), g.Records[zoneID]...), nil
}

func (g *Gateway) CreateDnsRecord(_ context.Context, input entity.DnsRecordInput) (*entity.DnsRecord, error) {
	time.Sleep(g.Delay)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.Created = append(g.Created, input)
	return &entity.DnsRecord{
		ID:      fmt.Sprintf("rec-%d", len(g.Created)),
		ZoneID:  input.ZoneID,
		Type:    input.Type,
		Name:    input.Name,
		Content: input.Content,
		TTL:     input.TTL,
	}, nil
}

func (g *Gateway) UpdateDnsRecord(_ context.Context, id, zoneID string, input entity.DnsRecordInput) (*entity.DnsRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.Updated = append(g.Updated, Update{ID: id, ZoneID: zoneID, Input: input})
	return &entity.DnsRecord{ID: id, ZoneID: zoneID, Type: input.Type, Name: input.Name}, nil
}

func (g *Gateway) DeleteDnsRecord(_ context.Context, id, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return g.Err
	}
	g.Deleted = append(g.Deleted, id)
	return nil
}

func (g *Gateway) RegisterDomain(_ context.Context, input entity.ZoneInput) (*entity.Zone, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.Registered = append(g.Registered, input)
	return &entity.Zone{
		ID:          fmt.Sprintf("zone-%d", len(g.Zones)+1),
		Name:        input.Name,
		Status:      "pending",
		Type:        input.Type,
		NameServers: []string{"ada.ns.cloudflare.com", "bob.ns.cloudflare.com"},
	}, nil
}
