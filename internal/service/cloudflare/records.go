package cloudflare

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"DnsBot/entity"
)

func recordsPath(zoneID string) string {
	return "/zones/" + url.PathEscape(zoneID) + "/dns_records"
}

func recordPath(zoneID, id string) string {
	return recordsPath(zoneID) + "/" + url.PathEscape(id)
}

func (s *Service) ListDnsRecords(ctx context.Context, zoneID string) ([]entity.DnsRecord, error) {
	var records []entity.DnsRecord
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(recordsPerPage))

		var batch []entity.DnsRecord
		info, err := s.doRequest(ctx, http.MethodGet, recordsPath(zoneID), query, nil, &batch)
		if err != nil {
			return nil, fmt.Errorf("list records of %s: %w", zoneID, err)
		}
		records = append(records, batch...)
		if info == nil || page >= info.TotalPages || len(batch) == 0 {
			break
		}
	}
	return records, nil
}

func (s *Service) CreateDnsRecord(ctx context.Context, input entity.DnsRecordInput) (*entity.DnsRecord, error) {
	var record entity.DnsRecord
	if _, err := s.doRequest(ctx, http.MethodPost, recordsPath(input.ZoneID), nil, input, &record); err != nil {
		return nil, fmt.Errorf("create %s record: %w", input.Type, err)
	}
	return &record, nil
}

// UpdateDnsRecord overwrites the record with a full PUT body.
func (s *Service) UpdateDnsRecord(ctx context.Context, id, zoneID string, input entity.DnsRecordInput) (*entity.DnsRecord, error) {
	var record entity.DnsRecord
	if _, err := s.doRequest(ctx, http.MethodPut, recordPath(zoneID, id), nil, input, &record); err != nil {
		return nil, fmt.Errorf("update record %s: %w", id, err)
	}
	return &record, nil
}

func (s *Service) DeleteDnsRecord(ctx context.Context, id, zoneID string) error {
	if _, err := s.doRequest(ctx, http.MethodDelete, recordPath(zoneID, id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}
