package cloudflare

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"DnsBot/entity"
)

// ListDomains returns every zone the token can see, following pagination.
func (s *Service) ListDomains(ctx context.Context) ([]entity.Zone, error) {
	var zones []entity.Zone
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(zonesPerPage))
		if s.accountID != "" {
			query.Set("account.id", s.accountID)
		}

		var batch []entity.Zone
		info, err := s.doRequest(ctx, http.MethodGet, "/zones", query, nil, &batch)
		if err != nil {
			return nil, fmt.Errorf("list zones: %w", err)
		}
		zones = append(zones, batch...)
		if info == nil || page >= info.TotalPages || len(batch) == 0 {
			break
		}
	}
	return zones, nil
}

// RegisterDomain adds a zone to the configured account.
func (s *Service) RegisterDomain(ctx context.Context, input entity.ZoneInput) (*entity.Zone, error) {
	if input.Account.ID == "" {
		input.Account.ID = s.accountID
	}
	if input.Account.ID == "" {
		return nil, fmt.Errorf("register zone %s: account id is not configured", input.Name)
	}
	var zone entity.Zone
	if _, err := s.doRequest(ctx, http.MethodPost, "/zones", nil, input, &zone); err != nil {
		return nil, fmt.Errorf("register zone %s: %w", input.Name, err)
	}
	return &zone, nil
}
