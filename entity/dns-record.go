package entity

import (
	"fmt"
	"time"
)

const (
	TypeA     = "A"
	TypeAAAA  = "AAAA"
	TypeCNAME = "CNAME"
	TypeMX    = "MX"
	TypeTXT   = "TXT"
	TypeNS    = "NS"
	TypeSRV   = "SRV"
)

// RecordTypes lists the record types the bot can manage, in menu order.
var RecordTypes = []string{TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeTXT, TypeNS, TypeSRV}

// IsProxiable reports whether Cloudflare can proxy records of this type.
func IsProxiable(recordType string) bool {
	return recordType == TypeA || recordType == TypeAAAA || recordType == TypeCNAME
}

type DnsRecord struct {
	ID         string         `json:"id" bson:"id"`
	ZoneID     string         `json:"zone_id" bson:"zone_id"`
	ZoneName   string         `json:"zone_name" bson:"zone_name"`
	Type       string         `json:"type" bson:"type"`
	Name       string         `json:"name" bson:"name"`
	Content    string         `json:"content" bson:"content"`
	TTL        int            `json:"ttl" bson:"ttl"`
	Proxied    bool           `json:"proxied" bson:"proxied"`
	Priority   *int           `json:"priority,omitempty" bson:"priority,omitempty"`
	Data       map[string]any `json:"data,omitempty" bson:"data,omitempty"`
	Comment    string         `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedOn  time.Time      `json:"created_on" bson:"created_on"`
	ModifiedOn time.Time      `json:"modified_on" bson:"modified_on"`
}

// Fields returns the record as a plain object keyed like DnsRecordInput, the
// shape dialogues edit.
func (r *DnsRecord) Fields() map[string]any {
	f := map[string]any{
		"name": r.Name,
		"ttl":  r.TTL,
	}
	if r.Type != TypeSRV {
		f["content"] = r.Content
	}
	if IsProxiable(r.Type) {
		f["proxied"] = r.Proxied
	}
	if r.Priority != nil {
		f["priority"] = *r.Priority
	}
	if len(r.Data) > 0 {
		data := make(map[string]any, len(r.Data))
		for k, v := range r.Data {
			data[k] = v
		}
		f["data"] = data
	}
	return f
}

// Title is a one-line description for pickers.
func (r *DnsRecord) Title() string {
	content := r.Content
	if content == "" && len(r.Data) > 0 {
		content = fmt.Sprintf("%v %v", r.Data["port"], r.Data["target"])
	}
	if runes := []rune(content); len(runes) > 24 {
		content = string(runes[:21]) + "..."
	}
	return r.Type + " " + r.Name + " → " + content
}

// DnsRecordInput is the body of record create and update requests.
type DnsRecordInput struct {
	ZoneID   string         `json:"-"`
	Type     string         `json:"type" validate:"required"`
	Name     string         `json:"name" validate:"required"`
	Content  string         `json:"content,omitempty"`
	TTL      int            `json:"ttl,omitempty"`
	Proxied  *bool          `json:"proxied,omitempty"`
	Priority *int           `json:"priority,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewRecordInput builds a request from the plain object a dialogue
// collected. Numbers may have been through JSON and arrive as float64.
func NewRecordInput(zoneID, recordType string, fields map[string]any) DnsRecordInput {
	input := DnsRecordInput{
		ZoneID: zoneID,
		Type:   recordType,
	}
	if v, ok := fields["name"].(string); ok {
		input.Name = v
	}
	if v, ok := fields["content"].(string); ok {
		input.Content = v
	}
	if v, ok := number(fields["ttl"]); ok {
		input.TTL = v
	}
	if v, ok := fields["proxied"].(bool); ok && IsProxiable(recordType) {
		input.Proxied = &v
	}
	if v, ok := number(fields["priority"]); ok {
		input.Priority = &v
	}
	if data, ok := fields["data"].(map[string]any); ok && len(data) > 0 {
		input.Data = make(map[string]any, len(data))
		for k, v := range data {
			if n, ok := number(v); ok {
				input.Data[k] = n
				continue
			}
			input.Data[k] = v
		}
	}
	return input
}

func number(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
