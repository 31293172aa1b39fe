package fields

import (
	"DnsBot/entity"
)

// Field names of the record catalogue.
const (
	Name        = "name"
	ServiceName = "srv_name"
	IPv4        = "ipv4"
	IPv6        = "ipv6"
	Target      = "target"
	Text        = "text"
	TTL         = "ttl"
	Proxied     = "proxied"
	Priority    = "priority"
	SrvPriority = "srv_priority"
	SrvWeight   = "srv_weight"
	SrvPort     = "srv_port"
	SrvTarget   = "srv_target"
)

// DefaultRegistry returns the record field catalogue with a layout for
// every supported record type.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(Name, Definition{
		Key: "name", Label: "Name", Kind: KindText,
		Rule: "required,dnsname", Required: true,
		Hint: "Relative to the zone, @ for the apex.",
	})
	r.MustRegister(ServiceName, Definition{
		Key: "name", Label: "Name", Kind: KindText,
		Rule: "required,dnsname", Required: true,
		Hint: "Service and protocol first, e.g. _sip._tcp or _sip._tcp.office.",
	})
	r.MustRegister(IPv4, Definition{
		Key: "content", Label: "IPv4 address", Kind: KindText,
		Rule: "required,ipv4", Required: true,
	})
	r.MustRegister(IPv6, Definition{
		Key: "content", Label: "IPv6 address", Kind: KindText,
		Rule: "required,ipv6", Required: true,
	})
	r.MustRegister(Target, Definition{
		Key: "content", Label: "Target", Kind: KindText,
		Rule: "required,fqdn", Required: true,
		Hint: "A fully qualified host name.",
	})
	r.MustRegister(Text, Definition{
		Key: "content", Label: "Text", Kind: KindText,
		Rule: "required,max=2048", Required: true,
	})
	r.MustRegister(TTL, Definition{
		Key: "ttl", Label: "TTL", Kind: KindNumber,
		Rule: "ttl", Required: true, Default: 1,
		Hint: "Seconds, 60 to 86400. Send 1 for automatic.",
	})
	r.MustRegister(Proxied, Definition{
		Key: "proxied", Label: "Proxied", Kind: KindBoolean,
		Required: true, Default: false,
	})
	r.MustRegister(Priority, Definition{
		Key: "priority", Label: "Priority", Kind: KindNumber,
		Rule: "min=0,max=65535", Required: true,
	})
	r.MustRegister(SrvPriority, Definition{
		Key: "data.priority", Label: "Priority", Kind: KindNumber,
		Path: []string{"data", "priority"},
		Rule: "min=0,max=65535", Required: true,
	})
	r.MustRegister(SrvWeight, Definition{
		Key: "data.weight", Label: "Weight", Kind: KindNumber,
		Path: []string{"data", "weight"},
		Rule: "min=0,max=65535", Required: true,
	})
	r.MustRegister(SrvPort, Definition{
		Key: "data.port", Label: "Port", Kind: KindNumber,
		Path: []string{"data", "port"},
		Rule: "min=1,max=65535", Required: true,
	})
	r.MustRegister(SrvTarget, Definition{
		Key: "data.target", Label: "Target", Kind: KindText,
		Path: []string{"data", "target"},
		Rule: "required,fqdn", Required: true,
	})

	r.SetLayout(entity.TypeA, Name, IPv4, TTL, Proxied)
	r.SetLayout(entity.TypeAAAA, Name, IPv6, TTL, Proxied)
	r.SetLayout(entity.TypeCNAME, Name, Target, TTL, Proxied)
	r.SetLayout(entity.TypeMX, Name, Target, Priority, TTL)
	r.SetLayout(entity.TypeTXT, Name, Text, TTL)
	r.SetLayout(entity.TypeNS, Name, Target, TTL)
	r.SetLayout(entity.TypeSRV, ServiceName, SrvPriority, SrvWeight, SrvPort, SrvTarget, TTL)

	return r
}
