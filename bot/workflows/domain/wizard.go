package domain

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/wizard"
	"DnsBot/bot/fields"
	"DnsBot/entity"
	"DnsBot/internal/lib/sl"
	"DnsBot/internal/lib/validate"
)

const WizardID = "register_zone"

// Metadata keys
const (
	KeyRequestedBy = "requested_by"
)

// Registrar is the part of the DNS gateway zone registration needs.
type Registrar interface {
	RegisterDomain(ctx context.Context, input entity.ZoneInput) (*entity.Zone, error)
}

// Fields of the registration wizard, in order.
func Fields() []fields.Definition {
	return []fields.Definition{
		{
			Key: "name", Label: "Zone name", Kind: fields.KindText,
			Rule: "required,fqdn", Required: true,
			Hint: "The apex domain, e.g. example.com.",
			Validate: func(v any) (any, error) {
				return strings.ToLower(strings.TrimSuffix(v.(string), ".")), nil
			},
		},
		{
			Key: "type", Label: "Zone type", Kind: fields.KindSelect,
			Options: []fields.Option{
				{Label: "Full", Value: entity.ZoneTypeFull},
				{Label: "Partial (CNAME setup)", Value: entity.ZoneTypePartial},
			},
			Default: entity.ZoneTypeFull,
		},
		{
			Key: "jump_start", Label: "Import existing records", Kind: fields.KindBoolean,
			Default: false,
			Hint:    "Scan for common records and copy them into the zone.",
		},
	}
}

// NewWizard builds the zone registration wizard.
func NewWizard(registrar Registrar, log *slog.Logger) *wizard.Wizard {
	log = log.With(sl.Module("workflows.domain"))

	return &wizard.Wizard{
		ID:     WizardID,
		Title:  "Register zone",
		Fields: Fields(),
		OnComplete: func(ctx context.Context, m chat.Messenger, key chat.ChatKey, values, metadata map[string]any) error {
			input := ZoneInput(values)
			if err := validate.Struct(&input); err != nil {
				return fmt.Errorf("invalid zone: %w", err)
			}

			zone, err := registrar.RegisterDomain(ctx, input)
			if err != nil {
				return fmt.Errorf("registering zone: %w", err)
			}
			log.Info("zone registered",
				slog.String("zone", zone.Name),
				slog.String("zone_id", zone.ID),
				slog.Any("requested_by", metadata[KeyRequestedBy]),
			)
			return m.SendText(key.ChatID, registeredMessage(zone))
		},
		OnCancel: func(ctx context.Context, m chat.Messenger, key chat.ChatKey, metadata map[string]any) error {
			return m.SendText(key.ChatID, "Zone registration cancelled.")
		},
	}
}

// ZoneInput maps the collected wizard values onto a registration request.
func ZoneInput(values map[string]any) entity.ZoneInput {
	var input entity.ZoneInput
	input.Name, _ = values["name"].(string)
	input.Type, _ = values["type"].(string)
	if input.Type == "" {
		input.Type = entity.ZoneTypeFull
	}
	input.JumpStart, _ = values["jump_start"].(bool)
	return input
}

func registeredMessage(zone *entity.Zone) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ Zone <b>%s</b> registered, status <i>%s</i>.",
		html.EscapeString(zone.Name), html.EscapeString(zone.Status)))
	if len(zone.NameServers) > 0 {
		b.WriteString("\nPoint the domain at these name servers:")
		for _, ns := range zone.NameServers {
			b.WriteString("\n<code>" + html.EscapeString(ns) + "</code>")
		}
	}
	return b.String()
}
