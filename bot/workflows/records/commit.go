package records

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/ui"
	"DnsBot/bot/fields"
	"DnsBot/entity"
	"DnsBot/internal/lib/validate"
)

// recordInput builds the gateway request from the effective record.
func recordInput(d *chat.Dialogue) (entity.DnsRecordInput, error) {
	values := fields.Effective(d.Draft(), d.Original())
	in := entity.NewRecordInput(d.Data().GetString(KeyZoneID), d.Data().GetString(KeyRecordType), values)
	if err := validate.Struct(&in); err != nil {
		return in, fmt.Errorf("%w: record input: %w", chat.ErrConfiguration, err)
	}
	return in, nil
}

// CommitStep creates the reviewed record.
type CommitStep struct {
	r *Records
}

func (s *CommitStep) ID() chat.StepID { return StepCommit }

func (s *CommitStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	in, err := recordInput(d)
	if err != nil {
		return chat.Exit(), err
	}

	rec, err := s.r.gateway.CreateDnsRecord(ctx, in)
	if err != nil {
		return chat.Exit(), fmt.Errorf("creating record: %w", err)
	}
	s.r.log.Info("record created",
		slog.String("zone_id", in.ZoneID),
		slog.String("record_id", rec.ID),
		slog.String("type", in.Type),
		slog.String("chat", d.State.Key().String()),
	)

	msg := fmt.Sprintf("✅ Record created: <code>%s</code>", html.EscapeString(rec.Title()))
	return chat.Advance(), d.Send(msg)
}

func (s *CommitStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	return chat.Repeat(), nil
}

// SaveStep updates the record when at least one field changed, otherwise
// it returns to the menu.
type SaveStep struct {
	r *Records
}

func (s *SaveStep) ID() chat.StepID { return StepSave }

func (s *SaveStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	defs, err := s.r.layout(d)
	if err != nil {
		return chat.Exit(), err
	}

	draft, original := d.Draft(), d.Original()
	var changes []string
	for _, def := range defs {
		if !fields.Changed(draft, original, def) {
			continue
		}
		before, _ := fields.ResolveValue(original, def)
		after, _ := fields.EffectiveValue(draft, original, def)
		changes = append(changes, fmt.Sprintf("%s: <code>%s</code> → <code>%s</code>",
			html.EscapeString(def.Label),
			html.EscapeString(def.Format(before)),
			html.EscapeString(def.Format(after)),
		))
	}
	if len(changes) == 0 {
		if err := d.Send("Nothing changed."); err != nil {
			return chat.Exit(), err
		}
		return chat.JumpTo(StepMenu), nil
	}

	in, err := recordInput(d)
	if err != nil {
		return chat.Exit(), err
	}
	recordID := d.Data().GetString(KeyRecordID)
	if _, err := s.r.gateway.UpdateDnsRecord(ctx, recordID, in.ZoneID, in); err != nil {
		return chat.Exit(), fmt.Errorf("updating record: %w", err)
	}
	s.r.log.Info("record updated",
		slog.String("zone_id", in.ZoneID),
		slog.String("record_id", recordID),
		slog.Int("changes", len(changes)),
		slog.String("chat", d.State.Key().String()),
	)

	return chat.Advance(), d.Send("✅ Record updated\n" + strings.Join(changes, "\n"))
}

func (s *SaveStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	return chat.Repeat(), nil
}

// ConfirmDeleteStep shows the record and asks for confirmation.
type ConfirmDeleteStep struct {
	r *Records
}

func (s *ConfirmDeleteStep) ID() chat.StepID { return StepConfirmDelete }

func (s *ConfirmDeleteStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	defs, err := s.r.layout(d)
	if err != nil {
		return chat.Exit(), err
	}
	text := "<b>Delete this record?</b>\n\n" + summary(d, defs, false)
	return chat.Wait(), d.Prompt(text, ui.ConfirmCancelKeyboard("🗑 Delete", "✖️ Cancel"))
}

func (s *ConfirmDeleteStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	if !in.IsCallback() {
		return chat.Wait(), d.Send(pickReminder)
	}
	if in.Callback().Is(chat.ActionConfirm) {
		return chat.Advance(), nil
	}
	return chat.Wait(), nil
}

// DeleteStep removes the confirmed record.
type DeleteStep struct {
	r *Records
}

func (s *DeleteStep) ID() chat.StepID { return StepDelete }

func (s *DeleteStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	zoneID := d.Data().GetString(KeyZoneID)
	recordID := d.Data().GetString(KeyRecordID)
	if err := s.r.gateway.DeleteDnsRecord(ctx, recordID, zoneID); err != nil {
		return chat.Exit(), fmt.Errorf("deleting record: %w", err)
	}
	s.r.log.Info("record deleted",
		slog.String("zone_id", zoneID),
		slog.String("record_id", recordID),
		slog.String("chat", d.State.Key().String()),
	)
	return chat.Advance(), d.Send("🗑 Record deleted.")
}

func (s *DeleteStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	return chat.Repeat(), nil
}
