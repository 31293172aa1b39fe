package records

import (
	"context"
	"fmt"
	"html"
	"slices"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/ui"
	"DnsBot/entity"
)

const pickReminder = "Please choose using the buttons above."

// SelectZoneStep lists zones page by page. Buttons carry the zone's index
// in the listing kept in state. A zone seeded at start skips the step.
type SelectZoneStep struct {
	r *Records
}

func (s *SelectZoneStep) ID() chat.StepID { return StepSelectZone }

func (s *SelectZoneStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	if d.Data().GetString(KeyZoneID) != "" {
		return chat.Advance(), nil
	}

	zones, err := s.r.gateway.ListDomains(ctx)
	if err != nil {
		return chat.Exit(), fmt.Errorf("listing zones: %w", err)
	}
	if len(zones) == 0 {
		return chat.Exit(), d.Send("No zones found. Register one first.")
	}

	d.Data().Set(KeyZones, zones)
	return chat.Wait(), s.render(d, 1)
}

func (s *SelectZoneStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	if !in.IsCallback() {
		return chat.Wait(), d.Send(pickReminder)
	}

	cb := in.Callback()
	switch {
	case cb.Is(chat.ActionPage):
		page, _ := cb.Index()
		return chat.Wait(), s.render(d, page)
	case cb.Is(chat.ActionZone):
		zones, err := savedZones(d)
		if err != nil {
			return chat.Exit(), err
		}
		index, ok := cb.Index()
		if !ok || index < 0 || index >= len(zones) {
			if err := d.Send("That zone is not in the list any more."); err != nil {
				return chat.Wait(), err
			}
			return chat.Wait(), s.render(d, d.Data().GetInt(KeyZonePage))
		}
		zone := zones[index]
		d.Data().Set(KeyZoneID, zone.ID)
		d.Data().Set(KeyZoneName, zone.Name)
		return chat.Advance(), nil
	}
	return chat.Wait(), nil
}

func (s *SelectZoneStep) render(d *chat.Dialogue, page int) error {
	zones, err := savedZones(d)
	if err != nil {
		return err
	}
	names := make([]string, len(zones))
	for i, z := range zones {
		names[i] = z.Name
	}

	total := ui.CalculateTotalPages(len(names), ui.DefaultItemsPerPage)
	page = ui.ClampPage(page, total)
	d.Data().Set(KeyZonePage, page)

	items := ui.PageItems(names, page, ui.DefaultItemsPerPage)
	rows := ui.PaginatedListWithExtra(chat.ActionZone, items, page, total, ui.CancelRow())
	return d.Prompt("🌐 Choose a zone:", rows)
}

func savedZones(d *chat.Dialogue) ([]entity.Zone, error) {
	var zones []entity.Zone
	if err := d.Data().Decode(KeyZones, &zones); err != nil {
		return nil, fmt.Errorf("%w: zone listing: %w", chat.ErrConfiguration, err)
	}
	return zones, nil
}

// SelectTypeStep asks for the record type. Only types with a field layout
// are offered. A type seeded at start skips the step.
type SelectTypeStep struct {
	r *Records
}

func (s *SelectTypeStep) ID() chat.StepID { return StepSelectType }

func (s *SelectTypeStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	types := s.r.supportedTypes()
	if seeded := d.Data().GetString(KeyRecordType); slices.Contains(types, seeded) {
		return chat.Advance(), nil
	}
	buttons := make([]chat.InlineButton, len(types))
	for i, t := range types {
		buttons[i] = chat.Button(t, chat.ActionType, t)
	}
	rows := ui.GridKeyboard(buttons, 4)
	rows = append(rows, ui.CancelRow())

	text := fmt.Sprintf("Zone <b>%s</b>\nChoose the record type:", html.EscapeString(d.Data().GetString(KeyZoneName)))
	return chat.Wait(), d.Prompt(text, rows)
}

func (s *SelectTypeStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	if !in.IsCallback() {
		return chat.Wait(), d.Send(pickReminder)
	}

	cb := in.Callback()
	if !cb.Is(chat.ActionType) {
		return chat.Wait(), nil
	}
	recordType, ok := cb.Text()
	if !ok || !slices.Contains(s.r.supportedTypes(), recordType) {
		return chat.Wait(), d.Send("Unsupported record type.")
	}

	d.Data().Set(KeyRecordType, recordType)
	d.Data().Delete(chat.KeyOriginal)
	d.SetDraft(map[string]any{})
	return chat.Advance(), nil
}

// SelectRecordStep lists the zone's records page by page and loads the
// chosen one as the original entity.
type SelectRecordStep struct {
	r *Records
}

func (s *SelectRecordStep) ID() chat.StepID { return StepSelectRecord }

func (s *SelectRecordStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	zoneID := d.Data().GetString(KeyZoneID)
	all, err := s.r.gateway.ListDnsRecords(ctx, zoneID)
	if err != nil {
		return chat.Exit(), fmt.Errorf("listing records: %w", err)
	}

	types := s.r.supportedTypes()
	records := make([]entity.DnsRecord, 0, len(all))
	for _, rec := range all {
		if slices.Contains(types, rec.Type) {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return chat.Exit(), d.Send(fmt.Sprintf("No manageable records in <b>%s</b>.",
			html.EscapeString(d.Data().GetString(KeyZoneName))))
	}

	d.Data().Set(KeyRecords, records)
	return chat.Wait(), s.render(d, 1)
}

func (s *SelectRecordStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	if !in.IsCallback() {
		return chat.Wait(), d.Send(pickReminder)
	}

	cb := in.Callback()
	switch {
	case cb.Is(chat.ActionPage):
		page, _ := cb.Index()
		return chat.Wait(), s.render(d, page)
	case cb.Is(chat.ActionRecord):
		records, err := savedRecords(d)
		if err != nil {
			return chat.Exit(), err
		}
		index, ok := cb.Index()
		if !ok || index < 0 || index >= len(records) {
			if err := d.Send("That record is not in the list any more."); err != nil {
				return chat.Wait(), err
			}
			return chat.Wait(), s.render(d, d.Data().GetInt(KeyRecordPage))
		}
		rec := records[index]
		d.Data().Set(KeyRecordID, rec.ID)
		d.Data().Set(KeyRecordType, rec.Type)
		d.Data().Set(chat.KeyOriginal, rec.Fields())
		d.SetDraft(map[string]any{})
		return chat.Advance(), nil
	}
	return chat.Wait(), nil
}

func (s *SelectRecordStep) render(d *chat.Dialogue, page int) error {
	records, err := savedRecords(d)
	if err != nil {
		return err
	}
	titles := make([]string, len(records))
	for i := range records {
		titles[i] = records[i].Title()
	}

	total := ui.CalculateTotalPages(len(titles), ui.DefaultItemsPerPage)
	page = ui.ClampPage(page, total)
	d.Data().Set(KeyRecordPage, page)

	items := ui.PageItems(titles, page, ui.DefaultItemsPerPage)
	rows := ui.PaginatedListWithExtra(chat.ActionRecord, items, page, total, ui.CancelRow())
	text := fmt.Sprintf("Zone <b>%s</b>\nChoose a record:", html.EscapeString(d.Data().GetString(KeyZoneName)))
	return d.Prompt(text, rows)
}

func savedRecords(d *chat.Dialogue) ([]entity.DnsRecord, error) {
	var records []entity.DnsRecord
	if err := d.Data().Decode(KeyRecords, &records); err != nil {
		return nil, fmt.Errorf("%w: record listing: %w", chat.ErrConfiguration, err)
	}
	return records, nil
}

// supportedTypes lists record types in menu order that have a layout.
func (r *Records) supportedTypes() []string {
	types := make([]string, 0, len(entity.RecordTypes))
	for _, t := range entity.RecordTypes {
		if _, ok := r.fields.Layout(t); ok {
			types = append(types, t)
		}
	}
	return types
}
