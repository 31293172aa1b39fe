package records

import (
	"fmt"
	"log/slog"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/input"
	"DnsBot/bot/fields"
	"DnsBot/entity"
	"DnsBot/internal/lib/sl"
)

const (
	CreateWorkflowID chat.WorkflowID = "create_record"
	EditWorkflowID   chat.WorkflowID = "edit_record"
	DeleteWorkflowID chat.WorkflowID = "delete_record"
)

// Step IDs
const (
	StepSelectZone    chat.StepID = "select_zone"
	StepSelectType    chat.StepID = "select_type"
	StepInputWizard   chat.StepID = "input_wizard"
	StepEditField     chat.StepID = "edit_field"
	StepReview        chat.StepID = "review"
	StepCommit        chat.StepID = "commit"
	StepSelectRecord  chat.StepID = "select_record"
	StepMenu          chat.StepID = "menu"
	StepSave          chat.StepID = "save"
	StepConfirmDelete chat.StepID = "confirm_delete"
	StepDelete        chat.StepID = "delete"
)

// State data keys
const (
	KeyZones       = "zones"
	KeyZoneID      = "zone_id"
	KeyZoneName    = "zone_name"
	KeyZonePage    = "zone_page"
	KeyRecords     = "records"
	KeyRecordPage  = "record_page"
	KeyRecordID    = "record_id"
	KeyRecordType  = "record_type"
	KeyActiveField = "active_field"
	KeyReturnStep  = "return_step"
)

// Records builds the record management workflows around one DNS gateway.
type Records struct {
	gateway entity.DnsGateway
	fields  *fields.Registry
	inputs  *input.Registry
	log     *slog.Logger
}

func New(gateway entity.DnsGateway, registry *fields.Registry, log *slog.Logger) *Records {
	return &Records{
		gateway: gateway,
		fields:  registry,
		inputs:  input.NewRegistry(),
		log:     log.With(sl.Module("workflows.records")),
	}
}

// Create walks zone, type and every field of the type's layout, then
// commits after review.
func (r *Records) Create() chat.Workflow {
	return chat.NewFlow(CreateWorkflowID,
		&SelectZoneStep{r: r},
		&SelectTypeStep{r: r},
		&InputWizardStep{r: r},
		&EditFieldStep{r: r},
		&ReviewStep{r: r},
		&CommitStep{r: r},
	)
}

// Edit picks an existing record and lets the operator change any field
// before saving the difference.
func (r *Records) Edit() chat.Workflow {
	return chat.NewFlow(EditWorkflowID,
		&SelectZoneStep{r: r},
		&SelectRecordStep{r: r},
		&MenuStep{r: r},
		&EditFieldStep{r: r},
		&SaveStep{r: r},
	)
}

// Delete picks an existing record and removes it after confirmation.
func (r *Records) Delete() chat.Workflow {
	return chat.NewFlow(DeleteWorkflowID,
		&SelectZoneStep{r: r},
		&SelectRecordStep{r: r},
		&ConfirmDeleteStep{r: r},
		&DeleteStep{r: r},
	)
}

// Workflows returns all record workflows.
func (r *Records) Workflows() []chat.Workflow {
	return []chat.Workflow{r.Create(), r.Edit(), r.Delete()}
}

// layout returns the fields of the dialogue's record type. A missing
// layout is a configuration defect.
func (r *Records) layout(d *chat.Dialogue) ([]fields.Definition, error) {
	defs, err := r.fields.FieldsForType(d.Data().GetString(KeyRecordType))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", chat.ErrConfiguration, err)
	}
	return defs, nil
}
