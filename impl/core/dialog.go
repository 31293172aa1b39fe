package core

import (
	"context"
	"fmt"
	"log/slog"

	"DnsBot/bot/chat"
	"DnsBot/entity"
)

func (c *Core) DialogState(ctx context.Context, key chat.ChatKey) (*entity.DialogSnapshot, error) {
	snapshot := &entity.DialogSnapshot{Platform: key.Platform, ChatID: key.ChatID}
	if c.engine != nil {
		state, err := c.engine.Dialogue(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load dialogue: %w", err)
		}
		if state != nil {
			snapshot.Dialogue = &entity.DialogueInfo{
				DialogueID: state.DialogueID,
				WorkflowID: string(state.WorkflowID),
				Step:       string(state.CurrentStep),
				StepIndex:  state.StepIndex,
				UserID:     state.UserID,
				Data:       state.Data,
				StartedAt:  state.StartedAt,
				UpdatedAt:  state.UpdatedAt,
			}
		}
	}
	if c.wizards != nil {
		state, err := c.wizards.Current(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load wizard: %w", err)
		}
		if state != nil {
			snapshot.Wizard = &entity.WizardInfo{
				DialogueID: state.DialogueID,
				WizardID:   state.WizardID,
				StepIndex:  state.StepIndex,
				Fields:     state.Fields,
				Metadata:   state.Metadata,
				Confirming: state.Confirming,
				StartedAt:  state.StartedAt,
				UpdatedAt:  state.UpdatedAt,
			}
		}
	}
	return snapshot, nil
}

// ResetDialog drops whatever the chat has in progress. It reports whether
// there was anything to drop.
func (c *Core) ResetDialog(ctx context.Context, key chat.ChatKey) (bool, error) {
	reset := false
	if c.wizards != nil {
		// nil messenger is fine, the wizard then skips its cancel hook
		ok, err := c.wizards.Cancel(ctx, c.messengers[key.Platform], key)
		if err != nil {
			return false, fmt.Errorf("cancel wizard: %w", err)
		}
		reset = reset || ok
	}
	if c.engine != nil {
		ok, err := c.engine.Cancel(ctx, key)
		if err != nil {
			return reset, fmt.Errorf("cancel dialogue: %w", err)
		}
		reset = reset || ok
	}
	c.log.With(
		slog.String("chat", key.String()),
		slog.Bool("reset", reset),
	).Info("dialog reset by operator")
	return reset, nil
}
