package ui

import (
	"DnsBot/bot/chat"
)

// ConfirmCancelKeyboard creates a keyboard with Confirm/Cancel buttons.
func ConfirmCancelKeyboard(confirmText, cancelText string) [][]chat.InlineButton {
	return [][]chat.InlineButton{
		{
			chat.Button(confirmText, chat.ActionConfirm, nil),
			chat.Button(cancelText, chat.ActionCancel, nil),
		},
	}
}

// CancelRow creates a row with a single cancel button.
func CancelRow() []chat.InlineButton {
	return []chat.InlineButton{chat.Button("✖️ Cancel", chat.ActionCancel, nil)}
}

// SelectableItem represents an item that can be selected from a list.
type SelectableItem struct {
	Index int
	Text  string
}

// SelectionKeyboard creates a keyboard for selecting items, one per row.
func SelectionKeyboard(action string, items []SelectableItem) [][]chat.InlineButton {
	rows := make([][]chat.InlineButton, len(items))
	for i, item := range items {
		rows[i] = []chat.InlineButton{chat.Button(item.Text, action, item.Index)}
	}
	return rows
}

// GridKeyboard lays buttons out in rows of the given width.
func GridKeyboard(buttons []chat.InlineButton, width int) [][]chat.InlineButton {
	if width <= 0 {
		width = 1
	}
	rows := make([][]chat.InlineButton, 0, len(buttons)/width+1)
	for start := 0; start < len(buttons); start += width {
		end := min(start+width, len(buttons))
		rows = append(rows, buttons[start:end])
	}
	return rows
}

// MainMenuKeyboard creates the keyboard of the main menu.
func MainMenuKeyboard() [][]chat.InlineButton {
	return [][]chat.InlineButton{
		{
			chat.Button("➕ Create record", chat.ActionCreate, nil),
			chat.Button("✏️ Edit record", chat.ActionEdit, nil),
		},
		{
			chat.Button("🗑 Delete record", chat.ActionDelete, nil),
			chat.Button("🌐 Register zone", chat.ActionRegister, nil),
		},
		{
			chat.Button("📋 Zones", chat.ActionZones, nil),
		},
	}
}
