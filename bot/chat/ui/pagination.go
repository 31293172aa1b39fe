package ui

import (
	"fmt"

	"DnsBot/bot/chat"
)

const (
	DefaultItemsPerPage = 5
)

// PaginatedList creates a keyboard with one page of items.
// Item buttons carry the item's index in the full list, never the item.
// Format:
//
//	[Item 1]
//	[Item 2]
//	[Item 3]
//	[Item 4]
//	[Item 5]
//	[◀️ Back] [Page 1/3] [Next ▶️]
func PaginatedList(action string, items []SelectableItem, currentPage, totalPages int) [][]chat.InlineButton {
	rows := SelectionKeyboard(action, items)

	navRow := buildNavRow(currentPage, totalPages)
	if len(navRow) > 0 {
		rows = append(rows, navRow)
	}

	return rows
}

// buildNavRow creates the navigation row for pagination.
func buildNavRow(currentPage, totalPages int) []chat.InlineButton {
	if totalPages <= 1 {
		return nil
	}

	navRow := make([]chat.InlineButton, 0, 3)

	if currentPage > 1 {
		navRow = append(navRow, chat.Button("◀️ Back", chat.ActionPage, currentPage-1))
	} else {
		// Placeholder for alignment
		navRow = append(navRow, chat.Button(" ", chat.ActionNoop, nil))
	}

	navRow = append(navRow, chat.Button(fmt.Sprintf("%d/%d", currentPage, totalPages), chat.ActionNoop, nil))

	if currentPage < totalPages {
		navRow = append(navRow, chat.Button("Next ▶️", chat.ActionPage, currentPage+1))
	} else {
		navRow = append(navRow, chat.Button(" ", chat.ActionNoop, nil))
	}

	return navRow
}

// PaginatedListWithExtra creates a paginated list with an extra button row at the bottom.
func PaginatedListWithExtra(action string, items []SelectableItem, currentPage, totalPages int, extraButtons []chat.InlineButton) [][]chat.InlineButton {
	keyboard := PaginatedList(action, items, currentPage, totalPages)

	if len(extraButtons) > 0 {
		keyboard = append(keyboard, extraButtons)
	}

	return keyboard
}

// PageItems returns the selectable items of one page, keeping each item's
// index in the full list.
func PageItems(texts []string, page, itemsPerPage int) []SelectableItem {
	start, end := PageBounds(len(texts), page, itemsPerPage)
	items := make([]SelectableItem, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, SelectableItem{Index: i, Text: texts[i]})
	}
	return items
}

// PageBounds returns the start and end indices of a page.
func PageBounds(totalItems, page, itemsPerPage int) (start, end int) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * itemsPerPage
	if start >= totalItems {
		return totalItems, totalItems
	}
	end = min(start+itemsPerPage, totalItems)
	return start, end
}

// CalculateTotalPages calculates the total number of pages.
func CalculateTotalPages(totalItems, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		return 1
	}
	pages := totalItems / itemsPerPage
	if totalItems%itemsPerPage > 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}

// ClampPage keeps a page number inside [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
