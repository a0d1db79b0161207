package ledger

import (
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	"github.com/angelmondragon/firstcredit-backend/pkg/pagination"
)

// Filter narrows a listing. A zero Filter matches every entry.
type Filter struct {
	Category enums.LedgerCategory
}

func (f Filter) matches(e Entry) bool {
	return f.Category == "" || e.Category == f.Category
}

// Page lists entries newest first.
func (l Log) Page(filter Filter, params pagination.Params) (pagination.Page[Entry], error) {
	var view []Entry
	for _, e := range l.NewestFirst() {
		if filter.matches(e) {
			view = append(view, e)
		}
	}
	return pagination.Slice(view, params, cursorOf)
}

func cursorOf(e Entry) pagination.Cursor {
	return pagination.Cursor{CreatedAt: e.Timestamp, ID: e.ID}
}

// CategoryTotal aggregates one category.
type CategoryTotal struct {
	Category enums.LedgerCategory `json:"category"`
	Count    int                  `json:"count"`
	Total    int64                `json:"total"`
}

// Summary aggregates the whole log.
type Summary struct {
	Entries    int             `json:"entries"`
	Credits    int64           `json:"credits"`
	Debits     int64           `json:"debits"`
	Net        int64           `json:"net"`
	Categories []CategoryTotal `json:"categories"`
}

// Summarize totals the log per category in canonical category order.
func (l Log) Summarize() Summary {
	byCategory := make(map[enums.LedgerCategory]*CategoryTotal)
	summary := Summary{Entries: len(l)}
	for _, e := range l {
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Count++
		ct.Total += e.SignedAmount
		if e.SignedAmount > 0 {
			summary.Credits += e.SignedAmount
		} else {
			summary.Debits += e.SignedAmount
		}
		summary.Net += e.SignedAmount
	}
	summary.Categories = []CategoryTotal{}
	for _, c := range enums.LedgerCategories() {
		if ct, ok := byCategory[c]; ok {
			summary.Categories = append(summary.Categories, *ct)
		}
	}
	return summary
}
