package model

import "time"

// Row is a single normalized observation. Valid=false marks a value the
// upstream reported as missing. The descriptive fields (Name, Unit,
// Category, Source) are joined from the registry after a live fetch.
type Row struct {
	Date     time.Time `json:"date"`
	ItemID   string    `json:"item_id"`
	Value    float64   `json:"value"`
	Valid    bool      `json:"valid"`
	Name     string    `json:"name,omitempty"`
	Unit     string    `json:"unit,omitempty"`
	Category string    `json:"category,omitempty"`
	Source   string    `json:"source,omitempty"`
}

// Table is an ordered collection of observations.
type Table struct {
	Rows []Row `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has zero rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// AllInvalid reports whether the table has rows but every value is missing.
func (t Table) AllInvalid() bool {
	if t.Empty() {
		return false
	}
	for _, row := range t.Rows {
		if row.Valid {
			return false
		}
	}
	return true
}

// Append adds rows, stamping each with the given item identifier.
func (t *Table) Append(itemID string, rows []Row) {
	for _, row := range rows {
		row.ItemID = itemID
		t.Rows = append(t.Rows, row)
	}
}

// FilterRange returns only the rows whose date falls inside dr.
func (t Table) FilterRange(dr DateRange) Table {
	var out Table
	for _, row := range t.Rows {
		if dr.Contains(row.Date) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// FilterItems returns only the rows whose item identifier is in keep.
func (t Table) FilterItems(keep map[string]bool) Table {
	var out Table
	for _, row := range t.Rows {
		if keep[row.ItemID] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// ItemIDs returns the distinct item identifiers in first-seen order.
func (t Table) ItemIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range t.Rows {
		if !seen[row.ItemID] {
			seen[row.ItemID] = true
			ids = append(ids, row.ItemID)
		}
	}
	return ids
}
