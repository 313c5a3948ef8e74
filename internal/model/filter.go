package model

import "time"

// Filter narrows a todo listing. Every set criterion must match.
type Filter struct {
	Status   *Status    `json:"status,omitempty"`
	Priority *Priority  `json:"priority,omitempty"`
	Category *Category  `json:"category,omitempty"`
	Type     *Type      `json:"type,omitempty"`
	Tag      string     `json:"tag,omitempty"`
	Location *string    `json:"location,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Time     *time.Time `json:"time,omitempty"`
	DueFrom  *time.Time `json:"due_from,omitempty"`
	DueTo    *time.Time `json:"due_to,omitempty"`
	TimeFrom *time.Time `json:"time_from,omitempty"`
	TimeTo   *time.Time `json:"time_to,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Status == nil && f.Priority == nil && f.Category == nil && f.Type == nil &&
		f.Tag == "" && f.Location == nil && f.Date == nil && f.Time == nil &&
		f.DueFrom == nil && f.DueTo == nil && f.TimeFrom == nil && f.TimeTo == nil
}

// FormatDate renders a calendar date for display, e.g. "June 01, 2024".
func FormatDate(t time.Time) string {
	return t.Format("January 02, 2006")
}

// FormatTime renders a wall-clock time for display, e.g. "02:30 PM".
func FormatTime(t time.Time) string {
	return t.Format("03:04 PM")
}
