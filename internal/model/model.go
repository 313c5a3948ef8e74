// Package model defines the todo domain types shared by the store, the
// facade and its consumers.
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	// ErrInvalidPriority is returned for a priority outside low/medium/high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidStatus is returned for a status outside pending/completed.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidType is returned for a type outside task/event/reminder.
	ErrInvalidType = errors.New("invalid todo type")

	// ErrInvalidCategory is returned for a category outside work/personal/shopping/other.
	ErrInvalidCategory = errors.New("invalid category")
)

// Priority ranks how urgent a todo is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	return slices.Contains(ValidPriorities(), p)
}

// ParsePriority normalizes and validates a priority string.
func ParsePriority(value string) (Priority, error) {
	p := Priority(normalize(value))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, value)
	}
	return p, nil
}

// Status is the workflow state of a todo. It is stored next to, and
// independently of, Todo.Completed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusCompleted}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	return slices.Contains(ValidStatuses(), s)
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(value string) (Status, error) {
	s := Status(normalize(value))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return s, nil
}

// Type distinguishes plain tasks from events and reminders.
type Type string

const (
	TypeTask     Type = "task"
	TypeEvent    Type = "event"
	TypeReminder Type = "reminder"
)

// ValidTypes returns all valid todo types.
func ValidTypes() []Type {
	return []Type{TypeTask, TypeEvent, TypeReminder}
}

// IsValid returns true if the type is a known value.
func (t Type) IsValid() bool {
	return slices.Contains(ValidTypes(), t)
}

// ParseType normalizes and validates a todo type string.
func ParseType(value string) (Type, error) {
	t := Type(normalize(value))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, value)
	}
	return t, nil
}

// Category groups todos by area of life.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryOther    Category = "other"
)

// ValidCategories returns all valid categories.
func ValidCategories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryOther}
}

// IsValid returns true if the category is a known value.
func (c Category) IsValid() bool {
	return slices.Contains(ValidCategories(), c)
}

// ParseCategory normalizes and validates a category string.
func ParseCategory(value string) (Category, error) {
	c := Category(normalize(value))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, value)
	}
	return c, nil
}

// Defaults applied to every field a caller leaves unset on create.
const (
	DefaultPriority = PriorityMedium
	DefaultStatus   = StatusPending
	DefaultType     = TypeTask
	DefaultCategory = CategoryOther
)

type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Type        Type       `json:"type"`
	Category    Category   `json:"category"`
	Tags        []string   `json:"tags"`
	Location    string     `json:"location"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	DueTime     *time.Time `json:"due_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Clone returns a deep copy that shares no memory with t.
func (t Todo) Clone() Todo {
	out := t
	out.Tags = make([]string, len(t.Tags))
	copy(out.Tags, t.Tags)
	out.DueDate = cloneTime(t.DueDate)
	out.DueTime = cloneTime(t.DueTime)
	return out
}

// HasTag reports whether tag is one of the todo's tags, by exact match.
func (t Todo) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Validate checks that every enum field holds a known value.
func (t Todo) Validate() error {
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	return nil
}

// Draft holds the caller-supplied fields of a new todo. Zero values take the
// package defaults.
type Draft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Type        Type       `json:"type"`
	Category    Category   `json:"category"`
	Tags        []string   `json:"tags"`
	Location    string     `json:"location"`
	DueDate     *time.Time `json:"due_date"`
	DueTime     *time.Time `json:"due_time"`
}

// Todo builds a todo from the draft, filling defaults. Identity and
// timestamps are left for the caller.
func (d Draft) Todo() Todo {
	t := Todo{
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		Status:      d.Status,
		Priority:    d.Priority,
		Type:        d.Type,
		Category:    d.Category,
		Tags:        make([]string, len(d.Tags)),
		Location:    d.Location,
		DueDate:     cloneTime(d.DueDate),
		DueTime:     cloneTime(d.DueTime),
	}
	copy(t.Tags, d.Tags)
	if t.Status == "" {
		t.Status = DefaultStatus
	}
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
	if t.Type == "" {
		t.Type = DefaultType
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	return t
}

// Patch is an update plan: every non-nil field replaces the matching column.
// ID and CreatedAt are deliberately absent.
type Patch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
	Status       *Status    `json:"status,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	Type         *Type      `json:"type,omitempty"`
	Category     *Category  `json:"category,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
	Location     *string    `json:"location,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	DueTime      *time.Time `json:"due_time,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	ClearDueTime bool       `json:"clear_due_time,omitempty"`
}

// Empty reports whether the patch changes no semantic field.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Status == nil && p.Priority == nil && p.Type == nil && p.Category == nil &&
		p.Tags == nil && p.Location == nil && !p.touchesDueDate() && !p.touchesDueTime()
}

// Validate checks the enum fields present in the patch.
func (p Patch) Validate() error {
	if p.Priority != nil && !p.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	if p.Type != nil && !p.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, *p.Type)
	}
	if p.Category != nil && !p.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, *p.Category)
	}
	return nil
}

// Apply returns a copy of t with the patch merged in.
func (p Patch) Apply(t Todo) Todo {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Tags != nil {
		out.Tags = make([]string, len(*p.Tags))
		copy(out.Tags, *p.Tags)
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.touchesDueDate() {
		out.DueDate = p.dueDate()
	}
	if p.touchesDueTime() {
		out.DueTime = p.dueTime()
	}
	return out
}

// DueDateValue returns whether the patch sets the due date and the new value,
// nil meaning cleared.
func (p Patch) DueDateValue() (bool, *time.Time) {
	return p.touchesDueDate(), p.dueDate()
}

// DueTimeValue is DueDateValue for the due time.
func (p Patch) DueTimeValue() (bool, *time.Time) {
	return p.touchesDueTime(), p.dueTime()
}

func (p Patch) touchesDueDate() bool { return p.ClearDueDate || p.DueDate != nil }
func (p Patch) touchesDueTime() bool { return p.ClearDueTime || p.DueTime != nil }

func (p Patch) dueDate() *time.Time {
	if p.ClearDueDate {
		return nil
	}
	return cloneTime(p.DueDate)
}

func (p Patch) dueTime() *time.Time {
	if p.ClearDueTime {
		return nil
	}
	return cloneTime(p.DueTime)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
