package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// legacyLayout matches JavaScript's Date.prototype.toString output once the
// trailing "(zone name)" is stripped.
const legacyLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

// Row is one record of the todos table, column for column.
type Row struct {
	ID          string
	Title       string
	Description sql.NullString
	Completed   sql.NullInt64
	CreatedAt   string
	UpdatedAt   string
	Priority    sql.NullString
	Status      sql.NullString
	Type        sql.NullString
	Category    sql.NullString
	DueDate     sql.NullString
	DueTime     sql.NullString
	Tags        sql.NullString
	Location    sql.NullString
}

// RowFromTodo serializes a todo into its row form.
func RowFromTodo(todo model.Todo) (Row, error) {
	tags, err := encodeTags(todo.Tags)
	if err != nil {
		return Row{}, err
	}

	return Row{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: validString(todo.Description),
		Completed:   sql.NullInt64{Int64: boolToInt(todo.Completed), Valid: true},
		CreatedAt:   FormatTimestamp(todo.CreatedAt),
		UpdatedAt:   FormatTimestamp(todo.UpdatedAt),
		Priority:    validString(string(todo.Priority)),
		Status:      validString(string(todo.Status)),
		Type:        validString(string(todo.Type)),
		Category:    validString(string(todo.Category)),
		DueDate:     nullTimestamp(todo.DueDate),
		DueTime:     nullTimestamp(todo.DueTime),
		Tags:        validString(tags),
		Location:    validString(todo.Location),
	}, nil
}

// Todo deserializes the row. Missing enum columns fall back to the create
// defaults and missing tags to an empty list.
func (r Row) Todo() (model.Todo, error) {
	createdAt, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %s createdAt: %w", r.ID, err)
	}
	updatedAt, err := ParseTimestamp(r.UpdatedAt)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %s updatedAt: %w", r.ID, err)
	}
	dueDate, err := parseNullTimestamp(r.DueDate)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %s dueDate: %w", r.ID, err)
	}
	dueTime, err := parseNullTimestamp(r.DueTime)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %s dueTime: %w", r.ID, err)
	}
	tags, err := decodeTags(r.Tags.String)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %s tags: %w", r.ID, err)
	}

	return model.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		Completed:   r.Completed.Valid && r.Completed.Int64 != 0,
		Status:      model.Status(orDefault(r.Status, string(model.DefaultStatus))),
		Priority:    model.Priority(orDefault(r.Priority, string(model.DefaultPriority))),
		Type:        model.Type(orDefault(r.Type, string(model.DefaultType))),
		Category:    model.Category(orDefault(r.Category, string(model.DefaultCategory))),
		Tags:        tags,
		Location:    r.Location.String,
		DueDate:     dueDate,
		DueTime:     dueTime,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// UpdatePlan lists the columns an update writes. A nil field leaves its
// column untouched; UpdatedAt is always written.
type UpdatePlan struct {
	Title       *string
	Description *string
	Completed   *int64
	Priority    *string
	Status      *string
	Type        *string
	Category    *string
	DueDate     *sql.NullString
	DueTime     *sql.NullString
	Tags        *string
	Location    *string
	UpdatedAt   string
}

// PlanFromPatch converts a domain patch into column assignments.
func PlanFromPatch(patch model.Patch, updatedAt time.Time) (UpdatePlan, error) {
	plan := UpdatePlan{
		Title:       patch.Title,
		Description: patch.Description,
		Location:    patch.Location,
		UpdatedAt:   FormatTimestamp(updatedAt),
	}
	if patch.Completed != nil {
		v := boolToInt(*patch.Completed)
		plan.Completed = &v
	}
	if patch.Priority != nil {
		v := string(*patch.Priority)
		plan.Priority = &v
	}
	if patch.Status != nil {
		v := string(*patch.Status)
		plan.Status = &v
	}
	if patch.Type != nil {
		v := string(*patch.Type)
		plan.Type = &v
	}
	if patch.Category != nil {
		v := string(*patch.Category)
		plan.Category = &v
	}
	if patch.Tags != nil {
		v, err := encodeTags(*patch.Tags)
		if err != nil {
			return UpdatePlan{}, err
		}
		plan.Tags = &v
	}
	if set, due := patch.DueDateValue(); set {
		v := nullTimestamp(due)
		plan.DueDate = &v
	}
	if set, due := patch.DueTimeValue(); set {
		v := nullTimestamp(due)
		plan.DueTime = &v
	}
	return plan, nil
}

// Columns names the columns the plan writes, in statement order.
func (p UpdatePlan) Columns() []string {
	columns := []string{}
	add := func(set bool, name string) {
		if set {
			columns = append(columns, name)
		}
	}
	add(p.Title != nil, "title")
	add(p.Description != nil, "description")
	add(p.Completed != nil, "completed")
	add(p.Priority != nil, "priority")
	add(p.Status != nil, "status")
	add(p.Type != nil, "type")
	add(p.Category != nil, "category")
	add(p.DueDate != nil, "dueDate")
	add(p.DueTime != nil, "dueTime")
	add(p.Tags != nil, "tags")
	add(p.Location != nil, "location")
	return append(columns, "updatedAt")
}

// args binds the plan to updateTodo's placeholders.
func (p UpdatePlan) args(id string) []any {
	args := make([]any, 0, 24)
	args = appendAssignment(args, p.Title)
	args = appendAssignment(args, p.Description)
	args = appendAssignment(args, p.Completed)
	args = appendAssignment(args, p.Priority)
	args = appendAssignment(args, p.Status)
	args = appendAssignment(args, p.Type)
	args = appendAssignment(args, p.Category)
	args = appendAssignment(args, p.DueDate)
	args = appendAssignment(args, p.DueTime)
	args = appendAssignment(args, p.Tags)
	args = appendAssignment(args, p.Location)
	return append(args, p.UpdatedAt, id)
}

func appendAssignment[T any](args []any, value *T) []any {
	if value == nil {
		return append(args, 0, nil)
	}
	return append(args, 1, *value)
}

// FormatTimestamp renders t as ISO-8601 in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp accepts RFC 3339 with any fraction, and the legacy
// JavaScript Date.toString form.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed, nil
	}

	legacy := trimmed
	if idx := strings.Index(legacy, " ("); idx >= 0 {
		legacy = legacy[:idx]
	}
	parsed, err := time.Parse(legacyLayout, legacy)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}

func parseNullTimestamp(value sql.NullString) (*time.Time, error) {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil, nil
	}
	parsed, err := ParseTimestamp(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTimestamp(*t), Valid: true}
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(value string) ([]string, error) {
	tags := []string{}
	if strings.TrimSpace(value) == "" {
		return tags, nil
	}
	var decoded []string
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return append(tags, decoded...), nil
}

func validString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: true}
}

func orDefault(value sql.NullString, fallback string) string {
	if !value.Valid || value.String == "" {
		return fallback
	}
	return value.String
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
