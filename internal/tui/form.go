package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

type formField struct {
	Label   string
	Value   string
	Options []string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldStatus
	fieldType
	fieldCategory
	fieldTags
	fieldLocation
	fieldDueDate
	fieldDueTime
)

func buildFormFields(todo *model.Todo, loc *time.Location) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Priority", Options: enumStrings(model.ValidPriorities())},
		{Label: "Status", Options: enumStrings(model.ValidStatuses())},
		{Label: "Type", Options: enumStrings(model.ValidTypes())},
		{Label: "Category", Options: enumStrings(model.ValidCategories())},
		{Label: "Tags (comma separated)"},
		{Label: "Location"},
		{Label: "Due date (YYYY-MM-DD)"},
		{Label: "Due time (HH:MM)"},
	}

	if todo == nil {
		fields[fieldPriority].Value = string(model.DefaultPriority)
		fields[fieldStatus].Value = string(model.DefaultStatus)
		fields[fieldType].Value = string(model.DefaultType)
		fields[fieldCategory].Value = string(model.DefaultCategory)
		return fields
	}

	fields[fieldTitle].Value = todo.Title
	fields[fieldDescription].Value = todo.Description
	fields[fieldPriority].Value = string(todo.Priority)
	fields[fieldStatus].Value = string(todo.Status)
	fields[fieldType].Value = string(todo.Type)
	fields[fieldCategory].Value = string(todo.Category)
	fields[fieldTags].Value = strings.Join(todo.Tags, ",")
	fields[fieldLocation].Value = todo.Location
	if todo.DueDate != nil {
		fields[fieldDueDate].Value = todo.DueDate.In(loc).Format("2006-01-02")
	}
	if todo.DueTime != nil {
		fields[fieldDueTime].Value = todo.DueTime.In(loc).Format("15:04")
	}
	return fields
}

func parseFormFields(fields []formField, loc *time.Location, now time.Time) (model.Draft, error) {
	priority, err := model.ParsePriority(fields[fieldPriority].Value)
	if err != nil {
		return model.Draft{}, err
	}
	status, err := model.ParseStatus(fields[fieldStatus].Value)
	if err != nil {
		return model.Draft{}, err
	}
	todoType, err := model.ParseType(fields[fieldType].Value)
	if err != nil {
		return model.Draft{}, err
	}
	category, err := model.ParseCategory(fields[fieldCategory].Value)
	if err != nil {
		return model.Draft{}, err
	}

	dueDate, err := parseDueDate(fields[fieldDueDate].Value, loc)
	if err != nil {
		return model.Draft{}, err
	}
	on := now
	if dueDate != nil {
		on = *dueDate
	}
	dueTime, err := parseDueTime(fields[fieldDueTime].Value, on, loc)
	if err != nil {
		return model.Draft{}, err
	}

	return model.Draft{
		Title:       strings.TrimSpace(fields[fieldTitle].Value),
		Description: strings.TrimSpace(fields[fieldDescription].Value),
		Status:      status,
		Priority:    priority,
		Type:        todoType,
		Category:    category,
		Tags:        parseTags(fields[fieldTags].Value),
		Location:    strings.TrimSpace(fields[fieldLocation].Value),
		DueDate:     dueDate,
		DueTime:     dueTime,
	}, nil
}

// patchFromDraft turns an edited form into a patch that rewrites every
// field the form shows, except completion which has its own key.
func patchFromDraft(draft model.Draft) model.Patch {
	patch := model.Patch{
		Title:        &draft.Title,
		Description:  &draft.Description,
		Status:       &draft.Status,
		Priority:     &draft.Priority,
		Type:         &draft.Type,
		Category:     &draft.Category,
		Tags:         &draft.Tags,
		Location:     &draft.Location,
		DueDate:      draft.DueDate,
		DueTime:      draft.DueTime,
		ClearDueDate: draft.DueDate == nil,
		ClearDueTime: draft.DueTime == nil,
	}
	return patch
}

func parseDueDate(value string, loc *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := model.ParseDate(trimmed, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid due date")
	}
	return &parsed, nil
}

func parseDueTime(value string, on time.Time, loc *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := model.ParseClock(trimmed, on, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid due time")
	}
	return &parsed, nil
}

func parseTags(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}

func cycleOption(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	index := 0
	for i, option := range options {
		if option == current {
			index = i
			break
		}
	}
	index = (index + delta + len(options)) % len(options)
	return options[index]
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
