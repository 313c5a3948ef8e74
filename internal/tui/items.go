package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

type tagCountEntry struct {
	Name  string
	Count int
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "no tags"
	}
	return strings.Join(tags, ",")
}

func priorityMarker(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!"
	case model.PriorityMedium:
		return "! "
	default:
		return "  "
	}
}

func formatTodoSummary(todo model.Todo, now time.Time) string {
	check := "[ ]"
	if todo.Completed {
		check = "[x]"
	}
	summary := fmt.Sprintf("%s %s %s", check, priorityMarker(todo.Priority), todo.Title)
	if todo.DueDate != nil {
		summary += " | " + humanize.RelTime(*todo.DueDate, now, "ago", "from now")
	}
	return summary
}

// splitByCompletion keeps collection order within each group.
func splitByCompletion(todos []model.Todo) (pending, completed []model.Todo) {
	pending = make([]model.Todo, 0, len(todos))
	completed = make([]model.Todo, 0, len(todos))
	for _, todo := range todos {
		if todo.Completed {
			completed = append(completed, todo)
		} else {
			pending = append(pending, todo)
		}
	}
	return pending, completed
}

// countTags orders tags by use, most used first, then by name.
func countTags(todos []model.Todo) []tagCountEntry {
	counts := make(map[string]int)
	for _, todo := range todos {
		seen := make(map[string]struct{}, len(todo.Tags))
		for _, tag := range todo.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}

	entries := make([]tagCountEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, tagCountEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count == entries[j].Count {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Count > entries[j].Count
	})
	return entries
}
