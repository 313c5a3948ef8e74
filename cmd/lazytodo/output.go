package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

const (
	shortIDLength = 8
	defaultWidth  = 80
)

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// outputWidth is the terminal width when w is one, else defaultWidth.
func outputWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func printList(w io.Writer, items []model.Todo, loc *time.Location) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No todos.")
		return
	}
	for _, todo := range items {
		fmt.Fprintln(w, listLine(todo, loc))
	}
}

// listLine renders one todo as "id  [x] priority  title  due  #tags".
func listLine(todo model.Todo, loc *time.Location) string {
	check := "[ ]"
	if todo.Completed {
		check = "[x]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s %s %-6s %s", shortIDLength, shortID(todo.ID), check, todo.Priority, todo.Title)
	if due := dueText(todo, loc); due != "" {
		b.WriteString("  due " + due)
	}
	for _, tag := range todo.Tags {
		b.WriteString(" #" + tag)
	}
	return b.String()
}

func dueText(todo model.Todo, loc *time.Location) string {
	parts := []string{}
	if todo.DueDate != nil {
		parts = append(parts, model.FormatDate(todo.DueDate.In(loc)))
	}
	if todo.DueTime != nil {
		parts = append(parts, model.FormatTime(todo.DueTime.In(loc)))
	}
	return strings.Join(parts, " ")
}

func printTodo(w io.Writer, todo model.Todo, loc *time.Location, width int) {
	completed := "no"
	if todo.Completed {
		completed = "yes"
	}
	tags := "-"
	if len(todo.Tags) > 0 {
		tags = strings.Join(todo.Tags, ", ")
	}

	fmt.Fprintln(w, todo.Title)
	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "  %-10s %s\n", label+":", value)
	}
	field("ID", todo.ID)
	field("Status", string(todo.Status))
	field("Completed", completed)
	field("Priority", string(todo.Priority))
	field("Type", string(todo.Type))
	field("Category", string(todo.Category))
	field("Tags", tags)
	field("Location", todo.Location)
	if due := dueText(todo, loc); due != "" {
		if at := dueInstant(todo); at != nil {
			due += " (" + humanize.Time(*at) + ")"
		}
		field("Due", due)
	} else {
		field("Due", "")
	}
	field("Created", humanize.Time(todo.CreatedAt))
	field("Updated", humanize.Time(todo.UpdatedAt))

	if strings.TrimSpace(todo.Description) != "" {
		fmt.Fprintln(w)
		wrapped := wordwrap.String(todo.Description, max(width-2, 20))
		fmt.Fprintln(w, indent.String(wrapped, 2))
	}
}

// dueInstant prefers the due time, which carries the clock, over the date.
func dueInstant(todo model.Todo) *time.Time {
	if todo.DueTime != nil {
		return todo.DueTime
	}
	return todo.DueDate
}
