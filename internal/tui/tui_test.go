package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/db"
	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/todos"
)

func TestToggleCompletedMovesTodoBetweenPanes(t *testing.T) {
	service := newTestService(t)
	createTodo(t, service, model.Draft{Title: "Toggle me"})

	ui := newTestUI(service)
	if len(ui.pending) != 1 || len(ui.completed) != 0 {
		t.Fatalf("expected 1 pending todo, got %d/%d", len(ui.pending), len(ui.completed))
	}

	if err := ui.toggleCompleted(nil, nil); err != nil {
		t.Fatalf("toggle completed: %v", err)
	}
	if len(ui.pending) != 0 || len(ui.completed) != 1 {
		t.Fatalf("expected todo to move to completed, got %d/%d", len(ui.pending), len(ui.completed))
	}
	if ui.completed[0].Status != model.StatusPending {
		t.Fatalf("expected status untouched, got %q", ui.completed[0].Status)
	}

	ui.focus = viewCompleted
	if err := ui.toggleCompleted(nil, nil); err != nil {
		t.Fatalf("toggle completed again: %v", err)
	}
	if len(ui.pending) != 1 {
		t.Fatalf("expected todo back in pending, got %d", len(ui.pending))
	}
}

func TestCyclePriorityAndStatus(t *testing.T) {
	service := newTestService(t)
	created := createTodo(t, service, model.Draft{Title: "Cycle"})
	ui := newTestUI(service)

	if err := ui.cyclePriority(nil, nil); err != nil {
		t.Fatalf("cycle priority: %v", err)
	}
	got, _ := service.Get(created.ID)
	if got.Priority != model.PriorityHigh {
		t.Fatalf("expected high after medium, got %q", got.Priority)
	}
	if err := ui.cyclePriority(nil, nil); err != nil {
		t.Fatalf("cycle priority again: %v", err)
	}
	got, _ = service.Get(created.ID)
	if got.Priority != model.PriorityLow {
		t.Fatalf("expected wrap to low, got %q", got.Priority)
	}

	if err := ui.cycleStatus(nil, nil); err != nil {
		t.Fatalf("cycle status: %v", err)
	}
	got, _ = service.Get(created.ID)
	if got.Status != model.StatusCompleted || got.Completed {
		t.Fatalf("expected status completed without completion flag, got %+v", got)
	}
}

func TestSubmitFormCreatesAndEdits(t *testing.T) {
	service := newTestService(t)
	ui := newTestUI(service)

	if err := ui.addTodo(nil, nil); err != nil {
		t.Fatalf("add todo: %v", err)
	}
	ui.form.fields[fieldTitle].Value = "Dentist"
	ui.form.fields[fieldTags].Value = "health, urgent ,"
	ui.form.fields[fieldCategory].Value = "personal"
	ui.form.fields[fieldDueDate].Value = "2024-06-01"
	ui.form.fields[fieldDueTime].Value = "14:30"
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit form: %v", err)
	}
	if ui.form != nil {
		t.Fatalf("expected form to close, status %q", ui.status)
	}

	all := service.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(all))
	}
	todo := all[0]
	if todo.Category != model.CategoryPersonal || len(todo.Tags) != 2 || todo.Tags[1] != "urgent" {
		t.Fatalf("unexpected todo %+v", todo)
	}
	wantTime := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	if todo.DueTime == nil || !todo.DueTime.Equal(wantTime) {
		t.Fatalf("expected due time %v, got %v", wantTime, todo.DueTime)
	}

	if err := ui.editTodo(nil, nil); err != nil {
		t.Fatalf("edit todo: %v", err)
	}
	if ui.form.fields[fieldDueTime].Value != "14:30" {
		t.Fatalf("expected form to be prefilled, got %+v", ui.form.fields)
	}
	ui.form.fields[fieldTitle].Value = "Dentist (moved)"
	ui.form.fields[fieldDueDate].Value = ""
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit edit: %v", err)
	}
	edited, _ := service.Get(todo.ID)
	if edited.Title != "Dentist (moved)" || edited.DueDate != nil || edited.DueTime == nil {
		t.Fatalf("unexpected edit result %+v", edited)
	}
}

func TestSubmitFormKeepsFormOnError(t *testing.T) {
	service := newTestService(t)
	ui := newTestUI(service)

	if err := ui.addTodo(nil, nil); err != nil {
		t.Fatalf("add todo: %v", err)
	}
	ui.form.fields[fieldDueDate].Value = "someday"
	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit form: %v", err)
	}
	if ui.form == nil || ui.status == "" {
		t.Fatalf("expected form to stay open with a status message")
	}
	if service.Count() != 0 {
		t.Fatalf("expected nothing created, got %d", service.Count())
	}
}

func TestTagFilterAndDelete(t *testing.T) {
	service := newTestService(t)
	createTodo(t, service, model.Draft{Title: "A", Tags: []string{"work"}})
	createTodo(t, service, model.Draft{Title: "B", Tags: []string{"home"}})
	createTodo(t, service, model.Draft{Title: "C", Tags: []string{"work", "work"}})

	ui := newTestUI(service)
	if len(ui.tags) != 2 || ui.tags[0].Name != "work" || ui.tags[0].Count != 2 {
		t.Fatalf("unexpected tag counts %+v", ui.tags)
	}

	ui.focus = viewTags
	ui.selectedTags = 0
	if err := ui.toggleTagFilter(nil, nil); err != nil {
		t.Fatalf("toggle tag filter: %v", err)
	}
	if ui.filter.Tag != "work" || len(ui.pending) != 2 {
		t.Fatalf("expected 2 work todos, got %d (filter %q)", len(ui.pending), ui.filter.Tag)
	}

	ui.focus = viewPending
	if err := ui.deleteTodo(nil, nil); err != nil {
		t.Fatalf("delete todo: %v", err)
	}
	if service.Count() != 2 || len(ui.pending) != 1 {
		t.Fatalf("expected one todo deleted, got count %d pending %d", service.Count(), len(ui.pending))
	}

	if err := ui.clearFilters(nil, nil); err != nil {
		t.Fatalf("clear filters: %v", err)
	}
	if len(ui.pending) != 2 {
		t.Fatalf("expected filter cleared, got %d", len(ui.pending))
	}
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	service := newTestService(t)
	createTodo(t, service, model.Draft{Title: "A"})
	ui := newTestUI(service)

	if err := ui.clearAll(nil, nil); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if service.Count() != 1 || !strings.Contains(ui.status, "again") {
		t.Fatalf("expected confirmation prompt, got count %d status %q", service.Count(), ui.status)
	}
	if err := ui.clearAll(nil, nil); err != nil {
		t.Fatalf("clear all confirm: %v", err)
	}
	if service.Count() != 0 || len(ui.pending) != 0 {
		t.Fatalf("expected everything cleared")
	}
}

func TestHandlersIgnoredWhileFormOpen(t *testing.T) {
	service := newTestService(t)
	createTodo(t, service, model.Draft{Title: "A"})
	ui := newTestUI(service)

	if err := ui.addTodo(nil, nil); err != nil {
		t.Fatalf("add todo: %v", err)
	}
	if err := ui.deleteTodo(nil, nil); err != nil {
		t.Fatalf("delete todo: %v", err)
	}
	if service.Count() != 1 {
		t.Fatalf("expected delete to be ignored while the form is open")
	}
	if err := ui.cancelForm(nil, nil); err != nil {
		t.Fatalf("cancel form: %v", err)
	}
	if ui.form != nil {
		t.Fatalf("expected form closed")
	}
}

func TestDetailTextWrapsDescription(t *testing.T) {
	service := newTestService(t)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	createTodo(t, service, model.Draft{
		Title:       "Long",
		Description: strings.Repeat("word ", 20),
		DueDate:     &due,
		Location:    "Office",
	})
	ui := newTestUI(service)
	ui.now = func() time.Time { return due.Add(-48 * time.Hour) }

	text := ui.detailText(30)
	for _, want := range []string{"Long", "June 01, 2024", "2 days from now", "Location:  Office"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected detail to contain %q, got:\n%s", want, text)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "word") && len(line) > 30 {
			t.Fatalf("expected description wrapped at 30, got %q", line)
		}
	}
}

func TestNavigationClampsSelection(t *testing.T) {
	service := newTestService(t)
	createTodo(t, service, model.Draft{Title: "A"})
	createTodo(t, service, model.Draft{Title: "B"})
	ui := newTestUI(service)

	for i := 0; i < 5; i++ {
		if err := ui.moveDown(nil, nil); err != nil {
			t.Fatalf("move down: %v", err)
		}
	}
	if ui.selectedPending != 1 {
		t.Fatalf("expected selection clamped to 1, got %d", ui.selectedPending)
	}
	if selected := ui.selectedTodo(); selected == nil || selected.Title != "B" {
		t.Fatalf("expected B selected, got %+v", selected)
	}

	if err := ui.switchFocus(nil, nil); err != nil {
		t.Fatalf("switch focus: %v", err)
	}
	if ui.focus != viewCompleted {
		t.Fatalf("expected completed focus, got %q", ui.focus)
	}
}

func TestComputeLayoutFitsSmallScreens(t *testing.T) {
	l := computeLayout(40, 10)
	if l.leftWidth <= 0 || l.pendingHeight+l.completedHeight > 10 {
		t.Fatalf("unexpected layout %+v", l)
	}
}

func createTodo(t *testing.T, service *todos.Service, draft model.Draft) model.Todo {
	t.Helper()
	todo, err := service.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	return todo
}

func newTestUI(service *todos.Service) *UI {
	ui := newUI(service)
	ui.refresh()
	return ui
}

func newTestService(t *testing.T) *todos.Service {
	t.Helper()
	sqlDB, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	service := todos.NewService(db.NewStore(sqlDB), todos.Options{Location: time.UTC})
	t.Cleanup(service.Close)
	return service
}
