package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

func TestRowRoundTrip(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 15, 30, 123456789, time.UTC)
	todo := testTodo("rt", created)
	todo.UpdatedAt = created.Add(time.Second)
	todo.Completed = true
	todo.Location = "Office"

	row := mustRow(t, todo)
	if row.Tags.String != `["home","home"]` {
		t.Fatalf("unexpected tags column %q", row.Tags.String)
	}
	if row.Completed.Int64 != 1 {
		t.Fatalf("expected completed=1, got %d", row.Completed.Int64)
	}

	got, err := row.Todo()
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.ID != todo.ID || got.Title != todo.Title || got.Description != todo.Description {
		t.Fatalf("text fields differ: %+v", got)
	}
	if !got.Completed || got.Status != model.StatusPending || got.Location != "Office" {
		t.Fatalf("flags differ: %+v", got)
	}
	if !got.CreatedAt.Equal(todo.CreatedAt) || !got.UpdatedAt.Equal(todo.UpdatedAt) {
		t.Fatalf("timestamps differ: %v %v", got.CreatedAt, got.UpdatedAt)
	}
	if got.DueDate == nil || !got.DueDate.Equal(*todo.DueDate) {
		t.Fatalf("due date differs: %v", got.DueDate)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "home" || got.Tags[1] != "home" {
		t.Fatalf("tags differ: %v", got.Tags)
	}
}

func TestRowAbsentDueIsNull(t *testing.T) {
	todo := model.Draft{Title: "plain"}.Todo()
	todo.ID = "p"
	row := mustRow(t, todo)
	if row.DueDate.Valid || row.DueTime.Valid {
		t.Fatalf("expected NULL due columns, got %+v %+v", row.DueDate, row.DueTime)
	}
	if row.Tags.String != "[]" {
		t.Fatalf("expected empty tags array, got %q", row.Tags.String)
	}
	if row.Description.String != "" {
		t.Fatalf("expected empty description, got %q", row.Description.String)
	}
}

func TestRowNullColumnsTakeDefaults(t *testing.T) {
	row := Row{
		ID:        "n",
		Title:     "nulls",
		CreatedAt: "2024-06-01T08:00:00Z",
		UpdatedAt: "2024-06-01T08:00:00Z",
		DueDate:   sql.NullString{String: "", Valid: true},
	}
	todo, err := row.Todo()
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if todo.Tags == nil || len(todo.Tags) != 0 {
		t.Fatalf("expected empty non-nil tags, got %#v", todo.Tags)
	}
	if todo.Completed || todo.DueDate != nil || todo.DueTime != nil {
		t.Fatalf("unexpected values %+v", todo)
	}
	if todo.Priority != model.DefaultPriority || todo.Status != model.DefaultStatus ||
		todo.Type != model.DefaultType || todo.Category != model.DefaultCategory {
		t.Fatalf("expected defaults, got %+v", todo)
	}
}

func TestRowRejectsCorruptColumns(t *testing.T) {
	base := Row{ID: "c", Title: "bad", CreatedAt: "2024-06-01T08:00:00Z", UpdatedAt: "2024-06-01T08:00:00Z"}

	badTags := base
	badTags.Tags = sql.NullString{String: "not json", Valid: true}
	if _, err := badTags.Todo(); err == nil {
		t.Fatalf("expected error for corrupt tags")
	}

	badCreated := base
	badCreated.CreatedAt = "yesterday"
	if _, err := badCreated.Todo(); err == nil {
		t.Fatalf("expected error for corrupt createdAt")
	}
}

func TestParseTimestampFormats(t *testing.T) {
	want := time.Date(2024, 6, 1, 6, 30, 0, 0, time.UTC)
	cases := []string{
		"2024-06-01T06:30:00.000Z",
		"2024-06-01T06:30:00Z",
		"2024-06-01T08:30:00+02:00",
		"2024-06-01T06:30:00.000000000Z",
		"Sat Jun 01 2024 08:30:00 GMT+0200 (Central European Summer Time)",
		"Sat Jun 01 2024 06:30:00 GMT+0000",
	}
	for _, value := range cases {
		got, err := ParseTimestamp(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parse %q: expected %v, got %v", value, want, got)
		}
	}

	if _, err := ParseTimestamp("06/01/2024"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestFormatTimestampSortsLexically(t *testing.T) {
	early := FormatTimestamp(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	later := FormatTimestamp(time.Date(2024, 6, 1, 8, 0, 0, 500, time.UTC))
	if len(early) != len(later) {
		t.Fatalf("expected fixed width, got %q and %q", early, later)
	}
	if early >= later {
		t.Fatalf("expected %q < %q", early, later)
	}

	local := time.Date(2024, 6, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	if got := FormatTimestamp(local); got != "2024-06-01T08:00:00.000000000Z" {
		t.Fatalf("expected UTC rendering, got %q", got)
	}
}

func TestPlanFromPatchColumns(t *testing.T) {
	done := true
	priority := model.PriorityHigh
	tags := []string{}
	due := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

	plan, err := PlanFromPatch(model.Patch{
		Completed:    &done,
		Priority:     &priority,
		Tags:         &tags,
		DueDate:      &due,
		ClearDueTime: true,
	}, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	want := []string{"completed", "priority", "dueDate", "dueTime", "tags", "updatedAt"}
	got := plan.Columns()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if *plan.Completed != 1 || *plan.Tags != "[]" {
		t.Fatalf("unexpected values completed=%d tags=%q", *plan.Completed, *plan.Tags)
	}
	if !plan.DueDate.Valid || plan.DueTime.Valid {
		t.Fatalf("expected due date set and due time NULL, got %+v %+v", plan.DueDate, plan.DueTime)
	}

	args := plan.args("id-1")
	if len(args) != 24 {
		t.Fatalf("expected 24 bound args, got %d", len(args))
	}
	if args[len(args)-1] != "id-1" {
		t.Fatalf("expected id last, got %v", args[len(args)-1])
	}
}
