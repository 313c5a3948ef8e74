package todos

import (
	"errors"
	"testing"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

func TestScenarioDateAndTagQueries(t *testing.T) {
	f := newFixture(t)
	a := mustCreate(t, f.svc, model.Draft{Title: "A", DueDate: day(2024, 6, 1), Tags: []string{"urgent"}})
	mustCreate(t, f.svc, model.Draft{Title: "B", DueDate: day(2024, 6, 5)})

	if got := ids(f.svc.ByDate(*day(2024, 6, 1))); got != a.ID {
		t.Fatalf("ByDate: expected [%s], got [%s]", a.ID, got)
	}
	if got := ids(f.svc.ByTag("urgent")); got != a.ID {
		t.Fatalf("ByTag: expected [%s], got [%s]", a.ID, got)
	}
	if got := ids(f.svc.ByDateRange(*day(2024, 6, 1), *day(2024, 6, 3))); got != a.ID {
		t.Fatalf("ByDateRange: expected [%s], got [%s]", a.ID, got)
	}
}

func TestDateRangeIsInclusive(t *testing.T) {
	f := newFixture(t)
	first := mustCreate(t, f.svc, model.Draft{Title: "first", DueDate: day(2024, 6, 1)})
	last := mustCreate(t, f.svc, model.Draft{Title: "last", DueDate: day(2024, 6, 5)})
	mustCreate(t, f.svc, model.Draft{Title: "after", DueDate: day(2024, 6, 6)})
	mustCreate(t, f.svc, model.Draft{Title: "undated"})

	got := ids(f.svc.ByDateRange(*day(2024, 6, 1), *day(2024, 6, 5)))
	if got != first.ID+","+last.ID {
		t.Fatalf("expected both bounds included, got [%s]", got)
	}
}

func TestTimeQueries(t *testing.T) {
	f := newFixture(t)
	at := func(h, m, s int) *time.Time {
		v := time.Date(2024, 6, 1, h, m, s, 0, time.UTC)
		return &v
	}
	nine := mustCreate(t, f.svc, model.Draft{Title: "nine", DueTime: at(9, 0, 0)})
	mustCreate(t, f.svc, model.Draft{Title: "nine-oh-one", DueTime: at(9, 0, 1)})
	noon := mustCreate(t, f.svc, model.Draft{Title: "noon", DueDate: day(2024, 6, 2), DueTime: at(12, 0, 0)})

	otherDay := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	if got := ids(f.svc.ByTime(otherDay)); got != nine.ID {
		t.Fatalf("ByTime: expected [%s], got [%s]", nine.ID, got)
	}
	if got := ids(f.svc.ByTimeRange(*at(9, 0, 1), *at(12, 0, 0))); got != "todo-02,"+noon.ID {
		t.Fatalf("ByTimeRange: unexpected [%s]", got)
	}
	if got := ids(f.svc.ByDateAndTime(*day(2024, 6, 2), *at(12, 0, 0))); got != noon.ID {
		t.Fatalf("ByDateAndTime: expected [%s], got [%s]", noon.ID, got)
	}
	if got := f.svc.ByDateAndTime(*day(2024, 6, 1), *at(12, 0, 0)); len(got) != 0 {
		t.Fatalf("ByDateAndTime: expected no match, got %d", len(got))
	}
}

func TestCalendarQueriesUseConfiguredLocation(t *testing.T) {
	f := newFixture(t)
	tokyo := time.FixedZone("JST", 9*3600)
	f.svc.loc = tokyo

	// 20:00 UTC on June 1 is already June 2 in Tokyo.
	late := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	todo := mustCreate(t, f.svc, model.Draft{Title: "late", DueDate: &late})

	if got := f.svc.ByDate(time.Date(2024, 6, 1, 12, 0, 0, 0, tokyo)); len(got) != 0 {
		t.Fatalf("expected no match on June 1 in Tokyo, got %d", len(got))
	}
	if got := ids(f.svc.ByDate(time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo))); got != todo.ID {
		t.Fatalf("expected match on June 2 in Tokyo, got [%s]", got)
	}
}

func TestAttributeQueries(t *testing.T) {
	f := newFixture(t)
	work := mustCreate(t, f.svc, model.Draft{
		Title:    "report",
		Category: model.CategoryWork,
		Priority: model.PriorityHigh,
		Type:     model.TypeEvent,
		Location: "Office",
	})
	done := mustCreate(t, f.svc, model.Draft{Title: "milk", Status: model.StatusCompleted, Category: model.CategoryShopping})

	if got := ids(f.svc.ByCategory(model.CategoryWork)); got != work.ID {
		t.Fatalf("ByCategory: got [%s]", got)
	}
	if got := ids(f.svc.ByPriority(model.PriorityHigh)); got != work.ID {
		t.Fatalf("ByPriority: got [%s]", got)
	}
	if got := ids(f.svc.ByType(model.TypeEvent)); got != work.ID {
		t.Fatalf("ByType: got [%s]", got)
	}
	if got := ids(f.svc.ByStatus(model.StatusCompleted)); got != done.ID {
		t.Fatalf("ByStatus: got [%s]", got)
	}
	if got := ids(f.svc.ByLocation("Office")); got != work.ID {
		t.Fatalf("ByLocation: got [%s]", got)
	}
	if got := f.svc.ByLocation("office"); len(got) != 0 {
		t.Fatalf("ByLocation should be exact, got %d", len(got))
	}
	if got := f.svc.ByTag("nothing"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestQueryCombinesCriteria(t *testing.T) {
	f := newFixture(t)
	high := model.PriorityHigh
	match := mustCreate(t, f.svc, model.Draft{Title: "a", Priority: high, Tags: []string{"x"}, DueDate: day(2024, 6, 3)})
	mustCreate(t, f.svc, model.Draft{Title: "b", Priority: high, Tags: []string{"x"}, DueDate: day(2024, 6, 9)})
	mustCreate(t, f.svc, model.Draft{Title: "c", Tags: []string{"x"}, DueDate: day(2024, 6, 3)})

	got := f.svc.Query(model.Filter{Priority: &high, Tag: "x", DueTo: day(2024, 6, 5)})
	if ids(got) != match.ID {
		t.Fatalf("expected [%s], got [%s]", match.ID, ids(got))
	}
	if len(f.svc.Query(model.Filter{})) != 3 {
		t.Fatalf("expected zero filter to match all")
	}
	if got := f.svc.Query(model.Filter{DueFrom: day(2024, 6, 4)}); len(got) != 1 {
		t.Fatalf("expected open-ended range to match 1, got %d", len(got))
	}
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	f.svc.newID = func() string { return "abc-1" }
	first := mustCreate(t, f.svc, model.Draft{Title: "first"})
	f.svc.newID = func() string { return "xyz-1" }
	second := mustCreate(t, f.svc, model.Draft{Title: "second"})

	if got, err := f.svc.Resolve(first.ID); err != nil || got.ID != first.ID {
		t.Fatalf("resolve full id: %v %+v", err, got)
	}
	if got, err := f.svc.Resolve("xy"); err != nil || got.ID != second.ID {
		t.Fatalf("resolve prefix: %v %+v", err, got)
	}
	if _, err := f.svc.Resolve("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Resolve(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}

	f.svc.newID = func() string { return "xyz-2" }
	mustCreate(t, f.svc, model.Draft{Title: "third"})
	if _, err := f.svc.Resolve("xyz"); !errors.Is(err, ErrAmbiguousID) {
		t.Fatalf("expected ErrAmbiguousID, got %v", err)
	}
}
