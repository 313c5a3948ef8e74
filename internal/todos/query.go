package todos

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

// All returns every todo in collection order.
func (s *Service) All() []model.Todo {
	return s.filter(func(model.Todo) bool { return true })
}

// Get returns the todo with exactly this id.
func (s *Service) Get(id string) (model.Todo, bool) {
	return s.lookup(id)
}

// Count returns the number of todos in memory.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// Resolve finds a todo by full id or by a prefix that matches exactly one id.
func (s *Service) Resolve(idOrPrefix string) (model.Todo, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return model.Todo{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	if todo, ok := s.lookup(idOrPrefix); ok {
		return todo, nil
	}

	matches := s.filter(func(t model.Todo) bool {
		return strings.HasPrefix(t.ID, idOrPrefix)
	})
	switch len(matches) {
	case 0:
		return model.Todo{}, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return model.Todo{}, fmt.Errorf("%w: %s matches %d todos", ErrAmbiguousID, idOrPrefix, len(matches))
	}
}

func (s *Service) ByStatus(status model.Status) []model.Todo {
	return s.filter(func(t model.Todo) bool { return t.Status == status })
}

func (s *Service) ByPriority(priority model.Priority) []model.Todo {
	return s.filter(func(t model.Todo) bool { return t.Priority == priority })
}

func (s *Service) ByCategory(category model.Category) []model.Todo {
	return s.filter(func(t model.Todo) bool { return t.Category == category })
}

func (s *Service) ByType(todoType model.Type) []model.Todo {
	return s.filter(func(t model.Todo) bool { return t.Type == todoType })
}

// ByTag matches todos carrying tag exactly.
func (s *Service) ByTag(tag string) []model.Todo {
	return s.filter(func(t model.Todo) bool { return t.HasTag(tag) })
}

// ByLocation matches the location string exactly.
func (s *Service) ByLocation(location string) []model.Todo {
	return s.filter(func(t model.Todo) bool { return t.Location == location })
}

// ByDate matches todos due on the same calendar day as date.
func (s *Service) ByDate(date time.Time) []model.Todo {
	return s.filter(func(t model.Todo) bool { return s.sameDay(t.DueDate, date) })
}

// ByTime matches todos whose due time has the same hour, minute and second.
func (s *Service) ByTime(clock time.Time) []model.Todo {
	return s.filter(func(t model.Todo) bool { return s.sameClock(t.DueTime, clock) })
}

func (s *Service) ByDateAndTime(date, clock time.Time) []model.Todo {
	return s.filter(func(t model.Todo) bool {
		return s.sameDay(t.DueDate, date) && s.sameClock(t.DueTime, clock)
	})
}

// ByDateRange matches due dates within [from, to], both ends inclusive.
func (s *Service) ByDateRange(from, to time.Time) []model.Todo {
	return s.filter(func(t model.Todo) bool { return within(t.DueDate, &from, &to) })
}

// ByTimeRange matches due times within [from, to], both ends inclusive.
func (s *Service) ByTimeRange(from, to time.Time) []model.Todo {
	return s.filter(func(t model.Todo) bool { return within(t.DueTime, &from, &to) })
}

// Query applies every criterion set on f. A zero filter returns All.
func (s *Service) Query(f model.Filter) []model.Todo {
	return s.filter(func(t model.Todo) bool { return s.matches(t, f) })
}

func (s *Service) matches(t model.Todo, f model.Filter) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if f.Location != nil && t.Location != *f.Location {
		return false
	}
	if f.Date != nil && !s.sameDay(t.DueDate, *f.Date) {
		return false
	}
	if f.Time != nil && !s.sameClock(t.DueTime, *f.Time) {
		return false
	}
	if (f.DueFrom != nil || f.DueTo != nil) && !within(t.DueDate, f.DueFrom, f.DueTo) {
		return false
	}
	if (f.TimeFrom != nil || f.TimeTo != nil) && !within(t.DueTime, f.TimeFrom, f.TimeTo) {
		return false
	}
	return true
}

func (s *Service) filter(keep func(model.Todo) bool) []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Todo{}
	for _, todo := range s.todos {
		if keep(todo) {
			out = append(out, todo.Clone())
		}
	}
	return out
}

func (s *Service) sameDay(due *time.Time, date time.Time) bool {
	if due == nil {
		return false
	}
	y1, m1, d1 := due.In(s.loc).Date()
	y2, m2, d2 := date.In(s.loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (s *Service) sameClock(due *time.Time, clock time.Time) bool {
	if due == nil {
		return false
	}
	h1, m1, s1 := due.In(s.loc).Clock()
	h2, m2, s2 := clock.In(s.loc).Clock()
	return h1 == h2 && m1 == m2 && s1 == s2
}

// within treats a nil bound as open.
func within(due *time.Time, from, to *time.Time) bool {
	if due == nil {
		return false
	}
	if from != nil && due.Before(*from) {
		return false
	}
	if to != nil && due.After(*to) {
		return false
	}
	return true
}
