package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joseda-hg/lazytodo/internal/db"
	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/todos"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// newIndexTemplate renders due values in loc, the zone queries use.
func newIndexTemplate(loc *time.Location) *template.Template {
	return template.Must(template.New("index.tmpl").Funcs(template.FuncMap{
		"date":     func(t *time.Time) string { return dueDate(t, loc) },
		"clock":    func(t *time.Time) string { return dueClock(t, loc) },
		"relative": relative,
		"join":     strings.Join,
	}).ParseFS(templateFS, "templates/index.tmpl"))
}

// maxBody caps request bodies on the JSON API.
const maxBody = 1 << 20

type Server struct {
	todos *todos.Service
	index *template.Template
}

func NewServer(service *todos.Service) *Server {
	return &Server{todos: service, index: newIndexTemplate(service.Location())}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/api/todos", s.apiTodosHandler)
	mux.HandleFunc("/api/todos/", s.apiTodoHandler)
	return mux
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := s.todos.Init(r.Context()); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	filter, err := filterFromQuery(r.URL.Query(), s.todos.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := s.todos.Query(filter)
	data := struct {
		Total int
		Shown int
		Todos []model.Todo
		Query url.Values
	}{Total: s.todos.Count(), Shown: len(items), Todos: items, Query: r.URL.Query()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) apiTodosHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.todos.Init(r.Context()); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		filter, err := filterFromQuery(r.URL.Query(), s.todos.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, s.todos.Query(filter))
	case http.MethodPost:
		var draft model.Draft
		if err := decodeBody(w, r, &draft); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		todo, err := s.todos.Create(context.WithoutCancel(r.Context()), draft)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, todo)
	case http.MethodDelete:
		if err := s.todos.Clear(context.WithoutCancel(r.Context())); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) apiTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Path, "/api/todos/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := s.todos.Init(r.Context()); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		todo, ok := s.todos.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", todos.ErrNotFound, id))
			return
		}
		writeJSON(w, http.StatusOK, todo)
	case http.MethodPatch:
		var patch model.Patch
		if err := decodeBody(w, r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		todo, err := s.todos.Update(context.WithoutCancel(r.Context()), id, patch)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, todo)
	case http.MethodDelete:
		if _, ok := s.todos.Get(id); !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", todos.ErrNotFound, id))
			return
		}
		if err := s.todos.Remove(context.WithoutCancel(r.Context()), id); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func filterFromQuery(query url.Values, loc *time.Location) (model.Filter, error) {
	var filter model.Filter
	get := func(key string) string { return strings.TrimSpace(query.Get(key)) }

	if value := get("status"); value != "" {
		status, err := model.ParseStatus(value)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if value := get("priority"); value != "" {
		priority, err := model.ParsePriority(value)
		if err != nil {
			return filter, err
		}
		filter.Priority = &priority
	}
	if value := get("category"); value != "" {
		category, err := model.ParseCategory(value)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}
	if value := get("type"); value != "" {
		todoType, err := model.ParseType(value)
		if err != nil {
			return filter, err
		}
		filter.Type = &todoType
	}
	filter.Tag = get("tag")
	if query.Has("location") {
		location := query.Get("location")
		filter.Location = &location
	}

	dates := []struct {
		key  string
		dest **time.Time
	}{
		{"date", &filter.Date},
		{"due_from", &filter.DueFrom},
		{"due_to", &filter.DueTo},
	}
	for _, d := range dates {
		if value := get(d.key); value != "" {
			parsed, err := model.ParseDate(value, loc)
			if err != nil {
				return filter, err
			}
			*d.dest = &parsed
		}
	}

	clocks := []struct {
		key  string
		dest **time.Time
	}{
		{"time", &filter.Time},
		{"time_from", &filter.TimeFrom},
		{"time_to", &filter.TimeTo},
	}
	for _, c := range clocks {
		if value := get(c.key); value != "" {
			parsed, err := model.ParseClock(value, time.Now(), loc)
			if err != nil {
				return filter, err
			}
			*c.dest = &parsed
		}
	}
	return filter, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// statusFor maps service and storage errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, todos.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, todos.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrInvalidPriority),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidType),
		errors.Is(err, model.ErrInvalidCategory),
		errors.Is(err, db.ErrConstraint):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseID(path, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("invalid path")
	}
	value := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if value == "" {
		return "", fmt.Errorf("missing id")
	}
	return value, nil
}

func dueDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return model.FormatDate(t.In(loc))
}

func dueClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return model.FormatTime(t.In(loc))
}

func relative(t *time.Time) string {
	if t == nil {
		return ""
	}
	return humanize.Time(*t)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
