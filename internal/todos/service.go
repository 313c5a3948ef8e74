// Package todos is the single source of truth for todo state. It mirrors the
// durable todos table in memory, routes every mutation through the store
// before touching that mirror, and announces each change to subscribers.
package todos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Joseda-hg/lazytodo/internal/db"
	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/pubsub"
)

var (
	// ErrNotReady is returned when the service could not be initialized.
	ErrNotReady = errors.New("todo store not ready")

	// ErrNotFound is returned when no todo has the requested id.
	ErrNotFound = errors.New("todo not found")

	// ErrAmbiguousID is returned when an id prefix matches several todos.
	ErrAmbiguousID = errors.New("ambiguous todo id")
)

// Store is the durable side of the service. *db.Store satisfies it.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, row db.Row) error
	Update(ctx context.Context, id string, plan db.UpdatePlan) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	LoadAll(ctx context.Context) ([]db.Row, error)
}

// State tracks initialization progress.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Change is published whenever the collection is replaced. ID names the
// affected todo and is empty for loads and clears.
type Change struct {
	ID    string
	Todos []model.Todo
}

type Options struct {
	NewID    func() string
	Now      func() time.Time
	Logger   *log.Logger
	Location *time.Location
	Broker   *pubsub.Broker[Change]
}

type Service struct {
	store  Store
	newID  func() string
	now    func() time.Time
	logger *log.Logger
	loc    *time.Location
	broker *pubsub.Broker[Change]

	initMu sync.Mutex

	mu    sync.RWMutex
	state State
	todos []model.Todo
}

func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:  store,
		newID:  opts.NewID,
		now:    opts.Now,
		logger: opts.Logger,
		loc:    opts.Location,
		broker: opts.Broker,
		todos:  []model.Todo{},
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.broker == nil {
		s.broker = pubsub.NewBroker[Change]()
	}
	return s
}

// Init prepares the schema and loads every stored todo. Concurrent callers
// share one attempt; once ready, further calls return immediately. A failed
// attempt leaves the service in StateFailed and may be retried.
func (s *Service) Init(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.Ready() {
		return nil
	}
	s.setState(StateInitializing)

	loaded, err := s.load(ctx)
	if err != nil {
		s.setState(StateFailed)
		s.logger.Printf("init todos: %v", err)
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = loaded
	s.state = StateReady
	s.publishLocked(pubsub.EventLoaded, "")
	return nil
}

func (s *Service) load(ctx context.Context) ([]model.Todo, error) {
	if err := s.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	loaded := make([]model.Todo, 0, len(rows))
	for _, row := range rows {
		todo, err := row.Todo()
		if err != nil {
			return nil, fmt.Errorf("load todos: %w", err)
		}
		loaded = append(loaded, todo)
	}
	return loaded, nil
}

func (s *Service) Ready() bool {
	return s.State() == StateReady
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Service) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Service) ensureReady(ctx context.Context) error {
	if s.Ready() {
		return nil
	}
	return s.Init(ctx)
}

// Create stores a new todo built from draft and appends it to the collection.
func (s *Service) Create(ctx context.Context, draft model.Draft) (model.Todo, error) {
	if err := s.ensureReady(ctx); err != nil {
		return model.Todo{}, s.fail("create todo", err)
	}

	todo := draft.Todo()
	if err := todo.Validate(); err != nil {
		return model.Todo{}, s.fail("create todo", err)
	}
	now := s.now()
	todo.ID = s.newID()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	row, err := db.RowFromTodo(todo)
	if err != nil {
		return model.Todo{}, s.fail("create todo", err)
	}
	if err := s.store.Insert(ctx, row); err != nil {
		return model.Todo{}, s.fail("create todo", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Todo, 0, len(s.todos)+1)
	next = append(next, s.todos...)
	s.todos = append(next, todo)
	s.publishLocked(pubsub.EventCreated, todo.ID)
	return todo.Clone(), nil
}

// Update merges patch into the todo with the given id. Only the patched
// columns and updatedAt are written.
func (s *Service) Update(ctx context.Context, id string, patch model.Patch) (model.Todo, error) {
	if err := s.ensureReady(ctx); err != nil {
		return model.Todo{}, s.fail("update todo", err)
	}

	current, ok := s.lookup(id)
	if !ok {
		return model.Todo{}, s.fail("update todo", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	if err := patch.Validate(); err != nil {
		return model.Todo{}, s.fail("update todo", err)
	}

	now := s.now()
	if now.Before(current.CreatedAt) {
		now = current.CreatedAt
	}
	updated := patch.Apply(current)
	updated.UpdatedAt = now

	plan, err := db.PlanFromPatch(patch, now)
	if err != nil {
		return model.Todo{}, s.fail("update todo", err)
	}
	if err := s.store.Update(ctx, id, plan); err != nil {
		return model.Todo{}, s.fail("update todo", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := slices.Clone(s.todos)
	for i := range next {
		if next[i].ID == id {
			next[i] = updated
		}
	}
	s.todos = next
	s.publishLocked(pubsub.EventUpdated, id)
	return updated.Clone(), nil
}

// Remove deletes the todo with the given id. Removing an unknown id is not
// an error.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.ensureReady(ctx); err != nil {
		return s.fail("remove todo", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail("remove todo", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = slices.DeleteFunc(slices.Clone(s.todos), func(t model.Todo) bool {
		return t.ID == id
	})
	s.publishLocked(pubsub.EventDeleted, id)
	return nil
}

// Clear deletes every todo.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.ensureReady(ctx); err != nil {
		return s.fail("clear todos", err)
	}
	if err := s.store.DeleteAll(ctx); err != nil {
		return s.fail("clear todos", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = []model.Todo{}
	s.publishLocked(pubsub.EventCleared, "")
	return nil
}

// Subscribe returns a channel of collection changes that lives until ctx is
// done or the service is closed.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return s.broker.Subscribe(ctx)
}

// OnChange calls fn from a separate goroutine for every change until the
// returned function is called.
func (s *Service) OnChange(fn func(Change)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	events := s.broker.Subscribe(ctx)
	go func() {
		for event := range events {
			fn(event.Payload)
		}
	}()
	return cancel
}

// Close ends every subscription.
func (s *Service) Close() {
	s.broker.Shutdown()
}

// Location is the zone calendar and clock queries are evaluated in.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) fail(op string, err error) error {
	err = fmt.Errorf("%s: %w", op, err)
	s.logger.Print(err)
	return err
}

func (s *Service) lookup(id string) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, todo := range s.todos {
		if todo.ID == id {
			return todo.Clone(), true
		}
	}
	return model.Todo{}, false
}

// publishLocked must run with s.mu held so events leave in mutation order.
func (s *Service) publishLocked(eventType pubsub.EventType, id string) {
	s.broker.Publish(eventType, Change{ID: id, Todos: cloneAll(s.todos)})
}

func cloneAll(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i, todo := range todos {
		out[i] = todo.Clone()
	}
	return out
}
