package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

const todoColumns = `id, title, description, completed, createdAt, updatedAt, priority, status, type, category, dueDate, dueTime, tags, location`

const insertTodo = `INSERT INTO todos (` + todoColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// updateTodo is a single static statement: each column pairs a "set" flag
// with its new value, so the column list never depends on caller input.
const updateTodo = `UPDATE todos SET
  title = CASE WHEN ? THEN ? ELSE title END,
  description = CASE WHEN ? THEN ? ELSE description END,
  completed = CASE WHEN ? THEN ? ELSE completed END,
  priority = CASE WHEN ? THEN ? ELSE priority END,
  status = CASE WHEN ? THEN ? ELSE status END,
  type = CASE WHEN ? THEN ? ELSE type END,
  category = CASE WHEN ? THEN ? ELSE category END,
  dueDate = CASE WHEN ? THEN ? ELSE dueDate END,
  dueTime = CASE WHEN ? THEN ? ELSE dueTime END,
  tags = CASE WHEN ? THEN ? ELSE tags END,
  location = CASE WHEN ? THEN ? ELSE location END,
  updatedAt = ?
WHERE id = ?`

const deleteTodo = `DELETE FROM todos WHERE id = ?`

const deleteAllTodos = `DELETE FROM todos`

const listTodos = `SELECT ` + todoColumns + ` FROM todos ORDER BY createdAt ASC, rowid ASC`

const getTodo = `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

// Store is the durable todo table. It is built once around the process-wide
// database handle and shared by everything that persists todos.
type Store struct {
	DB *sql.DB

	mu          sync.Mutex
	schemaReady bool
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// EnsureSchema creates the todos table if needed and switches the database
// to write-ahead logging. Calls after the first success do nothing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schemaReady {
		return nil
	}
	if err := applySchema(ctx, s.DB); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	s.schemaReady = true
	return nil
}

// Insert adds a row. A duplicate id fails with ErrConstraint.
func (s *Store) Insert(ctx context.Context, row Row) error {
	_, err := s.DB.ExecContext(ctx, insertTodo,
		row.ID,
		row.Title,
		row.Description,
		row.Completed,
		row.CreatedAt,
		row.UpdatedAt,
		row.Priority,
		row.Status,
		row.Type,
		row.Category,
		row.DueDate,
		row.DueTime,
		row.Tags,
		row.Location,
	)
	return classify("insert todo", err)
}

// Update writes the plan's columns on the row with the given id. An unknown
// id is not an error.
func (s *Store) Update(ctx context.Context, id string, plan UpdatePlan) error {
	_, err := s.DB.ExecContext(ctx, updateTodo, plan.args(id)...)
	return classify("update todo", err)
}

// Delete removes the row with the given id, if any.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, deleteTodo, id)
	return classify("delete todo", err)
}

// DeleteAll empties the table.
func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, deleteAllTodos)
	return classify("delete all todos", err)
}

// LoadAll returns every row, oldest first.
func (s *Store) LoadAll(ctx context.Context) ([]Row, error) {
	rows, err := s.DB.QueryContext(ctx, listTodos)
	if err != nil {
		return nil, classify("list todos", err)
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, classify("scan todo", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list todos", err)
	}
	return result, nil
}

// Get returns the row with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Row, error) {
	row, err := scanRow(s.DB.QueryRowContext(ctx, getTodo, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, fmt.Errorf("get todo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Row{}, classify("get todo", err)
	}
	return row, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(scanner rowScanner) (Row, error) {
	var row Row
	err := scanner.Scan(
		&row.ID,
		&row.Title,
		&row.Description,
		&row.Completed,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.Priority,
		&row.Status,
		&row.Type,
		&row.Category,
		&row.DueDate,
		&row.DueTime,
		&row.Tags,
		&row.Location,
	)
	return row, err
}
