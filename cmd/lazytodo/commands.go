package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

// todoFlags holds the per-field flags shared by add and edit.
type todoFlags struct {
	title       string
	description string
	priority    string
	status      string
	todoType    string
	category    string
	tags        []string
	location    string
	due         string
	at          string
	completed   bool
	clearDue    bool
	clearTime   bool
	clearTags   bool
}

func (f *todoFlags) register(flags *pflag.FlagSet, editing bool) {
	if editing {
		flags.StringVar(&f.title, "title", "", "new title")
		flags.BoolVar(&f.clearDue, "clear-due", false, "remove the due date")
		flags.BoolVar(&f.clearTime, "clear-time", false, "remove the due time")
		flags.BoolVar(&f.clearTags, "clear-tags", false, "remove every tag")
	}
	flags.StringVarP(&f.description, "description", "d", "", "description")
	flags.StringVarP(&f.priority, "priority", "p", "", "priority (low, medium, high)")
	flags.StringVarP(&f.status, "status", "s", "", "status (pending, completed)")
	flags.StringVarP(&f.todoType, "type", "t", "", "type (task, event, reminder)")
	flags.StringVarP(&f.category, "category", "c", "", "category (work, personal, shopping, other)")
	flags.StringArrayVar(&f.tags, "tag", nil, "tag, repeatable")
	flags.StringVarP(&f.location, "location", "l", "", "location")
	flags.StringVar(&f.due, "due", "", "due date, YYYY-MM-DD")
	flags.StringVar(&f.at, "time", "", "due time, HH:MM or 3:04 PM")
	flags.BoolVar(&f.completed, "completed", false, "mark as completed")
}

// draft builds a new todo from the flags. A due time without a due date is
// placed on today.
func (f *todoFlags) draft(title string, loc *time.Location, now time.Time) (model.Draft, error) {
	draft := model.Draft{
		Title:       title,
		Description: f.description,
		Completed:   f.completed,
		Tags:        f.tags,
		Location:    f.location,
	}

	var err error
	if f.priority != "" {
		if draft.Priority, err = model.ParsePriority(f.priority); err != nil {
			return draft, err
		}
	}
	if f.status != "" {
		if draft.Status, err = model.ParseStatus(f.status); err != nil {
			return draft, err
		}
	}
	if f.todoType != "" {
		if draft.Type, err = model.ParseType(f.todoType); err != nil {
			return draft, err
		}
	}
	if f.category != "" {
		if draft.Category, err = model.ParseCategory(f.category); err != nil {
			return draft, err
		}
	}

	on := now
	if f.due != "" {
		due, err := model.ParseDate(f.due, loc)
		if err != nil {
			return draft, err
		}
		draft.DueDate = &due
		on = due
	}
	if f.at != "" {
		at, err := model.ParseClock(f.at, on, loc)
		if err != nil {
			return draft, err
		}
		draft.DueTime = &at
	}
	return draft, nil
}

// patch builds an update from the flags the user actually passed. A new due
// time lands on the new due date, else the current one, else today.
func (f *todoFlags) patch(flags *pflag.FlagSet, current model.Todo, loc *time.Location, now time.Time) (model.Patch, error) {
	var patch model.Patch
	changed := flags.Changed

	if changed("title") {
		patch.Title = &f.title
	}
	if changed("description") {
		patch.Description = &f.description
	}
	if changed("completed") {
		patch.Completed = &f.completed
	}
	if changed("location") {
		patch.Location = &f.location
	}
	if changed("priority") {
		priority, err := model.ParsePriority(f.priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &priority
	}
	if changed("status") {
		status, err := model.ParseStatus(f.status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}
	if changed("type") {
		todoType, err := model.ParseType(f.todoType)
		if err != nil {
			return patch, err
		}
		patch.Type = &todoType
	}
	if changed("category") {
		category, err := model.ParseCategory(f.category)
		if err != nil {
			return patch, err
		}
		patch.Category = &category
	}
	if f.clearTags {
		patch.Tags = &[]string{}
	} else if changed("tag") {
		tags := append([]string{}, f.tags...)
		patch.Tags = &tags
	}

	on := now
	if current.DueDate != nil {
		on = *current.DueDate
	}
	if f.clearDue {
		patch.ClearDueDate = true
	} else if changed("due") {
		due, err := model.ParseDate(f.due, loc)
		if err != nil {
			return patch, err
		}
		patch.DueDate = &due
		on = due
	}
	if f.clearTime {
		patch.ClearDueTime = true
	} else if changed("time") {
		at, err := model.ParseClock(f.at, on, loc)
		if err != nil {
			return patch, err
		}
		patch.DueTime = &at
	}
	return patch, nil
}

func newAddCmd(app *app) *cobra.Command {
	var flags todoFlags
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a todo and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := flags.draft(args[0], app.service.Location(), time.Now())
			if err != nil {
				return err
			}
			todo, err := app.service.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, todo.ID)
			return nil
		},
	}
	flags.register(cmd.Flags(), false)
	return cmd
}

// listFlags mirrors the web API's filter query parameters.
type listFlags struct {
	status   string
	priority string
	category string
	todoType string
	tag      string
	location string
	date     string
	from     string
	to       string
	at       string
	timeFrom string
	timeTo   string
	asJSON   bool
}

func (f *listFlags) filter(flags *pflag.FlagSet, loc *time.Location, now time.Time) (model.Filter, error) {
	var filter model.Filter
	var err error

	if f.status != "" {
		status, err := model.ParseStatus(f.status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if f.priority != "" {
		priority, err := model.ParsePriority(f.priority)
		if err != nil {
			return filter, err
		}
		filter.Priority = &priority
	}
	if f.category != "" {
		category, err := model.ParseCategory(f.category)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}
	if f.todoType != "" {
		todoType, err := model.ParseType(f.todoType)
		if err != nil {
			return filter, err
		}
		filter.Type = &todoType
	}
	filter.Tag = f.tag
	if flags.Changed("location") {
		location := f.location
		filter.Location = &location
	}

	if filter.Date, err = optionalDate(f.date, loc); err != nil {
		return filter, err
	}
	if filter.DueFrom, err = optionalDate(f.from, loc); err != nil {
		return filter, err
	}
	if filter.DueTo, err = optionalDate(f.to, loc); err != nil {
		return filter, err
	}
	if filter.Time, err = optionalClock(f.at, now, loc); err != nil {
		return filter, err
	}
	if filter.TimeFrom, err = optionalClock(f.timeFrom, now, loc); err != nil {
		return filter, err
	}
	if filter.TimeTo, err = optionalClock(f.timeTo, now, loc); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := model.ParseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func optionalClock(value string, on time.Time, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := model.ParseClock(value, on, loc)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func newListCmd(app *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos, optionally filtered",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter(cmd.Flags(), app.service.Location(), time.Now())
			if err != nil {
				return err
			}
			items := app.service.Query(filter)
			if flags.asJSON {
				return writeJSON(app.stdout, items)
			}
			printList(app.stdout, items, app.service.Location())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.status, "status", "s", "", "only this status")
	f.StringVarP(&flags.priority, "priority", "p", "", "only this priority")
	f.StringVarP(&flags.category, "category", "c", "", "only this category")
	f.StringVarP(&flags.todoType, "type", "t", "", "only this type")
	f.StringVar(&flags.tag, "tag", "", "only todos carrying this tag")
	f.StringVarP(&flags.location, "location", "l", "", "only this location")
	f.StringVar(&flags.date, "date", "", "due on this calendar day")
	f.StringVar(&flags.from, "from", "", "due at or after this date")
	f.StringVar(&flags.to, "to", "", "due at or before this date")
	f.StringVar(&flags.at, "time", "", "due at this time of day")
	f.StringVar(&flags.timeFrom, "time-from", "", "due time at or after this")
	f.StringVar(&flags.timeTo, "time-to", "", "due time at or before this")
	f.BoolVar(&flags.asJSON, "json", false, "print JSON")
	return cmd
}

func newShowCmd(app *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			todo, err := app.service.Resolve(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(app.stdout, todo)
			}
			printTodo(app.stdout, todo, app.service.Location(), outputWidth(app.stdout))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newEditCmd(app *app) *cobra.Command {
	var flags todoFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := app.service.Resolve(args[0])
			if err != nil {
				return err
			}
			patch, err := flags.patch(cmd.Flags(), current, app.service.Location(), time.Now())
			if err != nil {
				return err
			}
			if patch.Empty() {
				return errors.New("nothing to change: pass at least one field flag")
			}
			updated, err := app.service.Update(cmd.Context(), current.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Updated %s %s\n", shortID(updated.ID), updated.Title)
			return nil
		},
	}
	flags.register(cmd.Flags(), true)
	return cmd
}

func newDoneCmd(app *app, completed bool) *cobra.Command {
	use, short, verb := "done ID", "Mark a todo as completed", "Completed"
	if !completed {
		use, short, verb = "undo ID", "Mark a todo as not completed", "Reopened"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := app.service.Resolve(args[0])
			if err != nil {
				return err
			}
			updated, err := app.service.Update(cmd.Context(), current.ID, model.Patch{Completed: &completed})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s %s\n", verb, shortID(updated.ID), updated.Title)
			return nil
		},
	}
}

func newRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := app.service.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := app.service.Remove(cmd.Context(), current.ID); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Removed %s %s\n", shortID(current.ID), current.Title)
			return nil
		},
	}
}

func newClearCmd(app *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count := app.service.Count()
			if !yes {
				return fmt.Errorf("refusing to delete %d todos without --yes", count)
			}
			if err := app.service.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Removed %d todos\n", count)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting everything")
	return cmd
}

func newServeCmd(app *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == 0 {
				port = app.cfg.WebPort
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := app.newHTTPServer(port)
			errCh := make(chan error, 1)
			go func() {
				fmt.Fprintf(app.stderr, "Web server running at http://localhost:%d\n", port)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "web server port")
	return cmd
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
