package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/todos"
)

const (
	viewHeader    = "header"
	viewFooter    = "footer"
	viewPending   = "pending"
	viewCompleted = "completed"
	viewTags      = "tags"
	viewDetail    = "detail"
	viewForm      = "form"
	viewHelp      = "help"
)

type UI struct {
	todos *todos.Service
	gui   *gocui.Gui
	loc   *time.Location
	now   func() time.Time

	filter    model.Filter
	pending   []model.Todo
	completed []model.Todo
	tags      []tagCountEntry

	selectedPending   int
	selectedCompleted int
	selectedTags      int
	focus             string

	form         *formState
	formEditor   *formEditor
	helpActive   bool
	confirmClear bool
	status       string
}

type formState struct {
	todoID string
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func newUI(service *todos.Service) *UI {
	ui := &UI{
		todos: service,
		loc:   service.Location(),
		now:   time.Now,
		focus: viewPending,
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

func Run(service *todos.Service) error {
	if err := service.Init(context.Background()); err != nil {
		return err
	}

	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(service)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.refresh()

	unsubscribe := service.OnChange(func(todos.Change) {
		gui.Update(func(*gocui.Gui) error {
			ui.refresh()
			return nil
		})
	})
	defer unsubscribe()

	if err := gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'r', u.reload},
		{'a', u.addTodo},
		{'e', u.editTodo},
		{'d', u.deleteTodo},
		{'x', u.toggleCompleted},
		{'p', u.cyclePriority},
		{'s', u.cycleStatus},
		{'C', u.clearAll},
		{'g', u.clearFilters},
		{'?', u.toggleHelp},
		{gocui.KeyTab, u.switchFocus},
		{'1', u.focusPending},
		{'2', u.focusCompleted},
		{'3', u.focusTags},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	for _, name := range []string{viewPending, viewCompleted, viewTags} {
		if err := gui.SetKeybinding(name, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'j', gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'k', gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		viewName := name
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewName, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, viewName, opts)
		}}); err != nil {
			return err
		}
	}
	if err := gui.SetKeybinding(viewTags, gocui.KeySpace, gocui.ModNone, u.toggleTagFilter); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTags, gocui.KeyEnter, gocui.ModNone, u.toggleTagFilter); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	return gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp)
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	u.renderHeader(headerView)

	footerY0 := max(maxY-4, 2)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, maxY-1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom-bodyTop < 6 {
		return nil
	}
	l := computeLayout(maxX, bodyBottom-bodyTop+1)

	leftX1 := l.leftWidth - 1
	pendingY1 := bodyTop + l.pendingHeight - 1
	completedY1 := pendingY1 + l.completedHeight

	lists := []struct {
		name, title string
		y0, y1      int
		color       gocui.Attribute
		render      func(*gocui.View)
	}{
		{viewPending, "1 Pending", bodyTop, pendingY1, gocui.ColorRed, func(v *gocui.View) {
			u.renderTodoList(v, u.pending, u.selectedPending, u.focus == viewPending)
		}},
		{viewCompleted, "2 Completed", pendingY1 + 1, completedY1, gocui.ColorGreen, func(v *gocui.View) {
			u.renderTodoList(v, u.completed, u.selectedCompleted, u.focus == viewCompleted)
		}},
		{viewTags, "3 Tags", completedY1 + 1, bodyBottom, gocui.ColorCyan, u.renderTags},
	}
	for _, list := range lists {
		view, err := gui.SetView(list.name, 0, list.y0, leftX1, list.y1, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		if goerrors.Is(err, gocui.ErrUnknownView) {
			view.Title = list.title
			view.TitleColor = list.color
		}
		applyViewStyle(view, u.focus == list.name)
		list.render(view)
	}

	detailView, err := gui.SetView(viewDetail, leftX1+1, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Detail"
		detailView.Wrap = true
	}
	width, _ := detailView.Size()
	u.renderDetail(detailView, width)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.form != nil
	return nil
}

type layout struct {
	leftWidth       int
	pendingHeight   int
	completedHeight int
}

func computeLayout(width, height int) layout {
	safeWidth := max(width, 40)
	safeHeight := max(height, 8)

	leftWidth := max(safeWidth/2, 30)
	if leftWidth > safeWidth-20 {
		leftWidth = safeWidth / 2
	}
	pendingHeight := max(int(float64(safeHeight)*0.5), 4)
	completedHeight := max(int(float64(safeHeight)*0.25), 3)
	if pendingHeight+completedHeight > safeHeight-3 {
		completedHeight = max(safeHeight-pendingHeight-3, 3)
	}
	return layout{leftWidth: leftWidth, pendingHeight: pendingHeight, completedHeight: completedHeight}
}

// refresh re-reads the facade. It never touches the gui so handlers can run
// without a terminal.
func (u *UI) refresh() {
	visible := u.todos.Query(u.filter)
	u.pending, u.completed = splitByCompletion(visible)
	u.tags = countTags(u.todos.All())

	u.selectedPending = clampIndex(u.selectedPending, len(u.pending))
	u.selectedCompleted = clampIndex(u.selectedCompleted, len(u.completed))
	u.selectedTags = clampIndex(u.selectedTags, len(u.tags))
}

func clampIndex(index, length int) int {
	if index >= length {
		return max(length-1, 0)
	}
	return max(index, 0)
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	tag := u.filter.Tag
	if tag == "" {
		tag = "any"
	}
	fmt.Fprintf(view, "lazytodo | %d pending | %d completed | %d total | Tag: %s",
		len(u.pending), len(u.completed), u.todos.Count(), tag)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "a add | e edit | d delete | x complete | p priority | s status | C clear all")
	fmt.Fprintln(view, "space tag filter | g clear filter | tab/1-3 panes | r reload | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderTodoList(view *gocui.View, items []model.Todo, selected int, focused bool) {
	view.Clear()
	now := u.now()
	for i, todo := range items {
		prefix := " "
		if i == selected {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTodoSummary(todo, now))
	}
	if focused && len(items) > 0 {
		view.SetCursor(0, min(selected, len(items)-1))
	}
}

func (u *UI) renderTags(view *gocui.View) {
	view.Clear()
	for index, entry := range u.tags {
		prefix := " "
		if index == u.selectedTags {
			prefix = ">"
		}
		marker := " "
		if u.filter.Tag == entry.Name {
			marker = "x"
		}
		fmt.Fprintf(view, "%s [%s] %s (%d)\n", prefix, marker, entry.Name, entry.Count)
	}
	if u.focus == viewTags && len(u.tags) > 0 {
		view.SetCursor(0, min(u.selectedTags, len(u.tags)-1))
	}
}

func (u *UI) renderDetail(view *gocui.View, width int) {
	view.Clear()
	fmt.Fprint(view, u.detailText(width))
}

func (u *UI) detailText(width int) string {
	todo := u.selectedTodo()
	if todo == nil {
		return "No todo selected."
	}

	var b strings.Builder
	now := u.now()
	fmt.Fprintf(&b, "%s\n\n", todo.Title)
	if todo.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", wordwrap.String(todo.Description, max(width-1, 20)))
	}
	fmt.Fprintf(&b, "Completed: %t\n", todo.Completed)
	fmt.Fprintf(&b, "Status:    %s\n", todo.Status)
	fmt.Fprintf(&b, "Priority:  %s\n", todo.Priority)
	fmt.Fprintf(&b, "Type:      %s\n", todo.Type)
	fmt.Fprintf(&b, "Category:  %s\n", todo.Category)
	fmt.Fprintf(&b, "Tags:      %s\n", formatTags(todo.Tags))
	if todo.Location != "" {
		fmt.Fprintf(&b, "Location:  %s\n", todo.Location)
	}
	if todo.DueDate != nil {
		fmt.Fprintf(&b, "Due date:  %s (%s)\n", model.FormatDate(todo.DueDate.In(u.loc)),
			humanize.RelTime(*todo.DueDate, now, "ago", "from now"))
	}
	if todo.DueTime != nil {
		fmt.Fprintf(&b, "Due time:  %s\n", model.FormatTime(todo.DueTime.In(u.loc)))
	}
	fmt.Fprintf(&b, "\nCreated %s, updated %s\n",
		humanize.RelTime(todo.CreatedAt, now, "ago", "from now"),
		humanize.RelTime(todo.UpdatedAt, now, "ago", "from now"))
	fmt.Fprintf(&b, "ID: %s\n", todo.ID)
	return b.String()
}

func (u *UI) selectedTodo() *model.Todo {
	switch u.focus {
	case viewCompleted:
		if u.selectedCompleted < len(u.completed) {
			return &u.completed[u.selectedCompleted]
		}
	default:
		if u.selectedPending < len(u.pending) {
			return &u.pending[u.selectedPending]
		}
	}
	return nil
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}
	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	index := opts.Y - y0 - 1 + oy
	switch viewName {
	case viewPending:
		u.selectedPending = clampIndex(index, len(u.pending))
	case viewCompleted:
		u.selectedCompleted = clampIndex(index, len(u.completed))
	case viewTags:
		u.selectedTags = clampIndex(index, len(u.tags))
	}
	return u.setFocus(gui, viewName)
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	order := []string{viewPending, viewCompleted, viewTags}
	next := order[0]
	for i, name := range order {
		if name == u.focus {
			next = order[(i+1)%len(order)]
			break
		}
	}
	return u.setFocus(gui, next)
}

func (u *UI) focusPending(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewPending)
}

func (u *UI) focusCompleted(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewCompleted)
}

func (u *UI) focusTags(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTags)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	if gui != nil {
		_, _ = gui.SetCurrentView(name)
	}
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewPending:
		u.selectedPending = clampIndex(u.selectedPending+1, len(u.pending))
	case viewCompleted:
		u.selectedCompleted = clampIndex(u.selectedCompleted+1, len(u.completed))
	case viewTags:
		u.selectedTags = clampIndex(u.selectedTags+1, len(u.tags))
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewPending:
		u.selectedPending = clampIndex(u.selectedPending-1, len(u.pending))
	case viewCompleted:
		u.selectedCompleted = clampIndex(u.selectedCompleted-1, len(u.completed))
	case viewTags:
		u.selectedTags = clampIndex(u.selectedTags-1, len(u.tags))
	}
	return nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) clearFilters(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.filter = model.Filter{}
	u.refresh()
	return nil
}

func (u *UI) toggleTagFilter(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTags {
		return nil
	}
	if u.selectedTags >= len(u.tags) {
		return nil
	}
	name := u.tags[u.selectedTags].Name
	if u.filter.Tag == name {
		u.filter.Tag = ""
	} else {
		u.filter.Tag = name
	}
	u.refresh()
	return nil
}

func (u *UI) toggleHelp(_ *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	if gui != nil {
		_ = gui.DeleteView(viewHelp)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := min(70, maxX-2)
	height := min(18, maxY-2)
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = "Help"
	view.Wrap = true
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetViewOnTop(viewHelp)
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) addTodo(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{fields: buildFormFields(nil, u.loc)}
	return nil
}

func (u *UI) editTodo(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	u.form = &formState{todoID: selected.ID, fields: buildFormFields(selected, u.loc)}
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := min(max(60, maxX/2), maxX-2)
	height := min(len(u.form.fields)+2, maxY-2)
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if u.form.todoID != "" {
		view.Title = "Edit Todo"
	} else {
		view.Title = "New Todo"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetViewOnTop(viewForm)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	draft, err := parseFormFields(u.form.fields, u.loc, u.now())
	if err != nil {
		u.status = err.Error()
		return nil
	}

	ctx := context.Background()
	if u.form.todoID == "" {
		_, err = u.todos.Create(ctx, draft)
	} else {
		_, err = u.todos.Update(ctx, u.form.todoID, patchFromDraft(draft))
	}
	if err != nil {
		u.status = err.Error()
		return nil
	}

	u.form = nil
	u.status = ""
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	u.refresh()
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) nextFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		value := field.Value
		if len(field.Options) > 0 {
			value = "< " + value + " >"
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, value)
	}
	field := u.form.fields[u.form.index]
	cursorX := len([]rune(field.Label)) + len([]rune(field.Value)) + 4
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if len(field.Options) > 0 {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cycleOption(field.Options, field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cycleOption(field.Options, field.Value, -1)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func (u *UI) deleteTodo(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	if err := u.todos.Remove(context.Background(), selected.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) toggleCompleted(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	completed := !selected.Completed
	return u.apply(selected.ID, model.Patch{Completed: &completed})
}

func (u *UI) cyclePriority(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	next := model.Priority(cycleOption(enumStrings(model.ValidPriorities()), string(selected.Priority), 1))
	return u.apply(selected.ID, model.Patch{Priority: &next})
}

func (u *UI) cycleStatus(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	next := model.Status(cycleOption(enumStrings(model.ValidStatuses()), string(selected.Status), 1))
	return u.apply(selected.ID, model.Patch{Status: &next})
}

func (u *UI) apply(id string, patch model.Patch) error {
	if _, err := u.todos.Update(context.Background(), id, patch); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	u.refresh()
	return nil
}

// clearAll asks for confirmation on the first press and clears on the second.
func (u *UI) clearAll(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if !u.confirmClear {
		u.confirmClear = true
		u.status = "press C again to delete every todo"
		return nil
	}
	u.confirmClear = false
	if err := u.todos.Clear(context.Background()); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  tab cycle panes | 1 Pending | 2 Completed | 3 Tags",
		"  j/k or arrows move selection | mouse click selects",
		"",
		"Actions:",
		"  a add | e edit | d delete | x toggle completed",
		"  p cycle priority | s cycle status | C clear all (press twice)",
		"",
		"Form:",
		"  tab/arrows next field | space/left/right cycle choices | enter save | esc cancel",
		"",
		"Filter:",
		"  space/enter toggle tag filter (Tags pane) | g clear filter",
		"",
		"Other:",
		"  r reload | ? help | esc close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool) {
	view.Frame = true
	view.Highlight = focused
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	if focused {
		view.FrameColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}
