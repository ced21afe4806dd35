// Package ui contains the Bubble Tea models for the product console. The
// update loop is the single execution queue: network calls run as commands
// and re-enter as completion messages in arrival order.
package ui

import (
	"sync"
	"time"

	"product-console/internal/alert"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// requestTimeout bounds each API call dispatched from a view.
const requestTimeout = 30 * time.Second

// route identifies one of the three addressable views.
type route int

const (
	routeList route = iota
	routeCreate
	routeEdit
)

// navigateMsg asks the app to switch views. The id parameter is only
// meaningful for routeEdit.
type navigateMsg struct {
	route route
	id    string
}

func navigateTo(r route, id string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r, id: id} }
}

// App is the composition root: it owns the alert service and API client,
// routes between the list and form views, and feeds alert-service
// deliveries back into the single-threaded update loop.
type App struct {
	api      ProductAPI
	alerts   *alert.Service
	logger   zerolog.Logger
	pageSize int

	route route
	list  listModel
	form  formModel
	alert alertView

	// inbox buffers synchronous alert-service deliveries (they arrive
	// mid-Update, while a child fires) until the app drains them into the
	// alert view after the child finishes.
	inbox       *alertInbox
	unsubscribe func()
}

type alertInbox struct {
	mu      sync.Mutex
	pending []*alert.Options
}

func (in *alertInbox) push(opts *alert.Options) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pending = append(in.pending, opts)
}

func (in *alertInbox) drain() []*alert.Options {
	in.mu.Lock()
	defer in.mu.Unlock()
	pending := in.pending
	in.pending = nil
	return pending
}

// NewApp wires the console together. The alert channel handle is passed
// explicitly to every consumer; nothing is package-global.
func NewApp(api ProductAPI, alerts *alert.Service, pageSize int, logger zerolog.Logger) *App {
	app := &App{
		api:      api,
		alerts:   alerts,
		logger:   logger.With().Str("component", "ui").Logger(),
		pageSize: pageSize,
		route:    routeList,
		list:     newListModel(api, alerts, pageSize, logger),
		alert:    newAlertView(alerts),
		inbox:    &alertInbox{},
	}
	app.unsubscribe = alerts.Subscribe(app.inbox.push)
	return app
}

func (a *App) Init() tea.Cmd {
	var cmd tea.Cmd
	a.list, cmd = a.list.loadProducts()
	return tea.Batch(cmd, a.list.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.teardown()
			return a, tea.Quit
		case "q":
			if a.route == routeList && !a.list.search.Focused() && !a.list.showDeleteModal {
				a.teardown()
				return a, tea.Quit
			}
		case "x":
			// Dismiss the alert banner when one is showing; otherwise the
			// key belongs to the active view. In the form (or a focused
			// search box) "x" is always a text character.
			if a.alert.current != nil && a.alert.current.Closable && a.route == routeList && !a.list.search.Focused() {
				a.alert = a.alert.Close()
				cmds = append(cmds, a.drainAlerts()...)
				return a, tea.Batch(cmds...)
			}
		}

	case navigateMsg:
		cmds = append(cmds, a.navigate(msg))
		cmds = append(cmds, a.drainAlerts()...)
		return a, tea.Batch(cmds...)

	case alertChangedMsg, dismissAlertMsg:
		var cmd tea.Cmd
		a.alert, cmd = a.alert.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, a.drainAlerts()...)
		return a, tea.Batch(cmds...)
	}

	switch a.route {
	case routeList:
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		cmds = append(cmds, cmd)
	case routeCreate, routeEdit:
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, a.drainAlerts()...)
	return a, tea.Batch(cmds...)
}

// navigate swaps the active view. Views hold no cache across navigations:
// each one re-fetches on entry.
func (a *App) navigate(msg navigateMsg) tea.Cmd {
	a.route = msg.route
	switch msg.route {
	case routeList:
		a.list = newListModel(a.api, a.alerts, a.pageSize, a.logger)
		var cmd tea.Cmd
		a.list, cmd = a.list.loadProducts()
		return tea.Batch(cmd, a.list.spinner.Tick)
	case routeCreate:
		a.form = newFormModel(a.api, a.alerts, "", a.logger)
		return a.form.Init()
	case routeEdit:
		a.form = newFormModel(a.api, a.alerts, msg.id, a.logger)
		return a.form.Init()
	}
	return nil
}

// drainAlerts converts buffered service deliveries into alert view updates
// and collects the timer commands they arm.
func (a *App) drainAlerts() []tea.Cmd {
	var cmds []tea.Cmd
	for _, opts := range a.inbox.drain() {
		var cmd tea.Cmd
		a.alert, cmd = a.alert.Update(alertChangedMsg{opts: opts})
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (a *App) teardown() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) View() string {
	var view string
	switch a.route {
	case routeList:
		view = a.list.View()
	case routeCreate, routeEdit:
		view = a.form.View()
	}

	if banner := a.alert.View(); banner != "" {
		return banner + "\n\n" + view
	}
	return view
}
