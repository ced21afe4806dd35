package ui

import (
	"context"
	"fmt"
	"strings"

	"product-console/internal/alert"
	"product-console/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Messages produced by list commands.
type (
	productsLoadedMsg struct {
		seq      int
		products []model.Product
	}
	loadFailedMsg struct {
		seq int
		err error
	}
	deleteDoneMsg   struct{ message string }
	deleteFailedMsg struct{ err error }
)

// pageSizes are the selectable page sizes, cycled with the "s" key.
var pageSizes = []int{5, 10, 20}

// listColumns describes the product table.
var listColumns = []model.Column{
	{Key: "id", Label: "ID"},
	{Key: "logo", Label: "Logo", Center: true},
	{Key: "name", Label: "Nombre del producto"},
	{Key: "description", Label: "Descripción", Desc: "Descripción del Producto"},
	{Key: "date_release", Label: "Fecha de liberación", Desc: "Fecha a liberar el producto para los clientes en General", Center: true},
	{Key: "date_revision", Label: "Fecha de reestructuración", Desc: "Fecha de revisión del producto para cambiar Términos y Condiciones", Center: true},
}

// listModel drives the product list view: load, filter, paginate, delete
// with confirmation, and navigation to the form.
type listModel struct {
	api    ProductAPI
	alerts *alert.Service
	logger zerolog.Logger

	products []model.Product
	filtered []model.Product
	paged    []model.Product

	page    int
	perPage int

	search textinput.Model
	// lastTerm tracks the search input so filters only recompute on change.
	lastTerm string

	spinner spinner.Model
	loading bool
	// loadSeq stamps each load; completions from an older load are
	// discarded so a slow response cannot overwrite fresher data.
	loadSeq int

	cursor          int
	deleteID        string
	showDeleteModal bool
}

func newListModel(api ProductAPI, alerts *alert.Service, perPage int, logger zerolog.Logger) listModel {
	search := textinput.New()
	search.Placeholder = "Buscar por nombre..."
	search.Prompt = "/ "
	search.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if perPage <= 0 {
		perPage = pageSizes[0]
	}

	return listModel{
		api:     api,
		alerts:  alerts,
		logger:  logger.With().Str("view", "product-list").Logger(),
		page:    1,
		perPage: perPage,
		search:  search,
		spinner: sp,
	}
}

// loadProducts flags the view as loading and dispatches a fetch stamped
// with a fresh sequence number.
func (m listModel) loadProducts() (listModel, tea.Cmd) {
	m.loading = true
	m.loadSeq++
	seq := m.loadSeq
	api := m.api

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		products, err := api.GetAll(ctx)
		if err != nil {
			return loadFailedMsg{seq: seq, err: err}
		}
		return productsLoadedMsg{seq: seq, products: products}
	}
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		if msg.seq != m.loadSeq {
			m.logger.Debug().Int("seq", msg.seq).Msg("discarding stale product load")
			return m, nil
		}
		m.loading = false
		m.products = msg.products
		m.applyFilters()
		return m, nil

	case loadFailedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		message := errMessage(msg.err, "Ocurrió un error al cargar los productos.")
		m.alerts.Fire(message, alert.WithType(alert.TypeError), alert.WithDuration(5000))
		return m, nil

	case deleteDoneMsg:
		m.alerts.Success("Producto eliminado.")
		m.showDeleteModal = false
		m.deleteID = ""
		return m.loadProducts()

	case deleteFailedMsg:
		message := errMessage(msg.err, "Ocurrió un error al eliminar el producto.")
		m.alerts.Fire(message, alert.WithType(alert.TypeError), alert.WithDuration(5000))
		m.showDeleteModal = false
		m.deleteID = ""
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m listModel) handleKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	if m.showDeleteModal {
		switch msg.String() {
		case "y", "enter":
			return m.confirmDelete()
		case "n", "esc":
			m.showDeleteModal = false
			m.deleteID = ""
		}
		return m, nil
	}

	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.lastTerm {
			m.applyFilters()
		}
		return m, cmd
	}

	switch msg.String() {
	case "/":
		return m, m.search.Focus()
	case "left", "h":
		m.prevPage()
	case "right", "l":
		m.nextPage()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.paged)-1 {
			m.cursor++
		}
	case "s":
		m.cyclePageSize()
	case "r":
		return m.loadProducts()
	case "n":
		return m, navigateTo(routeCreate, "")
	case "enter", "e":
		if p, ok := m.selected(); ok {
			return m, m.modify(p)
		}
	case "d", "x":
		if p, ok := m.selected(); ok {
			m.requestDelete(p)
		}
	}
	return m, nil
}

func (m listModel) selected() (model.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.paged) {
		return model.Product{}, false
	}
	return m.paged[m.cursor], true
}

// applyFilters recomputes the filtered set from the search term without
// mutating the loaded products, then re-paginates. The match is a
// case-insensitive substring check on the product name.
func (m *listModel) applyFilters() {
	term := strings.ToLower(m.search.Value())
	m.lastTerm = m.search.Value()

	if term == "" {
		m.filtered = m.products
	} else {
		filtered := make([]model.Product, 0, len(m.products))
		for _, p := range m.products {
			if strings.Contains(strings.ToLower(p.Name), term) {
				filtered = append(filtered, p)
			}
		}
		m.filtered = filtered
	}

	m.paginate()
}

// paginate derives the current page slice, clamping the page into the
// valid range first so a shrinking filter can never strand the view on an
// empty page.
func (m *listModel) paginate() {
	pp := m.perPage
	if pp <= 0 {
		pp = pageSizes[0]
	}

	if m.page > m.totalPages() {
		m.page = m.totalPages()
	}
	if m.page < 1 {
		m.page = 1
	}

	start := (m.page - 1) * pp
	end := start + pp
	if start > len(m.filtered) {
		start = len(m.filtered)
	}
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	m.paged = m.filtered[start:end]

	if m.cursor >= len(m.paged) {
		m.cursor = len(m.paged) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// totalPages is never less than 1: an empty list is one page of zero items.
func (m *listModel) totalPages() int {
	pp := m.perPage
	if pp <= 0 {
		pp = pageSizes[0]
	}
	pages := (len(m.filtered) + pp - 1) / pp
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (m *listModel) goToPage(page int) {
	if page < 1 || page > m.totalPages() {
		return
	}
	m.page = page
	m.paginate()
}

func (m *listModel) nextPage() {
	if m.page < m.totalPages() {
		m.page++
		m.paginate()
	}
}

func (m *listModel) prevPage() {
	if m.page > 1 {
		m.page--
		m.paginate()
	}
}

// setPerPage changes the page size and resets to the first page.
func (m *listModel) setPerPage(perPage int) {
	m.perPage = perPage
	m.page = 1
	m.paginate()
}

func (m *listModel) cyclePageSize() {
	for i, size := range pageSizes {
		if size == m.perPage {
			m.setPerPage(pageSizes[(i+1)%len(pageSizes)])
			return
		}
	}
	m.setPerPage(pageSizes[0])
}

// requestDelete stages the product for deletion and opens the confirmation
// modal. No network call happens until the user confirms.
func (m *listModel) requestDelete(p model.Product) {
	m.deleteID = p.ID
	m.showDeleteModal = true
}

// confirmDelete dispatches the staged deletion. It is a no-op when nothing
// is staged.
func (m listModel) confirmDelete() (listModel, tea.Cmd) {
	if m.deleteID == "" {
		return m, nil
	}
	id := m.deleteID
	api := m.api

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		message, err := api.Delete(ctx, id)
		if err != nil {
			return deleteFailedMsg{err: err}
		}
		return deleteDoneMsg{message: message}
	}
}

// modify navigates to the edit form. Products without an ID cannot be
// edited.
func (m listModel) modify(p model.Product) tea.Cmd {
	if p.ID == "" {
		return nil
	}
	return navigateTo(routeEdit, p.ID)
}

func (m listModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Productos financieros"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Cargando productos...\n")
		return b.String()
	}

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"Página %d de %d · %d por página · %d resultado(s)",
		m.page, m.totalPages(), m.perPage, len(m.filtered),
	)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/: buscar · ←/→: página · s: tamaño · n: nuevo · e: editar · d: eliminar · r: recargar · q: salir"))

	if m.showDeleteModal {
		b.WriteString("\n\n")
		b.WriteString(modalStyle.Render(fmt.Sprintf(
			"¿Estás seguro de eliminar el producto %q?\n\n[y] Confirmar   [n] Cancelar", m.deleteID,
		)))
	}

	return b.String()
}

func (m listModel) renderTable() string {
	if len(m.paged) == 0 {
		return helpStyle.Render("Sin resultados.")
	}

	header := make([]string, len(listColumns))
	for i, col := range listColumns {
		header[i] = tableHeaderStyle.Render(col.Label)
	}

	rows := []string{strings.Join(header, "  ")}
	for i, p := range m.paged {
		cells := strings.Join([]string{
			padCell(p.ID, 10),
			padCell(truncate(p.Logo, 14), 14),
			padCell(truncate(p.Name, 24), 24),
			padCell(truncate(p.Description, 30), 30),
			padCell(p.DateRelease.String(), 12),
			padCell(p.DateRevision.String(), 12),
		}, "  ")
		if i == m.cursor {
			cells = selectedRowStyle.Render(cells)
		}
		rows = append(rows, cells)
	}

	return strings.Join(rows, "\n")
}

func padCell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

// errMessage is a nil-safe helper for alert fallbacks.
func errMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
