package ui

import (
	"context"
	"fmt"
	"strings"

	"product-console/internal/alert"
	"product-console/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Messages produced by form commands.
type (
	productFetchedMsg     struct{ product *model.Product }
	productFetchFailedMsg struct{ err error }
	verifyDoneMsg         struct {
		id     string
		exists bool
		err    error
	}
	submitDoneMsg   struct{ edit bool }
	submitFailedMsg struct {
		edit bool
		err  error
	}
)

// Form field indexes. dateRevision is not listed: it is derived and never
// focusable.
const (
	fieldID = iota
	fieldName
	fieldDescription
	fieldLogo
	fieldDateRelease
	fieldCount
)

var fieldKeys = [fieldCount]string{"id", "name", "description", "logo", "date_release"}

// productInput mirrors the form fields for struct-tag validation.
type productInput struct {
	ID          string `validate:"required,min=3,max=10"`
	Name        string `validate:"required,min=5,max=100"`
	Description string `validate:"required,min=10,max=200"`
	Logo        string `validate:"required,uri"`
	DateRelease string `validate:"required,calendardate"`
}

// formValidate is the shared validator instance, set up once with the
// calendar-date rule.
var formValidate *validator.Validate

func init() {
	formValidate = validator.New()
	_ = formValidate.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})
}

// formModel drives product creation and editing: field validation, derived
// revision date, the asynchronous duplicate-ID check, and submission.
type formModel struct {
	api    ProductAPI
	alerts *alert.Service
	logger zerolog.Logger

	// editID is the route's product ID. Non-empty means edit mode: the ID
	// field is disabled and the route ID always wins on submit.
	editID string

	inputs [fieldCount]textinput.Model
	focus  int

	// revision is the derived date_revision display value, recomputed on
	// every release-date change.
	revision string

	fieldErrs map[string]string
	// idExists is the asynchronous duplicate-ID error. It lives apart from
	// fieldErrs so clearing it never disturbs the other validators.
	idExists bool

	submitting bool
}

func newFormModel(api ProductAPI, alerts *alert.Service, editID string, logger zerolog.Logger) formModel {
	m := formModel{
		api:       api,
		alerts:    alerts,
		logger:    logger.With().Str("view", "product-form").Logger(),
		editID:    editID,
		fieldErrs: make(map[string]string),
	}

	placeholders := [fieldCount]string{
		"trj-crd", "Nombre del producto", "Descripción del producto",
		"https://...", "AAAA-MM-DD",
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		m.inputs[i] = in
	}
	m.inputs[fieldID].CharLimit = 10

	m.focus = fieldID
	if m.isEditMode() {
		// The ID is immutable in edit mode; start on the first editable field.
		m.focus = fieldName
	}
	m.inputs[m.focus].Focus()

	return m
}

func (m formModel) isEditMode() bool {
	return m.editID != ""
}

func (m formModel) Init() tea.Cmd {
	if !m.isEditMode() {
		return textinput.Blink
	}

	id := m.editID
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		product, err := api.GetByID(ctx, id)
		if err != nil {
			return productFetchFailedMsg{err: err}
		}
		return productFetchedMsg{product: product}
	}
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productFetchedMsg:
		m.patch(*msg.product)
		return m, nil

	case productFetchFailedMsg:
		m.logger.Error().Err(msg.err).Str("product_id", m.editID).Msg("failed to load product")
		m.alerts.Error("Error al cargar el producto.")
		return m, nil

	case verifyDoneMsg:
		return m.applyVerification(msg), nil

	case submitDoneMsg:
		m.submitting = false
		if msg.edit {
			m.alerts.Success("Producto actualizado exitosamente.")
		} else {
			m.alerts.Success("Producto creado exitosamente.")
			m.resetAll()
		}
		return m, nil

	case submitFailedMsg:
		m.submitting = false
		m.logger.Error().Err(msg.err).Bool("edit", msg.edit).Msg("product submission failed")
		if msg.edit {
			m.alerts.Error("Error al actualizar el producto.")
		} else {
			m.alerts.Error("Error al crear el producto.")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m formModel) handleKey(msg tea.KeyMsg) (formModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, navigateTo(routeList, "")
	case "ctrl+s":
		return m.onSubmit()
	case "ctrl+r":
		m.onReset()
		return m, nil
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "enter":
		if m.focus == fieldDateRelease {
			return m.onSubmit()
		}
		return m.moveFocus(1)
	}

	// Everything else edits the focused field.
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.onFieldChanged(m.focus)
	return m, cmd
}

// moveFocus shifts focus to the next editable field, skipping the disabled
// ID field in edit mode. Leaving the ID field triggers the duplicate check.
func (m formModel) moveFocus(delta int) (formModel, tea.Cmd) {
	var cmds []tea.Cmd
	if m.focus == fieldID {
		cmds = append(cmds, m.validateID())
	}

	m.inputs[m.focus].Blur()

	m.focus = (m.focus + delta + fieldCount) % fieldCount
	if m.isEditMode() && m.focus == fieldID {
		m.focus = (m.focus + delta + fieldCount) % fieldCount
	}

	cmds = append(cmds, m.inputs[m.focus].Focus())
	return m, tea.Batch(cmds...)
}

// onFieldChanged re-runs inline validation and keeps derived state in sync.
func (m *formModel) onFieldChanged(field int) {
	if field == fieldDateRelease {
		m.deriveRevision()
	}
	if field == fieldID {
		// The previous duplicate verdict is void once the ID changes.
		m.idExists = false
	}
	m.validate()
}

// deriveRevision recomputes date_revision as release + 1 calendar year,
// formatted with no time component. An unparsable release clears it.
func (m *formModel) deriveRevision() {
	release, err := model.ParseDate(m.inputs[fieldDateRelease].Value())
	if err != nil {
		m.revision = ""
		return
	}
	m.revision = release.AddYears(1).String()
}

// validate recomputes the per-field error map from the validation tags.
// The asynchronous idExists error is tracked separately and unaffected.
func (m *formModel) validate() {
	m.fieldErrs = make(map[string]string)

	input := productInput{
		ID:          m.currentID(),
		Name:        m.inputs[fieldName].Value(),
		Description: m.inputs[fieldDescription].Value(),
		Logo:        m.inputs[fieldLogo].Value(),
		DateRelease: m.inputs[fieldDateRelease].Value(),
	}

	err := formValidate.Struct(input)
	if err == nil {
		return
	}

	for _, fieldErr := range err.(validator.ValidationErrors) {
		var key string
		switch fieldErr.Field() {
		case "ID":
			key = "id"
		case "Name":
			key = "name"
		case "Description":
			key = "description"
		case "Logo":
			key = "logo"
		case "DateRelease":
			key = "date_release"
		}
		m.fieldErrs[key] = fieldErrorMessage(fieldErr)
	}
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es requerido"
	case "min":
		return fmt.Sprintf("Mínimo %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("Máximo %s caracteres", fe.Param())
	case "uri":
		return "Debe ser una URI válida"
	case "calendardate":
		return "Formato de fecha inválido (AAAA-MM-DD)"
	default:
		return "Valor inválido"
	}
}

// isValid reports whether every validator passes, including the
// asynchronous duplicate-ID check.
func (m *formModel) isValid() bool {
	m.validate()
	return len(m.fieldErrs) == 0 && !m.idExists
}

// currentID reads the ID even when the field is disabled, so the record's
// identity survives edit mode.
func (m formModel) currentID() string {
	if m.isEditMode() {
		return m.editID
	}
	return m.inputs[fieldID].Value()
}

// validateID dispatches the duplicate-ID existence check. It only applies
// in create mode and with a non-empty candidate.
func (m formModel) validateID() tea.Cmd {
	if m.isEditMode() {
		return nil
	}
	id := m.inputs[fieldID].Value()
	if id == "" {
		return nil
	}
	api := m.api

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		exists, err := api.VerifyID(ctx, id)
		return verifyDoneMsg{id: id, exists: exists, err: err}
	}
}

// applyVerification applies a duplicate-check result, discarding verdicts
// for an ID the user has already changed.
func (m formModel) applyVerification(msg verifyDoneMsg) formModel {
	if msg.id != m.inputs[fieldID].Value() {
		return m
	}
	if msg.err != nil {
		// The check is advisory; the backend re-validates on create.
		m.logger.Warn().Err(msg.err).Str("product_id", msg.id).Msg("id verification failed")
		m.idExists = false
		return m
	}
	m.idExists = msg.exists
	return m
}

// onSubmit validates and dispatches the create or update call. It is a
// no-op while any validator, including the duplicate-ID check, fails.
func (m formModel) onSubmit() (formModel, tea.Cmd) {
	if m.submitting || !m.isValid() {
		return m, nil
	}

	release, err := model.ParseDate(m.inputs[fieldDateRelease].Value())
	if err != nil {
		return m, nil
	}

	product := model.Product{
		ID:           m.currentID(),
		Name:         m.inputs[fieldName].Value(),
		Description:  m.inputs[fieldDescription].Value(),
		Logo:         m.inputs[fieldLogo].Value(),
		DateRelease:  release,
		DateRevision: release.AddYears(1),
	}

	m.submitting = true
	edit := m.isEditMode()
	api := m.api

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if edit {
			if _, err := api.Update(ctx, product.ID, product); err != nil {
				return submitFailedMsg{edit: true, err: err}
			}
			return submitDoneMsg{edit: true}
		}
		if _, err := api.Add(ctx, product); err != nil {
			return submitFailedMsg{edit: false, err: err}
		}
		return submitDoneMsg{edit: false}
	}
}

// onReset clears every field except the ID, which keeps its current value
// so other edits can be discarded without losing the record being edited.
func (m *formModel) onReset() {
	id := m.inputs[fieldID].Value()
	m.resetAll()
	m.inputs[fieldID].SetValue(id)
}

// resetAll clears the whole form, errors included.
func (m *formModel) resetAll() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.revision = ""
	m.fieldErrs = make(map[string]string)
	m.idExists = false
}

// patch fills the form from a fetched product, re-normalising both dates
// to plain calendar formatting regardless of what the backend returned.
func (m *formModel) patch(p model.Product) {
	m.inputs[fieldID].SetValue(p.ID)
	m.inputs[fieldName].SetValue(p.Name)
	m.inputs[fieldDescription].SetValue(p.Description)
	m.inputs[fieldLogo].SetValue(p.Logo)
	m.inputs[fieldDateRelease].SetValue(p.DateRelease.String())
	m.revision = p.DateRevision.String()
	m.validate()
}

func (m formModel) View() string {
	var b strings.Builder

	if m.isEditMode() {
		b.WriteString(titleStyle.Render("Editar producto"))
	} else {
		b.WriteString(titleStyle.Render("Nuevo producto"))
	}
	b.WriteString("\n\n")

	labels := [fieldCount]string{
		"ID", "Nombre", "Descripción", "Logo", "Fecha de liberación",
	}
	for i := range m.inputs {
		label := labels[i]
		if i == fieldID && m.isEditMode() {
			b.WriteString(fmt.Sprintf("%s\n%s\n", fieldLabelStyle.Render(label),
				disabledFieldStyle.Render(m.editID+" (no editable)")))
		} else {
			b.WriteString(fmt.Sprintf("%s\n%s\n", fieldLabelStyle.Render(label), m.inputs[i].View()))
		}
		if msg, ok := m.fieldErrs[fieldKeys[i]]; ok {
			b.WriteString(fieldErrorStyle.Render(msg) + "\n")
		}
		if i == fieldID && m.idExists {
			b.WriteString(fieldErrorStyle.Render("Este ID ya existe") + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(fieldLabelStyle.Render("Fecha de reestructuración"))
	b.WriteString("\n")
	b.WriteString(disabledFieldStyle.Render(valueOr(m.revision, "(derivada de la fecha de liberación)")))
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(helpStyle.Render("Enviando..."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("ctrl+s: guardar · ctrl+r: reiniciar · tab: siguiente campo · esc: volver"))

	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
