package login

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/theme"
)

// CaptchaLoadedMsg carries a fresh captcha challenge for the form.
type CaptchaLoadedMsg struct {
	Captcha *model.Captcha
	Err     error
}

// SignedInMsg is dispatched after a successful login or registration.
type SignedInMsg struct {
	Session *model.Session
}

// FailedMsg is dispatched when a login or registration attempt fails.
// The form reloads with a fresh captcha.
type FailedMsg struct {
	Err error
}

// bindings holds form field values on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type bindings struct {
	username string
	password string
	email    string
	answer   string
	register bool
}

// Model is the sign-in and registration view.
type Model struct {
	form     *huh.Form
	fb       *bindings
	client   *api.Client
	captcha  *model.Captcha
	errText  string
	busy     bool
	width    int
	height   int
}

// New creates the login view.
func New(client *api.Client, width, height int) Model {
	return Model{
		fb:     &bindings{},
		client: client,
		width:  width,
		height: height,
	}
}

// Init fetches the captcha the form needs before it can be shown.
func (m Model) Init() tea.Cmd {
	return m.fetchCaptcha()
}

// fetchCaptcha requests a fresh challenge from the backend.
func (m Model) fetchCaptcha() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		captcha, err := client.FetchCaptcha(ctx)
		return CaptchaLoadedMsg{Captcha: captcha, Err: err}
	}
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CaptchaLoadedMsg:
		if msg.Err != nil {
			m.errText = api.UserMessage(msg.Err, "Cannot reach the server.")
			return m, nil
		}
		m.captcha = msg.Captcha
		m.fb.answer = ""
		m.form = m.buildForm()
		return m, m.form.Init()

	case FailedMsg:
		m.busy = false
		m.errText = api.UserMessage(msg.Err, "Sign-in failed.")
		// Captcha challenges are single-use.
		return m, m.fetchCaptcha()
	}

	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		m.errText = ""
		return m, m.submit()
	}

	return m, cmd
}

// submit sends the login or registration request.
func (m Model) submit() tea.Cmd {
	client := m.client
	fb := *m.fb
	captchaID := ""
	if m.captcha != nil {
		captchaID = m.captcha.ID
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var (
			session *model.Session
			err     error
		)
		if fb.register {
			session, err = client.Register(ctx, api.RegisterRequest{
				Username:      fb.username,
				Password:      fb.password,
				Email:         fb.email,
				CaptchaID:     captchaID,
				CaptchaAnswer: fb.answer,
			})
		} else {
			session, err = client.Login(ctx, api.LoginRequest{
				Username:      fb.username,
				Password:      fb.password,
				CaptchaID:     captchaID,
				CaptchaAnswer: fb.answer,
			})
		}
		if err != nil {
			return FailedMsg{Err: err}
		}
		return SignedInMsg{Session: session}
	}
}

// View renders the login view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var sections []string
	sections = append(sections, titleStyle.Render("Sign in to Agora"))

	if m.errText != "" {
		errStyle := lipgloss.NewStyle().Foreground(theme.ColorRed)
		sections = append(sections, errStyle.Render(m.errText))
	}

	switch {
	case m.busy:
		sections = append(sections, theme.HelpStyle.Render("Signing in..."))
	case m.form == nil:
		sections = append(sections, theme.HelpStyle.Render("Loading..."))
	default:
		sections = append(sections, m.form.View())
	}

	content := strings.Join(sections, "\n")
	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	question := ""
	if m.captcha != nil {
		question = m.captcha.Question
	}

	fields := []huh.Field{
		huh.NewConfirm().
			Title("Account").
			Affirmative("Register").
			Negative("Sign in").
			Value(&m.fb.register),
		huh.NewInput().
			Title("Username").
			Value(&m.fb.username).
			Validate(validateRequired("Username")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validateRequired("Password")),
		huh.NewInput().
			Title("Email (registration only)").
			Placeholder("you@example.com").
			Value(&m.fb.email),
		huh.NewInput().
			Title("Captcha: " + question).
			Value(&m.fb.answer).
			Validate(validateRequired("Captcha answer")),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 12 {
		h = 12
	}
	return h
}

// validateRequired rejects blank values.
func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(fieldName + " is required")
		}
		return nil
	}
}
