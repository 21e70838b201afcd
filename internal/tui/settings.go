package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hdgdrill/internal/config"
	"github.com/verte-zerg/hdgdrill/internal/model"
)

type settingsField struct {
	prompt string
	get    func(model.Config) int
	set    func(*model.Config, int)
}

var settingsFields = []settingsField{
	{"45° frequency: ", func(c model.Config) int { return c.Frequency45 }, func(c *model.Config, v int) { c.Frequency45 = v }},
	{"90° frequency: ", func(c model.Config) int { return c.Frequency90 }, func(c *model.Config, v int) { c.Frequency90 = v }},
	{"180° frequency: ", func(c model.Config) int { return c.Frequency180 }, func(c *model.Config, v int) { c.Frequency180 = v }},
	{"Delay (ms): ", func(c model.Config) int { return c.DelayMs }, func(c *model.Config, v int) { c.DelayMs = v }},
	{"Shift after turns: ", func(c model.Config) int { return c.ShiftAfterTurns }, func(c *model.Config, v int) { c.ShiftAfterTurns = v }},
	{"Max shift (°): ", func(c model.Config) int { return c.ShiftAmount }, func(c *model.Config, v int) { c.ShiftAmount = v }},
	{"Initial heading: ", func(c model.Config) int { return c.InitialHeading }, func(c *model.Config, v int) { c.InitialHeading = v }},
	{"Round to nearest: ", func(c model.Config) int { return c.RoundToNearest }, func(c *model.Config, v int) { c.RoundToNearest = v }},
}

func newSettingsInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 5
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) initSettingsInputs() {
	m.settingsInputs = make([]textinput.Model, len(settingsFields))
	for i, f := range settingsFields {
		m.settingsInputs[i] = newSettingsInput(f.prompt)
	}
}

func (m *Model) setInputsFromConfig(cfg model.Config) {
	for i, f := range settingsFields {
		m.settingsInputs[i].SetValue(strconv.Itoa(f.get(cfg)))
	}
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	m.setInputsFromConfig(m.ctrl.Config())
	return m, m.setSettingsIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.parseSettings()
		if err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.ctrl.SetConfig(cfg)
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setSettingsIndex(m.settingsIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setSettingsIndex(m.settingsIndex - 1)
	}
	var cmd tea.Cmd
	m.settingsInputs[m.settingsIndex], cmd = m.settingsInputs[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	count := len(m.settingsInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.settingsIndex = idx
	var cmd tea.Cmd
	for i := range m.settingsInputs {
		if i == m.settingsIndex {
			cmd = m.settingsInputs[i].Focus()
		} else {
			m.settingsInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseSettings() (model.Config, error) {
	cfg := m.ctrl.Config()
	for i, f := range settingsFields {
		raw := strings.TrimSpace(m.settingsInputs[i].Value())
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.Config{}, fmt.Errorf("%s expects a whole number", strings.TrimSuffix(f.prompt, ": "))
		}
		f.set(&cfg, v)
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func (m *Model) renderSettings() string {
	lines := []string{titleStyle.Render("Settings"), ""}
	for i := range m.settingsInputs {
		lines = append(lines, m.settingsInputs[i].View())
	}
	lines = append(lines, "")
	if m.settingsError != "" {
		lines = append(lines, errorStyle.Render(m.settingsError))
	}
	lines = append(lines, helpStyle.Render("tab next · shift+tab prev · enter apply to next session · esc cancel"))
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
