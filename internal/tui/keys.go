package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"lotes-map/internal/controller"
	"lotes-map/internal/mapview"
)

// 文档注释：按键分发
// 约束：优先级依次为确认提示、认证弹窗、命令行、表单，最后是全局快捷键
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.confirm != nil:
		return m.confirmKey(key)
	case m.state.AuthOpen:
		return m.authKey(msg)
	case m.cmdMode:
		return m.cmdKey(msg)
	case m.pane == paneForm:
		return m.formKey(msg)
	}
	return m.globalKey(key)
}

func (m Model) confirmKey(key string) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch key {
	case "y", "Y", "s", "S", "enter":
		m.confirm = nil
		return m.send(c.Then)
	case "n", "N", "esc":
		m.confirm = nil
		m.notice = ""
	}
	return m, nil
}

func (m Model) authKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.auth[0].Value())
	pw := m.auth[1].Value()
	switch msg.String() {
	case "esc":
		return m.send(controller.AuthModalClosed{})
	case "tab", "shift+tab", "up", "down":
		m.focusAuth(m.authField + 1)
		return m, nil
	case "enter":
		return m.send(controller.LoginSubmitted{Email: email, Password: pw})
	case "ctrl+r":
		return m.send(controller.RegisterSubmitted{Email: email, Password: pw})
	}
	var cmd tea.Cmd
	m.auth[m.authField], cmd = m.auth[m.authField].Update(msg)
	return m, cmd
}

func (m Model) cmdKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cmdMode = false
		m.cmdline.Blur()
		m.cmdline.SetValue("")
		return m, nil
	case "enter":
		line := m.cmdline.Value()
		m.cmdMode = false
		m.cmdline.Blur()
		m.cmdline.SetValue("")
		ev, err := ParseCommand(line, m.state.Config.Privileged)
		if err != nil {
			if err != errEmpty {
				m.notice = err.Error()
			}
			return m, nil
		}
		m.notice = ""
		return m.send(ev)
	}
	var cmd tea.Cmd
	m.cmdline, cmd = m.cmdline.Update(msg)
	return m, cmd
}

// formKey：每次按键后把表单整体回写给控制器
func (m Model) formKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pane = paneList
		m.form[m.formField].Blur()
		return m, nil
	case "tab", "down":
		m.focusForm(m.formField + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusForm(m.formField - 1)
		return m, nil
	case "enter":
		return m.send(controller.CommitEditRequested{})
	}
	var cmd tea.Cmd
	m.form[m.formField], cmd = m.form[m.formField].Update(msg)
	m, sent := m.send(controller.FormChanged{Form: m.formValue()})
	return m, tea.Batch(cmd, sent)
}

func (m Model) globalKey(key string) (tea.Model, tea.Cmd) {
	priv := m.state.Config.Privileged
	id := m.selectedID()
	switch key {
	case "q":
		return m, tea.Quit
	case ":":
		m.cmdMode = true
		m.cmdline.Focus()
		return m, nil
	case "tab":
		if priv {
			m.pane = paneForm
			m.focusForm(m.formField)
		}
		return m, nil
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "+", "=":
		m.canvas.ZoomBy(1.5)
	case "-", "_":
		m.canvas.ZoomBy(1 / 1.5)
	case "esc":
		m.canvas.ClosePopup()
		m.notice = ""
	case "f":
		return m.send(controller.FilterChanged{Filter: m.state.Filter.Next()})
	case "z", "enter":
		if id != "" {
			return m.send(controller.FocusRequested{ID: id})
		}
	case "r":
		if !priv {
			if target := m.reserveTarget(id); target != "" {
				return m.send(controller.ReserveRequested{ID: target})
			}
		}
	case "a":
		if !priv {
			return m.send(controller.AuthModalOpened{})
		}
	case "L":
		return m.send(controller.LogoutRequested{})
	case "e":
		if priv && id != "" {
			return m.send(controller.EditSelected{ID: id})
		}
	case "d":
		if priv && id != "" {
			return m.send(controller.DeleteRequested{ID: id})
		}
	case "u":
		if priv {
			return m.send(controller.CommitEditRequested{})
		}
	case "c":
		if priv {
			return m.send(controller.EditCancelled{})
		}
	case "X":
		if priv {
			return m.send(controller.ResetRequested{})
		}
	}
	return m, nil
}

// reserveTarget：弹窗打开时以弹窗中的“Reservar”为准，否则取光标行
func (m Model) reserveTarget(cursorID string) string {
	if pop, _, ok := m.canvas.Popup(); ok {
		for _, a := range pop.Actions {
			if a.Kind == mapview.ActionReserve {
				return a.ParcelID
			}
		}
	}
	return cursorID
}
