package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lotes-map/internal/mapview"
)

const listWidth = 38

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	width := max(40, m.width)
	header := m.renderHeader(width)
	footer := m.renderFooter(width)
	bodyH := max(6, m.height-lipgloss.Height(header)-lipgloss.Height(footer))

	var body string
	if m.state.AuthOpen {
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, m.renderAuth())
	} else {
		side := m.renderSide(bodyH)
		mapW := max(10, width-lipgloss.Width(side)-3)
		mapBox := boxStyle.Render(m.renderMap(mapW, bodyH-2))
		body = lipgloss.JoinHorizontal(lipgloss.Top, mapBox, " ", side)
	}
	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(width).Render(ui)
}

func (m Model) renderHeader(width int) string {
	mode := "cliente"
	if m.state.Config.Privileged {
		mode = "administración"
	}
	user := "sin sesión"
	if m.state.User != nil {
		user = m.state.User.Label()
	}
	left := titleStyle.Render(" lotes ─ " + mode + " ")
	right := dimStyle.Render(fmt.Sprintf("filtro: %s  ·  %s ", m.state.Filter, user))
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderMap：画布加弹窗；弹窗叠在画布底部
func (m Model) renderMap(w, h int) string {
	if !m.state.Loaded {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dimStyle.Render("cargando…"))
	}
	pop, id, ok := m.canvas.Popup()
	if !ok {
		return m.canvas.Render(w, h)
	}
	box := boxStyle.MaxWidth(w).Render(renderPopup(pop, id))
	ph := lipgloss.Height(box)
	if ph >= h {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.canvas.Render(w, h-ph), box)
}

func renderPopup(p mapview.Popup, id string) string {
	lines := []string{titleStyle.Render(p.Title), dimStyle.Render(id)}
	lines = append(lines, p.Lines...)
	var acts []string
	for _, a := range p.Actions {
		switch a.Kind {
		case mapview.ActionZoom:
			acts = append(acts, "[z] "+a.Label)
		case mapview.ActionReserve:
			acts = append(acts, "[r] "+a.Label)
		}
	}
	if len(acts) > 0 {
		lines = append(lines, strings.Join(acts, "  "))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSide(h int) string {
	list := m.renderList()
	if !m.state.Config.Privileged {
		return activeBox.Width(listWidth).Height(h - 2).Render(list)
	}
	form := m.renderForm()
	lb := boxStyle
	if m.pane == paneList {
		lb = activeBox
	}
	fb := boxStyle
	if m.pane == paneForm {
		fb = activeBox
	}
	formBox := fb.Width(listWidth).Render(form)
	listH := max(3, h-lipgloss.Height(formBox)-2)
	return lipgloss.JoinVertical(lipgloss.Left, lb.Width(listWidth).Height(listH).Render(list), formBox)
}

func (m Model) renderList() string {
	rows := m.rows()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Lotes"))
	idx := 0
	for _, r := range rows {
		b.WriteByte('\n')
		if r.Placeholder {
			b.WriteString(dimStyle.Render(r.Name))
			continue
		}
		badge := toneStyles[r.Tone].Render("●")
		line := fmt.Sprintf("%s %-16s %-10s %s", badge, truncate(r.Name, 16), r.Status, r.HeightText)
		if r.Selected {
			line += " ✎"
		}
		if idx == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		idx++
	}
	if m.state.Config.Privileged {
		b.WriteString("\n" + dimStyle.Render("[z] zoom [e] editar [d] eliminar"))
	} else {
		b.WriteString("\n" + dimStyle.Render("[z] zoom [r] reservar"))
	}
	return b.String()
}

func (m Model) renderForm() string {
	labels := []string{"Nombre", "Estado", "Altura"}
	var b strings.Builder
	title := "Nuevo lote"
	if m.state.EditID != "" {
		title = "Editando " + m.state.EditID
	}
	b.WriteString(titleStyle.Render(title))
	for i, l := range labels {
		b.WriteString(fmt.Sprintf("\n%-7s %s", l, m.form[i].View()))
	}
	if m.state.Drawn != nil {
		b.WriteString("\n" + noticeStyle.Render(fmt.Sprintf("polígono pendiente (%d vértices) · :retry", len(m.state.Drawn.Coords))))
	}
	return b.String()
}

func (m Model) renderAuth() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Iniciar sesión"))
	if m.state.Reservation.ParcelID != "" {
		b.WriteString("\n" + dimStyle.Render("para reservar "+m.state.Reservation.ParcelID))
	}
	b.WriteString("\nEmail      " + m.auth[0].View())
	b.WriteString("\nContraseña " + m.auth[1].View())
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	b.WriteString("\n" + dimStyle.Render("enter entrar · ctrl+r registrarse · esc cerrar"))
	return activeBox.Render(b.String())
}

func (m Model) renderFooter(width int) string {
	var line string
	switch {
	case m.confirm != nil:
		line = promptStyle.Render(m.confirm.Prompt + " (s/n)")
	case m.cmdMode:
		line = m.cmdline.View()
	case m.notice != "":
		line = noticeStyle.Render(m.notice)
	}
	keys := []string{"j/k mover", "z zoom", "f filtro", "+/- zoom", ": comando", "q salir"}
	if m.state.Config.Privileged {
		keys = append(keys[:3], "e editar", "d eliminar", "u guardar", "X borrar todo", "tab formulario", ": comando", "q salir")
	} else {
		keys = append(keys[:3], "r reservar", "a sesión", "L salir de sesión", ": comando", "q salir")
	}
	help := dimStyle.Render(strings.Join(keys, "  "))
	return lipgloss.NewStyle().Width(width).Render(line + "\n" + help)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
