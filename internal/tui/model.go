// 包 tui：终端宿主，用 bubbletea 驱动控制器；后端副作用转为 tea.Cmd，完成后以消息回灌
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lotes-map/internal/controller"
	"lotes-map/internal/listview"
	"lotes-map/internal/logger"
	"lotes-map/internal/mapview"
	"lotes-map/internal/parcel"
)

// Options：宿主构造参数
type Options struct {
	API        controller.API
	Privileged bool
	// Timeout：单次后端调用上限
	Timeout time.Duration
}

type pane int

const (
	paneList pane = iota
	paneForm
)

const (
	fieldName = iota
	fieldStatus
	fieldHeight
)

// eventMsg：回灌给控制器的事件
type eventMsg struct{ ev controller.Event }

// Model：bubbletea 模型
type Model struct {
	api     controller.API
	timeout time.Duration

	state   controller.State
	canvas  *Canvas
	adapter *mapview.Adapter

	width, height int
	pane          pane
	cursor        int

	form      []textinput.Model
	formField int

	auth      []textinput.Model
	authField int

	cmdMode bool
	cmdline textinput.Model

	confirm *controller.Confirm
	notice  string
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func New(opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	canvas := NewCanvas()
	m := Model{
		api:     opts.API,
		timeout: opts.Timeout,
		state:   controller.New(controller.Config{Privileged: opts.Privileged}),
		canvas:  canvas,
		adapter: mapview.NewAdapter(canvas, opts.Privileged),
	}
	m.form = []textinput.Model{
		newInput("Lote", 80),
		newInput("disponible|reservado|vendido", 16),
		newInput("altura (m)", 16),
	}
	m.form[fieldStatus].SetValue(string(parcel.Available))
	email := newInput("email", 120)
	pw := newInput("contraseña", 120)
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	m.auth = []textinput.Model{email, pw}
	m.cmdline = newInput("comando", 512)
	m.cmdline.Prompt = ":"
	return m
}

// State：控制器状态快照
func (m Model) State() controller.State { return m.state }

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return eventMsg{ev: controller.Started{}} }
}

// 文档注释：把事件交给控制器并执行返回的副作用
// 约束：界面副作用在此同步执行；后端副作用各自成为一个 tea.Cmd 并发运行，完成事件按到达顺序回灌
func (m Model) dispatch(ev controller.Event) (Model, tea.Cmd) {
	var effs []controller.Effect
	m.state, effs = controller.Update(m.state, ev)
	var cmds []tea.Cmd
	for _, eff := range effs {
		if controller.IsBackend(eff) {
			cmds = append(cmds, m.exec(eff))
			continue
		}
		switch e := eff.(type) {
		case controller.Notify:
			m.notice = e.Message
			logger.L().Info("ui_notice", "msg", e.Message)
		case controller.Confirm:
			c := e
			m.confirm = &c
		case controller.Focus:
			if m.adapter.Focus(e.ID) {
				m.notice = ""
			}
		case controller.Reconcile:
			m.adapter.Reconcile(e.Parcels)
			m.canvas.FitOnce(m.adapter.Bounds())
		}
	}
	m.clampCursor()
	m.syncForm()
	return m, tea.Batch(cmds...)
}

// send：dispatch 并在认证弹窗刚打开时聚焦邮箱输入框
func (m Model) send(ev controller.Event) (Model, tea.Cmd) {
	wasOpen := m.state.AuthOpen
	var cmd tea.Cmd
	m, cmd = m.dispatch(ev)
	if m.state.AuthOpen && !wasOpen {
		m.focusAuth(0)
	}
	return m, cmd
}

func (m Model) exec(eff controller.Effect) tea.Cmd {
	api, timeout := m.api, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return eventMsg{ev: controller.Exec(ctx, api, eff)}
	}
}

func (m Model) rows() []listview.Row {
	return listview.Render(m.state.Parcels, m.state.Filter, m.state.EditID, m.state.Config.Privileged)
}

// selectedID：光标所在行的地块 id；占位行返回空串
func (m Model) selectedID() string {
	ids := listview.IDs(m.rows())
	if m.cursor < 0 || m.cursor >= len(ids) {
		return ""
	}
	return ids[m.cursor]
}

func (m *Model) clampCursor() {
	n := len(listview.IDs(m.rows()))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) formValue() controller.Form {
	return controller.Form{
		Name:   m.form[fieldName].Value(),
		Status: m.form[fieldStatus].Value(),
		Height: m.form[fieldHeight].Value(),
	}
}

// syncForm：控制器改写表单（选中编辑、提交后清空）时同步到输入框
func (m *Model) syncForm() {
	f := m.state.Form
	if f == m.formValue() {
		return
	}
	m.form[fieldName].SetValue(f.Name)
	m.form[fieldStatus].SetValue(f.Status)
	m.form[fieldHeight].SetValue(f.Height)
}

func (m *Model) focusForm(i int) {
	for j := range m.form {
		m.form[j].Blur()
	}
	m.formField = (i + len(m.form)) % len(m.form)
	m.form[m.formField].Focus()
}

func (m *Model) focusAuth(i int) {
	for j := range m.auth {
		m.auth[j].Blur()
	}
	m.authField = (i + len(m.auth)) % len(m.auth)
	m.auth[m.authField].Focus()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case eventMsg:
		if msg.ev == nil {
			return m, nil
		}
		return m.send(msg.ev)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}
