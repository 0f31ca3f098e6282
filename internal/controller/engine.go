package controller

import (
	"context"
	"sync"

	"lotes-map/internal/logger"
)

// Host：同步引擎的界面回调
type Host interface {
	Notify(msg string)
	// Confirm 返回 false 表示用户取消
	Confirm(prompt string) bool
	Focus(id string)
	Reconcile(s State)
}

// 文档注释：同步事件引擎
// 背景：无界面运行（快照命令、集成测试）时按顺序执行 Update 与副作用
// 约束：同一时刻只处理一个事件；副作用产生的完成事件进入队列尾部，按到达顺序处理
type Engine struct {
	mu    sync.Mutex
	state State
	api   API
	host  Host
}

// NewEngine：以初始状态构造引擎
func NewEngine(cfg Config, api API, host Host) *Engine {
	return &Engine{state: New(cfg), api: api, host: host}
}

// State：当前状态快照
func (en *Engine) State() State {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.state
}

// Dispatch：处理事件及其引发的全部后续事件，直到队列为空
func (en *Engine) Dispatch(ctx context.Context, ev Event) State {
	en.mu.Lock()
	defer en.mu.Unlock()
	queue := []Event{ev}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		var effs []Effect
		en.state, effs = Update(en.state, cur)
		for _, eff := range effs {
			if next := en.run(ctx, eff); next != nil {
				queue = append(queue, next)
			}
		}
	}
	return en.state
}

func (en *Engine) run(ctx context.Context, eff Effect) Event {
	if IsBackend(eff) {
		if err := ctx.Err(); err != nil {
			logger.L().Warn("engine_effect_skipped", "err", err)
			return nil
		}
		return Exec(ctx, en.api, eff)
	}
	switch e := eff.(type) {
	case Notify:
		en.host.Notify(e.Message)
	case Confirm:
		if en.host.Confirm(e.Prompt) {
			return e.Then
		}
	case Focus:
		en.host.Focus(e.ID)
	case Reconcile:
		en.host.Reconcile(en.state)
	}
	return nil
}
