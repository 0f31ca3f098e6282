package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"lotes-map/internal/controller"
	"lotes-map/internal/parcel"
)

var errEmpty = errors.New("comando vacío")

// 文档注释：解析 : 命令行
// 约束：参数按 shell 规则切分（支持引号）；管理类命令在非特权会话中被拒绝，返回错误而不是事件
func ParseCommand(line string, privileged bool) (controller.Event, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errEmpty
	}
	name, rest := strings.ToLower(args[0]), args[1:]
	need := func(n int) error {
		if len(rest) < n {
			return fmt.Errorf("uso: %s", usageOf(name))
		}
		return nil
	}
	admin := func() error {
		if !privileged {
			return fmt.Errorf("%s: solo en modo administración", name)
		}
		return nil
	}
	switch name {
	case "reload":
		return controller.ReloadRequested{}, nil
	case "filter":
		if err := need(1); err != nil {
			return nil, err
		}
		f, ok := parcel.ParseFilter(rest[0])
		if !ok {
			return nil, fmt.Errorf("filtro desconocido: %s", rest[0])
		}
		return controller.FilterChanged{Filter: f}, nil
	case "zoom":
		if err := need(1); err != nil {
			return nil, err
		}
		return controller.FocusRequested{ID: rest[0]}, nil
	case "reserve":
		if err := need(1); err != nil {
			return nil, err
		}
		return controller.ReserveRequested{ID: rest[0]}, nil
	case "login", "register":
		if err := need(2); err != nil {
			return nil, err
		}
		if name == "register" {
			return controller.RegisterSubmitted{Email: rest[0], Password: rest[1]}, nil
		}
		return controller.LoginSubmitted{Email: rest[0], Password: rest[1]}, nil
	case "logout":
		return controller.LogoutRequested{}, nil
	}

	if err := admin(); err != nil {
		if usageOf(name) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("comando desconocido: %s", name)
	}
	switch name {
	case "draw":
		coords, err := parseRing(rest)
		if err != nil {
			return nil, err
		}
		return controller.DrawFinished{Coords: coords}, nil
	case "retry":
		return controller.CreateRetried{}, nil
	case "discard":
		return controller.DrawDiscarded{}, nil
	case "edit":
		if err := need(1); err != nil {
			return nil, err
		}
		return controller.EditSelected{ID: rest[0]}, nil
	case "cancel":
		return controller.EditCancelled{}, nil
	case "delete":
		if err := need(1); err != nil {
			return nil, err
		}
		return controller.DeleteRequested{ID: rest[0]}, nil
	case "form":
		f := controller.Form{Status: string(parcel.Available)}
		if len(rest) > 0 {
			f.Name = rest[0]
		}
		if len(rest) > 1 {
			f.Status = rest[1]
		}
		if len(rest) > 2 {
			f.Height = rest[2]
		}
		return controller.FormChanged{Form: f}, nil
	case "commit":
		return controller.CommitEditRequested{}, nil
	case "reset":
		return controller.ResetRequested{}, nil
	}
	return nil, fmt.Errorf("comando desconocido: %s", name)
}

func usageOf(name string) string {
	switch name {
	case "filter":
		return "filter <disponible|reservado|vendido|todos>"
	case "zoom", "reserve", "edit", "delete":
		return name + " <id>"
	case "login", "register":
		return name + " <email> <contraseña>"
	case "draw":
		return "draw <lat,lng> <lat,lng> <lat,lng> ..."
	case "form":
		return "form <nombre> [estado] [altura]"
	case "retry", "discard", "cancel", "commit", "reset":
		return name
	}
	return ""
}

// parseRing：每个参数为 lat,lng；顶点数不在此校验
func parseRing(args []string) ([]parcel.Coord, error) {
	out := make([]parcel.Coord, 0, len(args))
	for _, a := range args {
		lat, lng, ok := strings.Cut(a, ",")
		if !ok {
			return nil, fmt.Errorf("vértice inválido: %s", a)
		}
		la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		ln, err2 := strconv.ParseFloat(strings.TrimSpace(lng), 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("vértice inválido: %s", a)
		}
		out = append(out, parcel.Coord{la, ln})
	}
	return out, nil
}
