// 终端客户端入口：交互界面、一次性列表快照与登录校验
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docopt/docopt-go"
	"golang.org/x/term"

	"lotes-map/internal/backend"
	"lotes-map/internal/config"
	"lotes-map/internal/controller"
	"lotes-map/internal/listview"
	"lotes-map/internal/logger"
	"lotes-map/internal/metrics"
	"lotes-map/internal/parcel"
	"lotes-map/internal/tui"
)

const usage = `Mapa de lotes en la terminal.

Usage:
    lotes [--api=<url>] [--admin] [--log=<file>] [--metrics=<addr>] [--timeout=<ms>]
    lotes snapshot [--api=<url>] [--admin] [--filter=<f>] [--timeout=<ms>]
    lotes login --email=<e> [--api=<url>] [--timeout=<ms>]
    lotes -h | --help

Options:
    -h --help         Show this screen.
    --api=<url>       Backend base URL (default: LOTES_API).
    --admin           Administration view: draw, edit, delete, reset.
    --log=<file>      Append logs to this file (default: LOG_FILE, discarded otherwise).
    --metrics=<addr>  Serve client metrics on this address.
    --timeout=<ms>    Per-request timeout in milliseconds.
    --filter=<f>      disponible, reservado, vendido or todos [default: todos].
    --email=<e>       Account email; the password is read from the terminal.`

func main() {
	os.Exit(run())
}

// run：返回退出码，由 main 统一退出
func run() int {
	config.Load()
	opts, err := docopt.ParseArgs(usage, os.Args[1:], "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg := config.ClientFromEnv()
	if v, _ := opts.String("--api"); v != "" {
		cfg.API = strings.TrimRight(v, "/")
	}
	if v, _ := opts.Bool("--admin"); v {
		cfg.Admin = true
	}
	if v, _ := opts.String("--timeout"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			fmt.Fprintln(os.Stderr, "--timeout: entero positivo en milisegundos")
			return 2
		}
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	if v, _ := opts.String("--metrics"); v != "" {
		cfg.MetricsAddr = v
	}
	if v, _ := opts.String("--log"); v != "" {
		os.Setenv("LOG_FILE", v)
	}
	defer logger.Close()

	client := backend.New(cfg.API, backend.DefaultHTTPClient(cfg.Timeout))

	snapshot, _ := opts.Bool("snapshot")
	login, _ := opts.Bool("login")
	switch {
	case login:
		logger.Setup()
		email, _ := opts.String("--email")
		return runLogin(client, cfg, email)
	case snapshot:
		logger.Setup()
		f, _ := opts.String("--filter")
		return runSnapshot(client, cfg, f)
	}

	// 界面独占终端，未指定日志文件时丢弃日志
	if os.Getenv("LOG_FILE") != "" {
		logger.Setup()
	} else {
		logger.SetupWriter(io.Discard, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	}
	l := logger.L()
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		l.Info("stdout_not_tty_snapshot")
		return runSnapshot(client, cfg, string(parcel.FilterAll))
	}
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}
	l.Info("client_start", "api", cfg.API, "admin", cfg.Admin, "timeout", cfg.Timeout)
	p := tea.NewProgram(tui.New(tui.Options{API: client, Privileged: cfg.Admin, Timeout: cfg.Timeout}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		l.Error("tui_error", "err", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L().Error("metrics_listen_error", "addr", addr, "err", err)
	}
}

// printHost：无界面宿主，提示写到标准错误，确认一律拒绝
type printHost struct{}

func (printHost) Notify(msg string) { fmt.Fprintln(os.Stderr, msg) }
func (printHost) Confirm(string) bool { return false }
func (printHost) Focus(string) {}
func (printHost) Reconcile(controller.State) {}

// runSnapshot：拉取一次并打印列表投影
func runSnapshot(client *backend.Client, cfg config.Client, filter string) int {
	f, ok := parcel.ParseFilter(filter)
	if !ok {
		fmt.Fprintf(os.Stderr, "filtro desconocido: %s\n", filter)
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Timeout)
	defer cancel()
	en := controller.NewEngine(controller.Config{Privileged: cfg.Admin}, client, printHost{})
	en.Dispatch(ctx, controller.Started{})
	st := en.Dispatch(ctx, controller.FilterChanged{Filter: f})
	if !st.Loaded {
		return 1
	}
	for _, r := range listview.Render(st.Parcels, st.Filter, "", cfg.Admin) {
		if r.Placeholder {
			fmt.Println(r.Name)
			continue
		}
		fmt.Printf("%-28s %-11s %-8s %s\n", r.ID, r.Status, r.HeightText, r.Name)
	}
	if st.User != nil {
		fmt.Fprintf(os.Stderr, "sesión: %s\n", st.User.Label())
	}
	return 0
}

// runLogin：从终端读取密码并校验凭据
func runLogin(client *backend.Client, cfg config.Client, email string) int {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "login: se necesita una terminal para leer la contraseña")
		return 2
	}
	fmt.Fprint(os.Stderr, "Contraseña: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logger.L().Error("read_password_error", "err", err)
		return 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	u, err := client.Login(ctx, strings.TrimSpace(email), string(pw))
	if err != nil {
		fmt.Fprintln(os.Stderr, controller.MsgLoginFailed+err.Error())
		return 1
	}
	fmt.Printf("Sesión iniciada: %s <%s>\n", u.Label(), u.Email)
	_ = client.Logout(ctx)
	return 0
}
