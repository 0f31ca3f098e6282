// 包 backend：地块后端 REST 客户端，封装 /lotes 与 /auth 接口；会话依赖 cookie jar 维持
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"lotes-map/internal/logger"
	"lotes-map/internal/metrics"
	"lotes-map/internal/parcel"
)

const defaultTimeout = 10 * time.Second
const defaultConnectTimeout = 5 * time.Second

// 文档注释：后端返回非 2xx 时的错误
// 约束：Error() 原样返回响应体（去除首尾空白），供界面直接展示；响应体为空时退化为状态文本
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

// User：会话用户
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Label：状态栏展示名，优先姓名
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Client：后端客户端
type Client struct {
	base string
	hc   *http.Client
}

// DefaultHTTPClient：带 cookie jar 与连接/总超时的 HTTP 客户端
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	jar, _ := cookiejar.New(nil)
	dialer := &net.Dialer{Timeout: defaultConnectTimeout}
	return &http.Client{
		Transport: &http.Transport{DialContext: dialer.DialContext, TLSHandshakeTimeout: defaultConnectTimeout},
		Timeout:   timeout,
		Jar:       jar,
	}
}

// New：创建客户端；hc 为空时使用 DefaultHTTPClient
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = DefaultHTTPClient(0)
	}
	return &Client{base: strings.TrimRight(base, "/"), hc: hc}
}

func (c *Client) BaseURL() string { return c.base }

// 文档注释：发送 JSON 请求并解码响应
// 约束：in 为 nil 时不发送请求体；out 为 nil 时丢弃响应体；非 2xx 统一返回 *Error
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	t0 := time.Now()
	metrics.BackendRequestsTotal.WithLabelValues(op).Inc()
	logger.L().Debug("backend_req", "op", op, "method", method, "path", path)
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.BackendFailTotal.WithLabelValues(op).Inc()
		logger.L().Error("backend_http_error", "op", op, "err", err)
		return err
	}
	defer resp.Body.Close()
	dur := time.Since(t0).Milliseconds()
	metrics.BackendDurationMs.WithLabelValues(op).Observe(float64(dur))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		metrics.BackendFailTotal.WithLabelValues(op).Inc()
		logger.L().Warn("backend_status_error", "op", op, "status", resp.StatusCode, "duration_ms", dur)
		return &Error{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	logger.L().Debug("backend_resp", "op", op, "status", resp.StatusCode, "duration_ms", dur)
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.BackendFailTotal.WithLabelValues(op).Inc()
		logger.L().Error("backend_decode_error", "op", op, "err", err)
		return err
	}
	return nil
}

// ListParcels：GET /lotes
func (c *Client) ListParcels(ctx context.Context) ([]parcel.Parcel, error) {
	var out []parcel.Parcel
	if err := c.do(ctx, "list", http.MethodGet, "/lotes", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []parcel.Parcel{}
	}
	for i := range out {
		parcel.Normalize(&out[i])
	}
	return out, nil
}

// CreateParcel：POST /lotes；环原样发送，顶点数校验交给后端
func (c *Client) CreateParcel(ctx context.Context, in parcel.CreateInput) (*parcel.Parcel, error) {
	if in.Coords == nil {
		in.Coords = []parcel.Coord{}
	}
	var out parcel.Parcel
	if err := c.do(ctx, "create", http.MethodPost, "/lotes", in, &out); err != nil {
		return nil, err
	}
	return parcel.Normalize(&out), nil
}

// UpdateParcel：POST /lotes/update/{id}
func (c *Client) UpdateParcel(ctx context.Context, id string, p parcel.Patch) error {
	return c.do(ctx, "update", http.MethodPost, "/lotes/update/"+url.PathEscape(id), p, nil)
}

// DeleteParcels：POST /lotes/delete
func (c *Client) DeleteParcels(ctx context.Context, ids []string) error {
	return c.do(ctx, "delete", http.MethodPost, "/lotes/delete", map[string]any{"ids": ids}, nil)
}

// Reset：POST /reset，删除全部地块
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, "reset", http.MethodPost, "/reset", nil, nil)
}

type authResult struct {
	OK   bool  `json:"ok"`
	User *User `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Me：GET /auth/me；未登录时返回 (nil, nil)
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out authResult
	if err := c.do(ctx, "me", http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login：POST /auth/login
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResult
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Register：POST /auth/register
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var out authResult
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout：POST /auth/logout
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
}
