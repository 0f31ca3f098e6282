package api

import (
	"errors"
	"net/http"
	"strings"

	"lotes-map/internal/logger"
	"lotes-map/internal/metrics"
	"lotes-map/internal/session"
	"lotes-map/internal/store"
)

// 文档注释：注册并登录
// 约束：邮箱小写去空白；邮箱或密码为空 400；重复邮箱 400；名称缺省取邮箱 @ 前部分
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req authRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	email := store.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		metrics.AuthTotal.WithLabelValues("register", "invalid").Inc()
		writeError(w, http.StatusBadRequest, "email y contraseña requeridos")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = store.DefaultName(email)
	}
	hash, err := store.HashPassword(req.Password)
	if err != nil {
		logger.L().Error("password_hash_error", "err", err)
		writeError(w, http.StatusInternalServerError, "error interno")
		return
	}
	err = s.Users.CreateUser(ctx, store.User{Email: email, Name: name, PasswordHash: hash})
	if errors.Is(err, store.ErrDuplicateEmail) {
		metrics.AuthTotal.WithLabelValues("register", "duplicate").Inc()
		writeError(w, http.StatusBadRequest, store.ErrDuplicateEmail.Error())
		return
	}
	if err != nil {
		logger.L().Error("user_create_error", "err", err)
		writeError(w, http.StatusInternalServerError, "error interno")
		return
	}
	u := session.User{Email: email, Name: name}
	if err := s.startSession(ctx, w, u); err != nil {
		logger.L().Error("session_create_error", "err", err)
		writeError(w, http.StatusInternalServerError, "error interno")
		return
	}
	metrics.AuthTotal.WithLabelValues("register", "ok").Inc()
	logger.L().Info("user_registered", "email", email)
	writeJSON(w, http.StatusOK, okResponse{OK: true, User: &u})
}

// login：未知邮箱与错误密码返回同一条 401 信息
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req authRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	email := store.NormalizeEmail(req.Email)
	su, err := s.Users.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.L().Error("user_lookup_error", "err", err)
		writeError(w, http.StatusInternalServerError, "error interno")
		return
	}
	if err != nil || !store.CheckPassword(su, req.Password) {
		metrics.AuthTotal.WithLabelValues("login", "denied").Inc()
		writeError(w, http.StatusUnauthorized, "credenciales inválidas")
		return
	}
	name := su.Name
	if name == "" {
		name = store.DefaultName(su.Email)
	}
	u := session.User{Email: su.Email, Name: name}
	if err := s.startSession(ctx, w, u); err != nil {
		logger.L().Error("session_create_error", "err", err)
		writeError(w, http.StatusInternalServerError, "error interno")
		return
	}
	metrics.AuthTotal.WithLabelValues("login", "ok").Inc()
	writeJSON(w, http.StatusOK, okResponse{OK: true, User: &u})
}
