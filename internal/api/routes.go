// 包 api：地块参考后端的 HTTP 路由；语义与前端控制器约定的 /lotes 与 /auth 接口一致
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"lotes-map/internal/logger"
	"lotes-map/internal/metrics"
	"lotes-map/internal/parcel"
	"lotes-map/internal/session"
	"lotes-map/internal/store"
)

// Server：路由依赖
type Server struct {
	Parcels  store.Repository
	Users    store.Users
	Sessions session.Store
	// SessionTTL：Cookie 有效期，与会话存储的过期时间一致
	SessionTTL   time.Duration
	SecureCookie bool
	Now          func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type createRequest struct {
	Name   string          `json:"name"`
	Estado string          `json:"estado"`
	Coords []parcel.Coord  `json:"coords"`
	Altura json.RawMessage `json:"altura"`
}

type updateRequest struct {
	Name       string          `json:"name"`
	Estado     string          `json:"estado"`
	Altura     json.RawMessage `json:"altura"`
	ReservedBy string          `json:"reservedBy"`
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type okResponse struct {
	OK      bool          `json:"ok"`
	User    *session.User `json:"user,omitempty"`
	Deleted []string      `json:"deleted,omitempty"`
}

// meResponse：user 字段始终输出，未登录为 null
type meResponse struct {
	OK   bool          `json:"ok"`
	User *session.User `json:"user"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{OK: false, Error: msg})
}

// decode：空请求体按空对象处理
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) currentUser(ctx context.Context, r *http.Request) *session.User {
	c, err := r.Cookie(session.CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	u, err := s.Sessions.Get(ctx, c.Value)
	if err != nil {
		logger.L().Warn("session_get_error", "err", err)
		return nil
	}
	return u
}

func (s *Server) startSession(ctx context.Context, w http.ResponseWriter, u session.User) error {
	id, err := s.Sessions.Create(ctx, u)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// 构建并返回路由：使用方法+路径模式，未匹配的方法由 ServeMux 返回 405
func BuildRoutes(s *Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /lotes", func(w http.ResponseWriter, r *http.Request) {
		ps, err := s.Parcels.List(r.Context())
		if err != nil {
			logger.L().Error("parcels_list_error", "err", err)
			writeError(w, http.StatusInternalServerError, "error interno")
			return
		}
		writeJSON(w, http.StatusOK, ps)
	})

	mux.HandleFunc("POST /lotes", func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		p, err := store.NewParcel(store.NewID(), req.Name, req.Estado, req.Coords, parcel.ParseHeightJSON(req.Altura))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.Parcels.Insert(r.Context(), p); err != nil {
			logger.L().Error("parcel_insert_error", "err", err)
			writeError(w, http.StatusInternalServerError, "error interno")
			return
		}
		metrics.ParcelsCreatedTotal.Inc()
		logger.L().Info("parcel_created", "id", p.ID, "estado", p.Status, "vertices", len(p.Coords))
		writeJSON(w, http.StatusCreated, p)
	})

	mux.HandleFunc("POST /lotes/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := r.PathValue("id")
		var req updateRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		ch := store.Change{Name: req.Name, Height: parcel.ParseHeightJSON(req.Altura), At: s.now()}
		if e := strings.ToLower(strings.TrimSpace(req.Estado)); e != "" {
			ch.Status = parcel.Status(e)
			if !ch.Status.Valid() {
				writeError(w, http.StatusBadRequest, "estado inválido: "+req.Estado)
				return
			}
		}
		if ch.Status == parcel.Reserved {
			by := strings.TrimSpace(req.ReservedBy)
			if by == "" {
				if u := s.currentUser(ctx, r); u != nil {
					by = u.Name
				}
			}
			if by != "" {
				ch.ReservedBy = &by
			}
		}
		p, err := s.Parcels.Update(ctx, id, ch)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Lote no encontrado")
			return
		}
		if err != nil {
			logger.L().Error("parcel_update_error", "id", id, "err", err)
			writeError(w, http.StatusInternalServerError, "error interno")
			return
		}
		logger.L().Info("parcel_updated", "id", id, "estado", p.Status)
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	})

	mux.HandleFunc("POST /lotes/delete", func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		n, err := s.Parcels.Delete(r.Context(), req.IDs)
		if err != nil {
			logger.L().Error("parcel_delete_error", "err", err)
			writeError(w, http.StatusInternalServerError, "error interno")
			return
		}
		metrics.ParcelsDeletedTotal.Add(float64(n))
		ids := req.IDs
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true, Deleted: ids})
	})

	mux.HandleFunc("POST /reset", func(w http.ResponseWriter, r *http.Request) {
		n, err := s.Parcels.Reset(r.Context())
		if err != nil {
			logger.L().Error("parcel_reset_error", "err", err)
			writeError(w, http.StatusInternalServerError, "error interno")
			return
		}
		metrics.ParcelsDeletedTotal.Add(float64(n))
		logger.L().Info("parcels_reset", "deleted", n)
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	})

	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/login", s.login)

	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(session.CookieName); err == nil {
			if err := s.Sessions.Delete(r.Context(), c.Value); err != nil {
				logger.L().Warn("session_delete_error", "err", err)
			}
		}
		http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	})

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, meResponse{OK: true, User: s.currentUser(r.Context(), r)})
	})

	return mux
}
