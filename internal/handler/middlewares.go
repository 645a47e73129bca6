package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := h.tokenFromRequest(r)
		if err != nil {
			switch {
			case errors.Is(err, errNoToken):
				h.errorResponse(w, r, "用户未登录")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		actor, err := h.parseActor(tokenString)
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		ctx := context.WithValue(r.Context(), ActorCtxKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, actorFrom(r).Role) {
				h.errorResponse(w, r, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ifMatch 解析 If-Match 请求头中的版本号，支持 3、"3" 和 W/"3" 三种写法
func (h *Handler) ifMatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("If-Match"))
		if header == "" || header == "*" {
			next.ServeHTTP(w, r)
			return
		}

		value := strings.Trim(strings.TrimPrefix(header, "W/"), `"`)
		version, err := strconv.ParseInt(value, 10, 32)
		if err != nil || version < 0 {
			h.errorResponse(w, r, "If-Match 中的版本号无效")
			return
		}

		v := int32(version)
		ctx := context.WithValue(r.Context(), BaseVersionCtxKey, &v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) weeklySetup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setup, err := h.service.GetSetup(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), WeeklySetupCtx, setup)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// date 校验路径中的日期参数
func (h *Handler) date(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := domain.ParseDate(chi.URLParam(r, "date")); err != nil {
			h.errorResponse(w, r, "日期无效")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) positionDefinitionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.errorResponse(w, r, "岗位ID无效")
			return
		}

		ctx := context.WithValue(r.Context(), PositionDefCtx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
