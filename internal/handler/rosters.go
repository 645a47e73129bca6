package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/roster"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UploadRoster 接收 multipart/form-data 中名为 file 的排班表
func (h *Handler) UploadRoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorResponse(w, r, fmt.Sprintf("排班表文件不能超过 %d MB", h.config.Server.MaxUploadSize>>20))
			return
		}
		h.errorResponse(w, r, "请求格式错误，请使用 multipart/form-data 上传")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "缺少排班表文件")
		return
	}
	defer file.Close()

	actor := actorFrom(r)
	days, err := roster.ParseWorkbook(file, actor.StoreID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	applied, setup, err := h.service.UploadRoster(r.Context(), actor, chi.URLParam(r, "id"), baseVersionFrom(r), days)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "上传排班表成功", struct {
		*setupsheet.RosterApplied
		Version int32 `json:"version"`
	}{applied, setup.Version})
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	day, err := h.service.GetRoster(r.Context(), actorFrom(r), chi.URLParam(r, "id"), chi.URLParam(r, "date"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表成功", day)
}

// ExportRoster 导出本周已上传的排班表，格式与上传时相同
func (h *Handler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	setup, days, err := h.service.ExportRoster(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := roster.WriteWorkbook(&buf, days); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="roster-%s.xlsx"`, setup.WeekStartDate))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logInternalServerError(r, err)
	}
}
