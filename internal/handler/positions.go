package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/service"
)

type positionRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	Department string `json:"department" validate:"required,department"`
	SortOrder  int32  `json:"sortOrder" validate:"gte=0"`
}

func (req positionRequest) input() service.PositionInput {
	return service.PositionInput{
		Name:       req.Name,
		Department: domain.Department(req.Department),
		SortOrder:  req.SortOrder,
	}
}

func (h *Handler) GetAllPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.ListPositions(r.Context(), actorFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取岗位列表成功", positions)
}

func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	p, err := h.service.CreatePosition(r.Context(), actorFrom(r), req.input())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建岗位成功", p)
}

func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(PositionDefCtx).(int64)

	var req positionRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	p, err := h.service.UpdatePosition(r.Context(), actorFrom(r), id, baseVersionFrom(r), req.input())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新岗位成功", p)
}

func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(PositionDefCtx).(int64)

	if err := h.service.DeletePosition(r.Context(), actorFrom(r), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除岗位成功", nil)
}
