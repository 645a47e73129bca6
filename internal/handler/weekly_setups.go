package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/service"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

func (h *Handler) GetAllWeeklySetups(w http.ResponseWriter, r *http.Request) {
	templates := r.URL.Query().Get("templates") == "true"

	list, err := h.service.ListSetups(r.Context(), actorFrom(r), templates)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表列表成功", list)
}

func (h *Handler) CreateWeeklySetup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name" validate:"required,max=128"`
		WeekStartDate string `json:"weekStartDate" validate:"omitempty,date"`
		AutoGenerated bool   `json:"autoGenerated"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	setup, err := h.service.CreateSetup(r.Context(), actorFrom(r), service.CreateSetupInput{
		Name:          req.Name,
		WeekStartDate: req.WeekStartDate,
		AutoGenerated: req.AutoGenerated,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建排班表成功", setup)
}

func (h *Handler) CreateWeeklySetupFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID    string `json:"templateID" validate:"required,uuid"`
		Name          string `json:"name" validate:"max=128"`
		WeekStartDate string `json:"weekStartDate" validate:"omitempty,date"`
		AutoGenerated bool   `json:"autoGenerated"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	setup, err := h.service.CreateFromTemplate(r.Context(), actorFrom(r), service.CreateFromTemplateInput{
		TemplateID:    req.TemplateID,
		Name:          req.Name,
		WeekStartDate: req.WeekStartDate,
		AutoGenerated: req.AutoGenerated,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "从模板创建排班表成功", setup)
}

func (h *Handler) GetWeeklySetup(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取排班表成功", weeklySetupFrom(r))
}

func (h *Handler) RenameWeeklySetup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=128"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	setup, err := h.service.RenameSetup(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), req.Name)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新排班表成功", setup)
}

func (h *Handler) DeleteWeeklySetup(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSetup(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r)); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班表成功", nil)
}

func (h *Handler) SetWeeklySetupShared(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsShared *bool `json:"isShared" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	actor := actorFrom(r)
	setup, changed, err := h.service.SetShared(r.Context(), actor, chi.URLParam(r, "id"), baseVersionFrom(r), *req.IsShared)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	// 只有从私有变为共享时才通知门店
	if changed && setup.IsShared {
		h.publishMail(domain.MailTypeSetupShared, h.storeMailbox(setup.StoreID), domain.SetupSharedMailData{
			SetupName:     setup.Name,
			WeekStartDate: setup.WeekStartDate,
			WeekEndDate:   setup.WeekEndDate,
			SharedBy:      actor.Name,
		})
	}

	h.successResponse(w, r, "更新共享状态成功", setup)
}

func (h *Handler) SaveWeeklySetupAsTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=128"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template, err := h.service.SaveAsTemplate(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存为模板成功", template)
}

type positionSpecRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	Department string `json:"department" validate:"required,department"`
}

func (req positionSpecRequest) spec() setupsheet.PositionSpec {
	return setupsheet.PositionSpec{Name: req.Name, Department: domain.Department(req.Department)}
}

func (h *Handler) AddTimeBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartTime string                `json:"startTime" validate:"required,timeofday"`
		EndTime   string                `json:"endTime" validate:"required,timeofday"`
		Positions []positionSpecRequest `json:"positions" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	specs := make([]setupsheet.PositionSpec, 0, len(req.Positions))
	for _, p := range req.Positions {
		specs = append(specs, p.spec())
	}

	setup, err := h.service.AddTimeBlock(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), service.AddTimeBlockInput{
		Date:      chi.URLParam(r, "date"),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Positions: specs,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加时间段成功", setup)
}

func (h *Handler) RemoveTimeBlock(w http.ResponseWriter, r *http.Request) {
	setup, err := h.service.RemoveTimeBlock(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), chi.URLParam(r, "blockID"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除时间段成功", setup)
}

func (h *Handler) AddPosition(w http.ResponseWriter, r *http.Request) {
	var req positionSpecRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	setup, err := h.service.AddPosition(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), chi.URLParam(r, "blockID"), req.spec())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加岗位成功", setup)
}

func (h *Handler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	setup, err := h.service.RemovePosition(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), chi.URLParam(r, "positionID"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除岗位成功", setup)
}
