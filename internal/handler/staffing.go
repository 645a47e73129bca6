package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/service"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

func (h *Handler) GetAvailableEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := struct {
		Start      string `validate:"required,timeofday"`
		End        string `validate:"required,timeofday"`
		Department string `validate:"omitempty,department"`
	}{
		Start:      query.Get("start"),
		End:        query.Get("end"),
		Department: query.Get("department"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employees, err := h.service.AvailableEmployees(r.Context(), actorFrom(r), chi.URLParam(r, "id"), setupsheet.AvailabilityQuery{
		Date:          chi.URLParam(r, "date"),
		BlockStart:    req.Start,
		BlockEnd:      req.End,
		ForPositionID: query.Get("positionID"),
		Department:    domain.Department(req.Department),
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取可安排员工成功", employees)
}

func (h *Handler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	setup, err := h.service.Assign(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), chi.URLParam(r, "positionID"), req.EmployeeID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "安排员工成功", setup)
}

func (h *Handler) UnassignEmployee(w http.ResponseWriter, r *http.Request) {
	setup, err := h.service.Unassign(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), chi.URLParam(r, "positionID"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "取消安排成功", setup)
}

type breakResponse struct {
	Break   *domain.BreakRecord `json:"break"`
	Version int32               `json:"version"`
}

func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID   string `json:"employeeID" validate:"required"`
		EmployeeName string `json:"employeeName" validate:"max=64"`
		Date         string `json:"date" validate:"required,date"`
		Duration     int32  `json:"duration" validate:"required,gte=1,lte=240"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	record, setup, err := h.service.StartBreak(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), service.StartBreakInput{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Date:         req.Date,
		Duration:     req.Duration,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "开始休息", breakResponse{Break: record, Version: setup.Version})
}

func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeID" validate:"required"`
		Date       string `json:"date" validate:"required,date"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	record, setup, err := h.service.EndBreak(r.Context(), actorFrom(r), chi.URLParam(r, "id"), baseVersionFrom(r), req.EmployeeID, req.Date)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "结束休息", breakResponse{Break: record, Version: setup.Version})
}

func (h *Handler) GetBreaks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := domain.ParseDate(date); err != nil {
		h.errorResponse(w, r, "日期无效")
		return
	}

	overview, err := h.service.Breaks(r.Context(), actorFrom(r), chi.URLParam(r, "id"), date, r.URL.Query().Get("employeeID"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取休息记录成功", overview)
}

func (h *Handler) ReplaceEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldEmployeeID   string `json:"oldEmployeeID" validate:"required"`
		NewEmployeeName string `json:"newEmployeeName" validate:"required,max=64"`
		Date            string `json:"date" validate:"required,date"`
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
	result, setup, err := h.service.ReplaceEmployee(r.Context(), actor, chi.URLParam(r, "id"), baseVersionFrom(r), service.ReplaceEmployeeInput{
		OldEmployeeID:   req.OldEmployeeID,
		NewEmployeeName: req.NewEmployeeName,
		Date:            req.Date,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	positions := make([]string, 0, len(result.Positions))
	for _, p := range result.Positions {
		positions = append(positions, p.PositionName+" "+p.StartTime+"-"+p.EndTime)
	}
	h.publishMail(domain.MailTypeEmployeeReplaced, h.storeMailbox(setup.StoreID), domain.EmployeeReplacedMailData{
		SetupName:       setup.Name,
		Date:            result.Date,
		OldEmployeeName: result.OldEmployeeName,
		NewEmployeeName: result.NewEmployee.Name,
		Positions:       positions,
		ReplacedBy:      actor.Name,
	})

	h.successResponse(w, r, "替班成功", struct {
		*setupsheet.ReplacementResult
		Version int32 `json:"version"`
	}{result, setup.Version})
}
