package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/service"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/utils"
)

// MailPublisher 是 *amqp.Channel 中用于投递邮件任务的部分
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	service     *service.Service
	translator  ut.Translator
	mailChannel MailPublisher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, svc *service.Service, mailCh MailPublisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := utils.RegisterValidations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		service:     svc,
		translator:  trans,
		mailChannel: mailCh,

		Mux: chi.NewRouter(),
	}, nil
}

// 值班经理和店长才能修改排班
var editors = []domain.Role{domain.RoleLeader, domain.RoleDirector}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 令牌由门店的认证服务签发，所有 API 都需要登录
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.ifMatch)

		r.Route("/positions", func(r chi.Router) {
			r.Get("/", h.GetAllPositions)
			r.With(h.RequiredRole(editors)).Post("/", h.CreatePosition)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.positionDefinitionID)
				r.Use(h.RequiredRole(editors))
				r.Patch("/", h.UpdatePosition)
				r.Delete("/", h.DeletePosition)
			})
		})

		r.Route("/weekly-setups", func(r chi.Router) {
			r.Get("/", h.GetAllWeeklySetups)
			r.With(h.RequiredRole(editors)).Post("/", h.CreateWeeklySetup)
			r.With(h.RequiredRole(editors)).Post("/from-template", h.CreateWeeklySetupFromTemplate)

			r.Route("/{id}", func(r chi.Router) {
				r.With(h.weeklySetup).Get("/", h.GetWeeklySetup)
				r.Get("/breaks", h.GetBreaks)
				r.Get("/roster/export", h.ExportRoster)
				r.With(h.date).Get("/days/{date}/available-employees", h.GetAvailableEmployees)
				r.With(h.date).Get("/days/{date}/roster", h.GetRoster)

				r.Group(func(r chi.Router) {
					r.Use(h.RequiredRole(editors))
					r.Patch("/", h.RenameWeeklySetup)
					r.Delete("/", h.DeleteWeeklySetup)
					r.Patch("/shared", h.SetWeeklySetupShared)
					r.Post("/template", h.SaveWeeklySetupAsTemplate)

					r.With(h.date).Post("/days/{date}/time-blocks", h.AddTimeBlock)
					r.Delete("/time-blocks/{blockID}", h.RemoveTimeBlock)
					r.Post("/time-blocks/{blockID}/positions", h.AddPosition)
					r.Delete("/positions/{positionID}", h.RemovePosition)
					r.Put("/positions/{positionID}/employee", h.AssignEmployee)
					r.Delete("/positions/{positionID}/employee", h.UnassignEmployee)

					r.Post("/breaks/start", h.StartBreak)
					r.Post("/breaks/end", h.EndBreak)
					r.Post("/replacements", h.ReplaceEmployee)
					r.Post("/roster", h.UploadRoster)
				})
			})
		})
	})
}
