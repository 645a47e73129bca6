package utils

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

// RegisterValidations 注册业务相关的校验标签及其中文提示
func RegisterValidations(validate *validator.Validate, trans ut.Translator) error {
	rules := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{
			tag: "timeofday",
			fn: func(fl validator.FieldLevel) bool {
				_, err := domain.ParseTimeOfDay(fl.Field().String())
				return err == nil
			},
			message: "{0}必须是有效的时间，例如 08:00",
		},
		{
			tag: "date",
			fn: func(fl validator.FieldLevel) bool {
				_, err := domain.ParseDate(fl.Field().String())
				return err == nil
			},
			message: "{0}必须是 YYYY-MM-DD 格式的日期",
		},
		{
			tag: "department",
			fn: func(fl validator.FieldLevel) bool {
				return domain.Department(fl.Field().String()).Valid()
			},
			message: "{0}必须是 FOH 或 BOH",
		},
	}

	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}

		message := rule.message
		tag := rule.tag
		if err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		); err != nil {
			return err
		}
	}

	return nil
}
