package mailer

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

type kind struct {
	template string
	subject  string
	data     func() any
}

var kinds = map[string]kind{
	domain.MailTypeSetupShared: {
		template: "setup_shared.html",
		subject:  "排班表已共享",
		data:     func() any { return &domain.SetupSharedMailData{} },
	},
	domain.MailTypeEmployeeReplaced: {
		template: "employee_replaced.html",
		subject:  "替班通知",
		data:     func() any { return &domain.EmployeeReplacedMailData{} },
	},
}

// Message 是队列中的原始邮件任务，Data 延迟到确定类型之后再解析
type Message struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// Build 根据队列中的邮件任务构建邮件，templatesDir 为 html 模板所在目录
func Build(body []byte, from, templatesDir string) (*mail.Msg, error) {
	var message Message
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	k, ok := kinds[message.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型 %q", message.Type)
	}

	data := k.data()
	if err := json.Unmarshal(message.Data, data); err != nil {
		return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
	}

	tmpl, err := template.ParseFiles(filepath.Join(templatesDir, k.template))
	if err != nil {
		return nil, fmt.Errorf("无法解析邮件模板: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(message.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject("门店排班 - " + k.subject)

	return m, nil
}
