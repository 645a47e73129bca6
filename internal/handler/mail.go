package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

// storeMailbox 返回门店的公共邮箱，通知统一发到这里
func (h *Handler) storeMailbox(storeID string) string {
	return fmt.Sprintf("%s@%s", storeID, h.config.Email.StoreDomain)
}

// publishMail 把邮件任务投递到队列中。排班已经保存成功，投递失败只记录日志，不影响响应
func (h *Handler) publishMail(mailType, to string, data any) {
	body, err := json.Marshal(domain.MailMessage{Type: mailType, To: to, Data: data})
	if err != nil {
		slog.Error("无法序列化邮件任务", "type", mailType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.MailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("无法投递邮件任务", "type", mailType, "to", to, "error", err)
	}
}
