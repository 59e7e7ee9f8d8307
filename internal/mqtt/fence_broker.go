package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/service"

	"go.uber.org/zap"
)

// handleTimeout 单条消息处理超时
const handleTimeout = 10 * time.Second

// FenceMQTTBroker 电子围栏事件 MQTT 入口
// payload 与 HTTP body 相同：{parent_email, student_name, is_inside, latitude, longitude, timestamp}
type FenceMQTTBroker struct {
	fenceService service.FenceService
	logger       *zap.Logger
}

// NewFenceMQTTBroker 创建围栏事件 Broker
func NewFenceMQTTBroker(fenceService service.FenceService, logger *zap.Logger) *FenceMQTTBroker {
	return &FenceMQTTBroker{
		fenceService: fenceService,
		logger:       logger,
	}
}

// HandleMessage 处理 MQTT 消息（签名与 common/mqtt.MessageHandler 一致）
// 返回的错误由 MQTT 客户端记录，消息不会重投
func (b *FenceMQTTBroker) HandleMessage(topic string, payload []byte) error {
	req, err := models.DecodeFenceNotification(payload)
	if err != nil {
		return fmt.Errorf("topic %s: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	resp, err := b.fenceService.RecordFenceNotification(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to record fence event from %s: %w", topic, err)
	}

	b.logger.Debug("Fence event recorded from MQTT",
		zap.String("topic", topic),
		zap.Int64("event_id", resp.EventID),
	)
	return nil
}
