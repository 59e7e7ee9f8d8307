package service

import (
	"context"
	"errors"
	"fmt"

	rediscommon "github.com/Jm141/Sts-mobile-app-trackademia/common/redis"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrMissingFenceFields parent_email 或 student_name 为空，文本原样返回给客户端
//
//nolint:stylecheck // ST1005: wire text
var ErrMissingFenceFields = errors.New("Missing required fields: parent_email or student_name")

// FenceService 电子围栏事件服务接口
type FenceService interface {
	// RecordFenceNotification 校验并写入一条围栏事件
	RecordFenceNotification(ctx context.Context, req models.FenceNotification) (*RecordFenceNotificationResponse, error)
}

// RecordFenceNotificationResponse 写入结果
type RecordFenceNotificationResponse struct {
	EventID   int64
	Timestamp string // 原样回显客户端时间
}

// fenceService 实现
type fenceService struct {
	events      repository.FenceEventStore
	redisClient *redis.Client // 可为 nil，nil 时不发布
	stream      string
	logger      *zap.Logger
}

// NewFenceService 创建 FenceService 实例
// redisClient 为 nil 或 stream 为空时只写库
func NewFenceService(events repository.FenceEventStore, redisClient *redis.Client, stream string, logger *zap.Logger) FenceService {
	return &fenceService{
		events:      events,
		redisClient: redisClient,
		stream:      stream,
		logger:      logger,
	}
}

// RecordFenceNotification 写入围栏事件，成功后发布到 Redis Stream
func (s *fenceService) RecordFenceNotification(ctx context.Context, req models.FenceNotification) (*RecordFenceNotificationResponse, error) {
	s.logger.Info("Fence notification received",
		zap.String("parent_email", req.ParentEmail),
		zap.String("student_name", req.StudentName),
		zap.Bool("is_inside", req.IsInside),
	)

	if err := validate.Struct(req); err != nil {
		if firstInvalidField(err) != "" {
			return nil, ErrMissingFenceFields
		}
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	event := &domain.FenceEvent{
		ParentEmail: req.ParentEmail,
		StudentName: req.StudentName,
		IsInside:    req.IsInside,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Timestamp:   req.Timestamp,
	}

	id, err := s.events.InsertFenceEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	event.EventID = id

	s.logger.Info("Fence event recorded",
		zap.Int64("event_id", id),
		zap.String("student_name", req.StudentName),
	)

	s.publish(ctx, event)

	return &RecordFenceNotificationResponse{EventID: id, Timestamp: req.Timestamp}, nil
}

// publish 发布到通知队列；失败只记录日志
func (s *fenceService) publish(ctx context.Context, event *domain.FenceEvent) {
	if s.redisClient == nil || s.stream == "" {
		return
	}
	msgID, err := rediscommon.PublishJSONToStream(ctx, s.redisClient, s.stream, event)
	if err != nil {
		s.logger.Warn("Failed to publish fence event",
			zap.String("stream", s.stream),
			zap.Int64("event_id", event.EventID),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Published fence event",
		zap.String("stream", s.stream),
		zap.String("message_id", msgID),
	)
}
