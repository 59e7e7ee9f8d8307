package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidFenceJSON 围栏事件 body 无法解析，文本原样返回给客户端
//
//nolint:stylecheck // ST1005: wire text
var ErrInvalidFenceJSON = errors.New("Invalid JSON data received")

// FenceRecordedMessage 围栏事件写入成功提示
const FenceRecordedMessage = "Fence notification recorded successfully"

// FenceNotification 围栏事件上报（HTTP body 与 MQTT payload 共用）
type FenceNotification struct {
	ParentEmail string  `json:"parent_email" validate:"required"`
	StudentName string  `json:"student_name" validate:"required"`
	IsInside    bool    `json:"is_inside"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timestamp   string  `json:"timestamp"`
}

// UnmarshalJSON is_inside 兼容旧版客户端：接受 bool、数字（非 0 为 true）、
// 字符串（""、"0"、"false" 为 false）以及 null
func (n *FenceNotification) UnmarshalJSON(data []byte) error {
	type plain FenceNotification
	aux := struct {
		*plain
		IsInside json.RawMessage `json:"is_inside"`
	}{plain: (*plain)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	inside, err := parseTruthy(aux.IsInside)
	if err != nil {
		return err
	}
	n.IsInside = inside
	return nil
}

func parseTruthy(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case string:
		if t == "" || t == "0" {
			return false, nil
		}
		if b, err := strconv.ParseBool(t); err == nil {
			return b, nil
		}
		return true, nil
	default:
		return false, fmt.Errorf("is_inside: unsupported value %s", raw)
	}
}

// FenceNotificationResult 围栏事件写入响应
type FenceNotificationResult struct {
	Result
	EventID   int64  `json:"event_id"`
	Timestamp string `json:"timestamp"`
}

// NewFenceNotificationResult 组装成功响应
func NewFenceNotificationResult(eventID int64, timestamp string) FenceNotificationResult {
	return FenceNotificationResult{
		Result:    Success(FenceRecordedMessage),
		EventID:   eventID,
		Timestamp: timestamp,
	}
}

// DecodeFenceNotification 解析围栏事件 JSON；空 body、null、空对象或非对象均视为无效
func DecodeFenceNotification(body []byte) (FenceNotification, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return FenceNotification{}, ErrInvalidFenceJSON
	}
	var req FenceNotification
	if err := json.Unmarshal(body, &req); err != nil {
		return FenceNotification{}, ErrInvalidFenceJSON
	}
	return req, nil
}
