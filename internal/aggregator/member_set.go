package aggregator

import (
	"encoding/json"
	"fmt"
)

// MemberSet 按 user_code 去重、保持首次出现顺序的成员集合
// 同一 code 重复写入只更新展示字符串，不改变位置
type MemberSet struct {
	index  map[string]int
	codes  []string
	labels []string
}

// NewMemberSet 创建空成员集合
func NewMemberSet() *MemberSet {
	return &MemberSet{index: make(map[string]int)}
}

// Put 写入成员；code 已存在时覆盖 label
func (s *MemberSet) Put(code, label string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[code]; ok {
		s.labels[i] = label
		return
	}
	s.index[code] = len(s.codes)
	s.codes = append(s.codes, code)
	s.labels = append(s.labels, label)
}

// Has 是否包含某个 user_code
func (s *MemberSet) Has(code string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[code]
	return ok
}

// Len 成员数量
func (s *MemberSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Codes 按插入顺序返回 user_code
func (s *MemberSet) Codes() []string {
	out := make([]string, 0, s.Len())
	if s == nil {
		return out
	}
	return append(out, s.codes...)
}

// Labels 按插入顺序返回 "name (code)"
func (s *MemberSet) Labels() []string {
	out := make([]string, 0, s.Len())
	if s == nil {
		return out
	}
	return append(out, s.labels...)
}

type memberJSON struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// MarshalJSON 序列化为有序数组，缓存窗口时使用
func (s *MemberSet) MarshalJSON() ([]byte, error) {
	items := make([]memberJSON, 0, s.Len())
	if s != nil {
		for i, code := range s.codes {
			items = append(items, memberJSON{Code: code, Label: s.labels[i]})
		}
	}
	return json.Marshal(items)
}

func (s *MemberSet) UnmarshalJSON(data []byte) error {
	var items []memberJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal member set: %w", err)
	}
	s.index = make(map[string]int, len(items))
	s.codes = s.codes[:0]
	s.labels = s.labels[:0]
	for _, it := range items {
		s.Put(it.Code, it.Label)
	}
	return nil
}
