package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// validate 包级校验器（validator 实例并发安全，且会缓存结构体元数据）
var validate = validator.New()

// firstInvalidField 返回第一个校验失败的字段名；非校验错误返回 ""
func firstInvalidField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}
