package models

// 响应状态
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result 移动端统一响应外壳：{status, message, ...}
// 业务错误同样以 HTTP 200 返回，由 status 区分
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Success 成功外壳
func Success(message string) Result {
	return Result{Status: StatusSuccess, Message: message}
}

// Fail 错误外壳
func Fail(message string) Result {
	return Result{Status: StatusError, Message: message}
}
