package httpapi

import "github.com/Jm141/Sts-mobile-app-trackademia/internal/models"

// Fail 错误响应 {status:"error", message}
func Fail(message string) models.Result {
	return models.Fail(message)
}

// serverError 未预期错误的统一文案
func serverError(err error) models.Result {
	return Fail("Server error: " + err.Error())
}
