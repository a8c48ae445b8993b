package response

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/service"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// Success 业务成功，HTTP 状态码恒为 200
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 业务失败，错误通过 Code 区分
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// bindError 请求体解析与校验失败
func bindError(err error) (string, bool) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return fmt.Sprintf("参数错误: %s 不满足 %s", ve[0].Field(), ve[0].Tag()), true
	}
	var goccyType *json.UnmarshalTypeError
	var stdType *stdjson.UnmarshalTypeError
	var stdSyntax *stdjson.SyntaxError
	if errors.As(err, &goccyType) || errors.As(err, &stdType) || errors.As(err, &stdSyntax) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "Json错误", true
	}
	if errors.Is(err, io.EOF) {
		return "请求体为空", true
	}
	return "", false
}

// Error 已知业务错误按 ErrorMap 返回，其余记录日志后统一返回系统异常
func Error(c *gin.Context, err error) {
	if msg, ok := bindError(err); ok {
		Fail(c, BadRequest, msg)
		return
	}

	for target, code := range service.ErrorMap {
		if errors.Is(err, target) {
			Fail(c, code, target.Error())
			return
		}
	}

	log.ErrorContext(c.Request.Context(), "unhandled error", "path", c.FullPath(), "err", err)
	Fail(c, InternalServerError, service.UnExpectedError.Error())
}
