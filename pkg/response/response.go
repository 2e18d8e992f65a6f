package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "UNAUTHORIZED", "LOGIN_FAILED":
		return http.StatusUnauthorized // 401
	case "ACCOUNT_NOT_FOUND", "BATCH_TASK_NOT_FOUND":
		return http.StatusNotFound // 404
	case "BATCH_TASK_CONFLICT", "BATCH_TASK_NOT_RUNNING",
		"BATCH_TASK_NOT_PAUSED", "BATCH_TASK_FINISHED",
		"ACCOUNT_NAME_TAKEN", "ACCOUNT_BUSY", "CHECKIN_ALREADY_RUNNING":
		return http.StatusConflict // 409
	case "REDEEM_COOLDOWN_ACTIVE", "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests // 429
	case "INVALID_ACCOUNT_ID", "INVALID_TASK_ID", "INVALID_COOKIE_DATA",
		"INVALID_TIME_WINDOW", "INVALID_CLEAR_TYPE", "EMPTY_CODE_LIST",
		"EMPTY_CODE", "INVALID_RETRY_COUNT", "INVALID_RANDOM_DELAY",
		"ACCOUNT_DISABLED", "INVALID_REQUEST":
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
