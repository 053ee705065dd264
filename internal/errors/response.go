package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requestIDKey is where the logging middleware stores the request id
const requestIDKey = "request_id"

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error     string `json:"error"`                // 에러 코드 (codes.go)
	Message   string `json:"message"`              // 사용자에게 보여질 한글 메시지
	RequestID string `json:"request_id,omitempty"` // 문의/로그 추적용 X-Request-ID
}

// RespondWithError writes the error body. The request id set by the logging
// middleware is echoed so a client report can be matched to the server log.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "로그인이 필요합니다"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "접근 권한이 없습니다"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

// InvalidID 경로/쿼리의 ID 파라미터가 양의 정수가 아닐 때
func InvalidID(c *gin.Context, param string) {
	BadRequest(c, ValidationInvalidID, "잘못된 ID입니다: "+param)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
