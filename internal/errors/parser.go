package errors

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보(쿼리, 테이블 구조)는 숨긴다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundInfo(context)
	}

	// 2. 요청 시간 초과 / 취소
	if isTimeout(err) {
		return ErrorInfo{
			Code:    InternalTimeout,
			Message: "요청 처리 시간이 초과되었습니다. 잠시 후 다시 시도해주세요",
		}
	}

	errLower := strings.ToLower(err.Error())

	// 3. 제약 조건 위반 (PostgreSQL / SQLite)
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "이미 존재하는 데이터입니다",
		}
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "연결된 데이터가 없거나 참조 중인 데이터가 있습니다",
		}
	}
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "필수 항목이 누락되었습니다",
		}
	}

	// 4. 네트워크/연결 에러 (DB, Redis, S3)
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "broken pipe") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "저장소 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 5. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요",
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// notFoundInfo context에 따른 Not Found 코드와 메시지
func notFoundInfo(context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "branch") || strings.Contains(contextLower, "지점"):
		return ErrorInfo{Code: BranchNotFound, Message: "지점을 찾을 수 없습니다"}
	case strings.Contains(contextLower, "product") || strings.Contains(contextLower, "상품"):
		return ErrorInfo{Code: ProductNotFound, Message: "상품을 찾을 수 없습니다"}
	case strings.Contains(contextLower, "restaurant") || strings.Contains(contextLower, "catalog") || strings.Contains(contextLower, "레스토랑"):
		return ErrorInfo{Code: RestaurantNotFound, Message: "레스토랑을 찾을 수 없습니다"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "요청한 데이터를 찾을 수 없습니다"}
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	RespondWithError(c, statusCode, errorInfo.Code, errorInfo.Message)
}
