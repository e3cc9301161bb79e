// Package errors: 게이미피케이션 엔진에 특화된 에러 타입들을 정의한다.
// 공통 인프라 에러(RedisError, DatabaseError 등)는 common/errors 패키지를 직접 사용한다.
package errors

import "fmt"

// NotFoundError: 대상 사용자 통계 레코드가 존재하지 않을 때 발생하는 에러.
// 호출자에게 그대로 전달되며 재시도하지 않는다.
type NotFoundError struct {
	UserID string
}

func (e NotFoundError) Error() string {
	if e.UserID == "" {
		return "user stats not found"
	}
	return fmt.Sprintf("user stats not found userId=%s", e.UserID)
}

// ConflictError: 동시 쓰기 감지(낙관적 동시성 실패)가 재시도 한도를 넘었을 때 발생하는 에러.
type ConflictError struct {
	UserID   string
	Attempts int
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("concurrent update conflict userId=%s attempts=%d", e.UserID, e.Attempts)
}

// InvalidMetricError: 지원하지 않는 리더보드 지표가 전달되었을 때 발생하는 에러.
type InvalidMetricError struct {
	Metric string
}

func (e InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid leaderboard metric: %s", e.Metric)
}
