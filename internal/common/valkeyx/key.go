// Package valkeyx 는 Redis/Valkey 클라이언트 공통 유틸리티를 제공한다.
// 키 생성, 연결, nil 체크 등의 헬퍼 함수들을 포함한다.
package valkeyx

import (
	"fmt"
	"strings"
)

// BuildKey2 는 prefix와 두 개의 id를 결합하여 키를 생성한다.
// 형식: {prefix}:{id1}:{id2}
func BuildKey2(prefix, id1, id2 string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, strings.TrimSpace(id1), strings.TrimSpace(id2))
}
