package ptr

// String: 문자열 포인터를 만든다. (nullable 컬럼 값 구성용)
func String(v string) *string { return &v }
