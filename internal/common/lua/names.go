package lua

// 공통 스크립트 이름 상수.
const (
	ScriptUserLockRelease = "gamify_user_lock_release"
)
