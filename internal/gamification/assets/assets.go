package assets

import _ "embed" // 에셋 임베드용

// AchievementsYAML 는 업적 카탈로그 정의 YAML이다.
//
//go:embed achievements/achievements.yml
var AchievementsYAML string

// UserLockReleaseLua: 사용자 락 해제 Lua 스크립트입니다.
//
//go:embed lua/user_lock_release.lua
var UserLockReleaseLua string
