// Package catalog: 프로세스 전역 업적 카탈로그를 제공한다.
// 시작 시 임베드된 YAML에서 한 번 로드되는 불변 레지스트리로,
// 런타임 변경 경로가 없으므로 읽기에 동기화가 필요 없다.
package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/assets"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// Definition: 업적 정의 (불변).
type Definition struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Icon        string         `yaml:"icon"`
	Points      int            `yaml:"points"`
	Category    model.Category `yaml:"category"`
	Threshold   int            `yaml:"threshold"`
}

// Satisfied: 현재 사용자 통계가 이 업적의 해금 조건을 만족하는지 판정한다.
// reports/streak/level은 경계값 정확 일치로만 발화하므로 중복 해금이 구조적으로 방지되고,
// social은 이상(>=) 조건이라 보유 여부 검사(중복 방지 가드)가 필수다.
// team/challenge는 통계로 판정하지 않고 외부 트리거로만 해금된다.
func (d Definition) Satisfied(stats *model.UserGameStats) bool {
	if stats == nil {
		return false
	}
	switch d.Category {
	case model.CategoryReports:
		return stats.TotalReports == d.Threshold
	case model.CategoryStreak:
		return stats.Streak == d.Threshold
	case model.CategoryLevel:
		return stats.Level == d.Threshold
	case model.CategorySocial:
		return stats.FollowerCount >= d.Threshold
	case model.CategoryTeam, model.CategoryChallenge:
		return false
	default:
		return false
	}
}

// Catalog: 로드된 업적 정의 집합.
type Catalog struct {
	defs []Definition
	byID map[string]Definition
}

type catalogFile struct {
	Achievements []Definition `yaml:"achievements"`
}

// Load: 임베드된 YAML 에셋에서 카탈로그를 로드하고 검증한다.
func Load() (*Catalog, error) {
	return parse([]byte(assets.AchievementsYAML))
}

func parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("unmarshal achievements yaml failed: %w", err)
	}
	if len(file.Achievements) == 0 {
		return nil, fmt.Errorf("achievement catalog is empty")
	}

	byID := make(map[string]Definition, len(file.Achievements))
	for _, def := range file.Achievements {
		if def.ID == "" {
			return nil, fmt.Errorf("achievement with empty id")
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate achievement id: %s", def.ID)
		}
		if def.Points <= 0 {
			return nil, fmt.Errorf("achievement %s has non-positive points: %d", def.ID, def.Points)
		}
		switch def.Category {
		case model.CategoryReports, model.CategoryStreak, model.CategoryLevel,
			model.CategorySocial, model.CategoryTeam, model.CategoryChallenge:
		default:
			return nil, fmt.Errorf("achievement %s has unknown category: %s", def.ID, def.Category)
		}
		byID[def.ID] = def
	}

	return &Catalog{defs: file.Achievements, byID: byID}, nil
}

// All: 전체 정의 목록을 반환한다. (호출자가 변경하지 못하도록 복사본)
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// ByCategory: 해당 카테고리의 정의들을 반환한다.
func (c *Catalog) ByCategory(category model.Category) []Definition {
	var out []Definition
	for _, def := range c.defs {
		if def.Category == category {
			out = append(out, def)
		}
	}
	return out
}

// Get: ID로 정의를 조회한다.
func (c *Catalog) Get(id string) (Definition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Len: 카탈로그에 등록된 업적 수를 반환한다.
func (c *Catalog) Len() int {
	return len(c.defs)
}
