package catalog

import (
	"testing"

	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cat.Len() != 13 {
		t.Fatalf("expected 13 achievements, got %d", cat.Len())
	}

	wantIDs := []string{
		"first_report", "reports_10", "reports_50", "reports_100",
		"streak_3", "streak_7", "streak_30",
		"level_5", "level_10", "level_25",
		"team_join", "challenge_win", "social_butterfly",
	}
	for _, id := range wantIDs {
		if _, ok := cat.Get(id); !ok {
			t.Errorf("missing achievement: %s", id)
		}
	}
}

func TestLoad_KnownPointValues(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	wantPoints := map[string]int{
		"first_report":     10,
		"reports_10":       50,
		"reports_50":       200,
		"reports_100":      500,
		"streak_3":         30,
		"streak_7":         100,
		"streak_30":        500,
		"level_5":          100,
		"level_10":         300,
		"level_25":         1000,
		"team_join":        50,
		"challenge_win":    200,
		"social_butterfly": 100,
	}
	for id, points := range wantPoints {
		def, ok := cat.Get(id)
		if !ok {
			t.Errorf("missing achievement: %s", id)
			continue
		}
		if def.Points != points {
			t.Errorf("%s: expected %d points, got %d", id, points, def.Points)
		}
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "empty catalog",
			yaml: "achievements: []",
		},
		{
			name: "empty id",
			yaml: `
achievements:
  - id: ""
    name: x
    points: 10
    category: reports
    threshold: 1
`,
		},
		{
			name: "duplicate id",
			yaml: `
achievements:
  - id: a
    name: x
    points: 10
    category: reports
    threshold: 1
  - id: a
    name: y
    points: 20
    category: streak
    threshold: 3
`,
		},
		{
			name: "non-positive points",
			yaml: `
achievements:
  - id: a
    name: x
    points: 0
    category: reports
    threshold: 1
`,
		},
		{
			name: "unknown category",
			yaml: `
achievements:
  - id: a
    name: x
    points: 10
    category: karma
    threshold: 1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse([]byte(tt.yaml)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefinition_Satisfied(t *testing.T) {
	reports := Definition{ID: "r", Category: model.CategoryReports, Threshold: 10}
	streak := Definition{ID: "s", Category: model.CategoryStreak, Threshold: 7}
	level := Definition{ID: "l", Category: model.CategoryLevel, Threshold: 5}
	social := Definition{ID: "o", Category: model.CategorySocial, Threshold: 10}
	team := Definition{ID: "t", Category: model.CategoryTeam}

	tests := []struct {
		name  string
		def   Definition
		stats model.UserGameStats
		want  bool
	}{
		{"reports exact match", reports, model.UserGameStats{TotalReports: 10}, true},
		{"reports above boundary", reports, model.UserGameStats{TotalReports: 11}, false},
		{"reports below boundary", reports, model.UserGameStats{TotalReports: 9}, false},
		{"streak exact match", streak, model.UserGameStats{Streak: 7}, true},
		{"streak above boundary", streak, model.UserGameStats{Streak: 8}, false},
		{"level exact match", level, model.UserGameStats{Level: 5}, true},
		{"level above boundary", level, model.UserGameStats{Level: 6}, false},
		{"social at threshold", social, model.UserGameStats{FollowerCount: 10}, true},
		{"social above threshold", social, model.UserGameStats{FollowerCount: 99}, true},
		{"social below threshold", social, model.UserGameStats{FollowerCount: 9}, false},
		{"team never stat based", team, model.UserGameStats{TotalReports: 100, Level: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.stats
			if got := tt.def.Satisfied(&stats); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefinition_SatisfiedNilStats(t *testing.T) {
	def := Definition{ID: "r", Category: model.CategoryReports, Threshold: 1}
	if def.Satisfied(nil) {
		t.Error("nil stats must not satisfy")
	}
}

func TestCatalog_ByCategory(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	levels := cat.ByCategory(model.CategoryLevel)
	if len(levels) != 3 {
		t.Fatalf("expected 3 level achievements, got %d", len(levels))
	}
	for _, def := range levels {
		if def.Category != model.CategoryLevel {
			t.Errorf("unexpected category: %s", def.Category)
		}
	}
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	all := cat.All()
	all[0].ID = "tampered"

	if _, ok := cat.Get("tampered"); ok {
		t.Error("mutating All() result must not affect the catalog")
	}
	if cat.All()[0].ID == "tampered" {
		t.Error("expected fresh copy from All()")
	}
}
