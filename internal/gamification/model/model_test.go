package model

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	input := time.Date(2026, 3, 15, 23, 59, 58, 123, time.UTC)
	got := NormalizeDate(input)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestIsSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	night := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 16, 0, 0, 1, 0, time.UTC)

	if !IsSameDay(morning, night) {
		t.Error("same calendar day expected")
	}
	if IsSameDay(night, nextDay) {
		t.Error("different days must not match")
	}
}

func TestIsNextDay(t *testing.T) {
	day15 := time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC)
	day16 := time.Date(2026, 3, 16, 1, 0, 0, 0, time.UTC)
	day17 := time.Date(2026, 3, 17, 1, 0, 0, 0, time.UTC)

	if !IsNextDay(day15, day16) {
		t.Error("expected 16th to be next day of 15th")
	}
	if IsNextDay(day15, day17) {
		t.Error("two-day gap is not next day")
	}
	if IsNextDay(day16, day15) {
		t.Error("previous day is not next day")
	}
}

func TestIsSameDay_AcrossTimeZones(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	utcMidnight := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	kstMorning := time.Date(2026, 3, 1, 8, 0, 0, 0, kst)
	if !IsSameDay(utcMidnight, kstMorning) {
		t.Error("same calendar day in different zones must match")
	}

	// 인스턴트로는 같은 순간이지만 표기 날짜가 다르면 다른 날이다.
	kstNextDate := time.Date(2026, 3, 2, 1, 0, 0, 0, kst)
	if IsSameDay(utcMidnight.Add(16*time.Hour), kstNextDate) {
		t.Error("different calendar dates must not match even at the same instant")
	}
}

func TestIsNextDay_AcrossTimeZones(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	day1UTC := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day2KST := time.Date(2026, 3, 2, 23, 0, 0, 0, kst)
	if !IsNextDay(day1UTC, day2KST) {
		t.Error("next calendar day in another zone must count as continuation")
	}
}

func TestNormalizeDate_PinsToUTC(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	got := NormalizeDate(time.Date(2026, 3, 15, 8, 30, 0, 0, kst))
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("expected %v (UTC), got %v", want, got)
	}
}

func TestIsNextDay_MonthBoundary(t *testing.T) {
	lastOfMonth := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	firstOfNext := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	if !IsNextDay(lastOfMonth, firstOfNext) {
		t.Error("expected month rollover to count as next day")
	}
}

func TestHasAchievement(t *testing.T) {
	stats := UserGameStats{
		Achievements: []AchievementRecord{
			{ID: "first_report"},
			{ID: "streak_3"},
		},
	}
	if !stats.HasAchievement("streak_3") {
		t.Error("expected streak_3 held")
	}
	if stats.HasAchievement("level_5") {
		t.Error("level_5 must not be held")
	}
}

func TestMetric_IsValid(t *testing.T) {
	for _, metric := range []Metric{MetricPoints, MetricReports, MetricStreak, MetricLevel} {
		if !metric.IsValid() {
			t.Errorf("expected %s valid", metric)
		}
	}
	if Metric("karma").IsValid() {
		t.Error("unknown metric must be invalid")
	}
}
