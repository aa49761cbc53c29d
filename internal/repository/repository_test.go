package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/giaic/promptnights/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Challenge{}, &model.Submission{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	user := model.User{ID: id, Name: name, Email: id + "@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedChallenge(t *testing.T, db *gorm.DB, day int) uint {
	t.Helper()
	raw, _ := json.Marshal([]map[string]any{{"input": []any{1}, "expected": 1}})
	challenge := model.Challenge{
		DayNumber:    day,
		Title:        "Day challenge",
		Description:  "desc",
		FunctionName: "solve",
		HarnessKind:  "generic",
		TestCases:    raw,
		Difficulty:   "easy",
		UnlocksAt:    time.Now().Add(-time.Hour),
	}
	if err := db.Create(&challenge).Error; err != nil {
		t.Fatalf("seed challenge day %d: %v", day, err)
	}
	return challenge.ID
}

func seedSubmission(t *testing.T, db *gorm.DB, userID string, challengeID uint, score int, createdAt time.Time) {
	t.Helper()
	sub := model.Submission{
		UserID:        userID,
		ChallengeID:   challengeID,
		Prompt:        "Goal: x Constraints: y Edge Cases: z Output Format: w",
		GeneratedCode: "function solve() {}",
		TotalTokens:   100,
		WeightedScore: score,
		Passed:        true,
		CreatedAt:     createdAt,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
}

func TestSubmissionRepositoryCountsAndBest(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	day1 := seedChallenge(t, db, 1)

	base := time.Now().Add(-time.Hour)
	seedSubmission(t, db, "u1", day1, 80, base)
	seedSubmission(t, db, "u1", day1, 95, base.Add(time.Minute))
	seedSubmission(t, db, "u2", day1, 70, base.Add(2*time.Minute))

	count, err := repo.CountPassingTx(db, "u1", day1)
	if err != nil {
		t.Fatalf("CountPassingTx: %v", err)
	}
	if count != 2 {
		t.Errorf("CountPassingTx = %d, want 2", count)
	}

	best, err := repo.BestScore("u1", day1)
	if err != nil {
		t.Fatalf("BestScore: %v", err)
	}
	if best != 95 {
		t.Errorf("BestScore = %d, want 95", best)
	}

	best, err = repo.BestScore("u3", day1)
	if err != nil {
		t.Fatalf("BestScore for unknown user: %v", err)
	}
	if best != 0 {
		t.Errorf("BestScore for unknown user = %d, want 0", best)
	}
}

func TestSubmissionRepositoryRecentPassingPrompts(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	day1 := seedChallenge(t, db, 1)

	base := time.Now().Add(-time.Hour)
	seedSubmission(t, db, "u1", day1, 80, base)
	seedSubmission(t, db, "u2", day1, 90, base.Add(time.Minute))

	prompts, err := repo.RecentPassingPrompts(day1)
	if err != nil {
		t.Fatalf("RecentPassingPrompts: %v", err)
	}
	// Every user's passing prompts count, the submitter's own included.
	if len(prompts) != 2 {
		t.Fatalf("len(prompts) = %d, want 2", len(prompts))
	}
}

func TestSubmissionRepositoryBestPerChallenge(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	day1 := seedChallenge(t, db, 1)
	day2 := seedChallenge(t, db, 2)

	base := time.Now().Add(-time.Hour)
	seedSubmission(t, db, "u1", day1, 80, base)
	seedSubmission(t, db, "u1", day1, 95, base.Add(time.Minute))
	seedSubmission(t, db, "u1", day2, 70, base.Add(2*time.Minute))
	seedSubmission(t, db, "u2", day1, 100, base.Add(3*time.Minute))

	rows, err := repo.BestPerChallenge("u1")
	if err != nil {
		t.Fatalf("BestPerChallenge: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want one row per challenge", len(rows))
	}
	if rows[0].DayNumber != 1 || rows[0].WeightedScore != 95 || rows[0].AttemptCount != 2 {
		t.Errorf("rows[0] = %+v, want day 1 best 95 across 2 attempts", rows[0])
	}
	if rows[1].DayNumber != 2 || rows[1].WeightedScore != 70 || rows[1].AttemptCount != 1 {
		t.Errorf("rows[1] = %+v, want day 2 best 70 from 1 attempt", rows[1])
	}
	if rows[0].Prompt == "" || rows[0].GeneratedCode == "" {
		t.Errorf("rows[0] = %+v, want the winning prompt and code included", rows[0])
	}
}

func TestLeaderboardRanking(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeaderboardRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	seedUser(t, db, "u3", "Cara")
	day1 := seedChallenge(t, db, 1)
	day2 := seedChallenge(t, db, 2)

	base := time.Now().Add(-2 * time.Hour)
	// u1: best 90 on day1 (two attempts, lower second), 80 on day2 -> 170
	seedSubmission(t, db, "u1", day1, 90, base)
	seedSubmission(t, db, "u1", day1, 60, base.Add(time.Minute))
	seedSubmission(t, db, "u1", day2, 80, base.Add(2*time.Minute))
	// u2 and u3 both total 100; u2 passed first.
	seedSubmission(t, db, "u2", day1, 100, base.Add(3*time.Minute))
	seedSubmission(t, db, "u3", day1, 100, base.Add(4*time.Minute))

	rows, err := repo.Ranking(10, 0)
	if err != nil {
		t.Fatalf("Ranking: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0].UserID != "u1" || rows[0].TotalScore != 170 || rows[0].ChallengesSolved != 2 {
		t.Errorf("rows[0] = %+v, want u1 with 170 across 2 challenges", rows[0])
	}
	// u2 and u3 both total 100; u2 solved first and ranks higher.
	if rows[1].UserID != "u2" || rows[2].UserID != "u3" {
		t.Errorf("tie order = %s, %s; want u2 before u3", rows[1].UserID, rows[2].UserID)
	}

	total, err := repo.TotalRanked()
	if err != nil {
		t.Fatalf("TotalRanked: %v", err)
	}
	if total != 3 {
		t.Errorf("TotalRanked = %d, want 3", total)
	}

	// Pagination slices the same ordering.
	page2, err := repo.Ranking(1, 1)
	if err != nil {
		t.Fatalf("Ranking page 2: %v", err)
	}
	if len(page2) != 1 || page2[0].UserID != "u2" {
		t.Errorf("page2 = %+v, want just u2", page2)
	}
}

func TestLeaderboardBreakdown(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeaderboardRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	seedUser(t, db, "u3", "Cara")
	seedUser(t, db, "u4", "Dave")
	day1 := seedChallenge(t, db, 1)

	base := time.Now().Add(-time.Hour)
	seedSubmission(t, db, "u1", day1, 70, base)
	seedSubmission(t, db, "u2", day1, 90, base.Add(time.Minute))
	seedSubmission(t, db, "u3", day1, 80, base.Add(2*time.Minute))
	seedSubmission(t, db, "u4", day1, 60, base.Add(3*time.Minute))

	rows, err := repo.Breakdown(3)
	if err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want top 3 only", len(rows))
	}
	wantOrder := []string{"u2", "u3", "u1"}
	for i, want := range wantOrder {
		if rows[i].UserID != want {
			t.Errorf("rows[%d].UserID = %s, want %s", i, rows[i].UserID, want)
		}
		if rows[i].Place != i+1 {
			t.Errorf("rows[%d].Place = %d, want %d", i, rows[i].Place, i+1)
		}
	}
}

func TestLeaderboardStanding(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeaderboardRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	day1 := seedChallenge(t, db, 1)

	base := time.Now().Add(-time.Hour)
	seedSubmission(t, db, "u1", day1, 90, base)
	seedSubmission(t, db, "u2", day1, 70, base.Add(time.Minute))

	standing, err := repo.Standing("u2")
	if err != nil {
		t.Fatalf("Standing: %v", err)
	}
	if standing == nil {
		t.Fatal("Standing = nil for a ranked user")
	}
	if standing.Place != 2 || standing.TotalScore != 70 || standing.ChallengesSolved != 1 {
		t.Errorf("standing = %+v, want place 2, total 70, solved 1", standing)
	}

	standing, err = repo.Standing("nobody")
	if err != nil {
		t.Fatalf("Standing for unranked: %v", err)
	}
	if standing != nil {
		t.Errorf("standing = %+v, want nil for unranked user", standing)
	}
}

func TestUserRepositoryUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Upsert(&model.User{ID: "u1", Name: "Alice", Email: "a@example.com"}); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	if err := repo.Upsert(&model.User{ID: "u1", Name: "Alice Cooper", Email: "a@example.com"}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	user, err := repo.FindByID("u1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user.Name != "Alice Cooper" {
		t.Errorf("Name = %q, want updated name", user.Name)
	}

	var count int64
	db.Model(&model.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestChallengeRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewChallengeRepository(db)
	seedChallenge(t, db, 2)
	seedChallenge(t, db, 1)

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 2 || all[0].DayNumber != 1 || all[1].DayNumber != 2 {
		t.Errorf("FindAll not ordered by day: %+v", all)
	}

	byDay, err := repo.FindByDayNumber(2)
	if err != nil {
		t.Fatalf("FindByDayNumber: %v", err)
	}
	if byDay.DayNumber != 2 {
		t.Errorf("DayNumber = %d, want 2", byDay.DayNumber)
	}

	if _, err := repo.FindByDayNumber(9); err == nil {
		t.Error("FindByDayNumber(9) = nil error, want not found")
	}
}
