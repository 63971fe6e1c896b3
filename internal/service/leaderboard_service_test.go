package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"quizleader_backend/internal/model"
	"quizleader_backend/internal/repository"
	"quizleader_backend/internal/util"

	"gorm.io/gorm"
)

func newLeaderboardService(t *testing.T, db *gorm.DB) *LeaderboardService {
	t.Helper()
	_, rdb := newTestRedis(t)
	return NewLeaderboardService(repository.NewQuizAttemptRepository(db), rdb, 60*time.Second)
}

func rows(resp *util.PageResponse) []repository.LeaderboardRow {
	return resp.Results.([]repository.LeaderboardRow)
}

func seedCompletedAttempt(t *testing.T, db *gorm.DB, username string, lessonID uint, score uint) *model.User {
	t.Helper()
	var user model.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		user = *createUser(t, db, username)
	}
	createAttempt(t, db, user.ID, lessonID, score, true)
	return &user
}

func TestGlobalLeaderboardOrderingAndTieBreak(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")

	seedCompletedAttempt(t, db, "carol", lesson.ID, 10)
	seedCompletedAttempt(t, db, "alice", lesson.ID, 12)
	// bob 与 alice 同分，按用户名升序排在后面
	seedCompletedAttempt(t, db, "bob", lesson.ID, 12)

	resp, err := svc.GlobalLeaderboard(context.Background(), 1, 25)
	if err != nil {
		t.Fatalf("global leaderboard: %v", err)
	}
	got := rows(resp)
	want := []string{"alice", "bob", "carol"}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Username != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, got[i].Username)
		}
	}
}

func TestGlobalLeaderboardWindowCappedAtTwentyFive(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")
	for i := 0; i < 30; i++ {
		seedCompletedAttempt(t, db, fmt.Sprintf("player%02d", i), lesson.ID, uint(i))
	}

	resp, err := svc.GlobalLeaderboard(context.Background(), 1, 25)
	if err != nil {
		t.Fatalf("global leaderboard: %v", err)
	}
	if resp.Count != util.GlobalLeaderboardLimit {
		t.Fatalf("window must cap at %d, got %d", util.GlobalLeaderboardLimit, resp.Count)
	}
	// 低分的五人被挤出窗口
	for _, row := range rows(resp) {
		if row.HighScore < 5 {
			t.Fatalf("row %q with score %d should be outside the window", row.Username, row.HighScore)
		}
	}
}

func TestSubjectLeaderboardScopedAndCappedAtTen(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	maths := createSubject(t, db, "math")
	history := createSubject(t, db, "history")
	mathLesson := createLesson(t, db, maths.ID, "algebra")
	historyLesson := createLesson(t, db, history.ID, "rome")

	for i := 0; i < 12; i++ {
		seedCompletedAttempt(t, db, fmt.Sprintf("mathp%02d", i), mathLesson.ID, uint(i+1))
	}
	seedCompletedAttempt(t, db, "historian", historyLesson.ID, 15)

	resp, err := svc.SubjectLeaderboard(context.Background(), maths.ID, 1, 10)
	if err != nil {
		t.Fatalf("subject leaderboard: %v", err)
	}
	if resp.Count != util.SubjectLeaderboardLimit {
		t.Fatalf("subject window must cap at %d, got %d", util.SubjectLeaderboardLimit, resp.Count)
	}
	for _, row := range rows(resp) {
		if row.Username == "historian" {
			t.Fatalf("attempt from another subject leaked into the board")
		}
	}
}

func TestLeaderboardExcludesIncompleteAttempts(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")

	seedCompletedAttempt(t, db, "alice", lesson.ID, 5)
	bob := createUser(t, db, "bob")
	createAttempt(t, db, bob.ID, lesson.ID, 15, false)

	resp, err := svc.GlobalLeaderboard(context.Background(), 1, 25)
	if err != nil {
		t.Fatalf("global leaderboard: %v", err)
	}
	got := rows(resp)
	if len(got) != 1 || got[0].Username != "alice" {
		t.Fatalf("incomplete attempt must not rank, got %+v", got)
	}
}

func TestLeaderboardAggregatesPerUser(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")

	seedCompletedAttempt(t, db, "alice", lesson.ID, 10)
	seedCompletedAttempt(t, db, "alice", lesson.ID, 4)
	seedCompletedAttempt(t, db, "alice", lesson.ID, 7)

	resp, err := svc.GlobalLeaderboard(context.Background(), 1, 25)
	if err != nil {
		t.Fatalf("global leaderboard: %v", err)
	}
	got := rows(resp)
	if len(got) != 1 {
		t.Fatalf("expected one row, got %d", len(got))
	}
	row := got[0]
	if row.HighScore != 10 || row.TotalPlayed != 3 {
		t.Fatalf("expected high=10 total=3, got %+v", row)
	}
	if math.Abs(row.AvgScore-7.0) > 1e-9 {
		t.Fatalf("expected avg 7.0, got %v", row.AvgScore)
	}
}

func TestLeaderboardPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")
	for i := 0; i < 7; i++ {
		seedCompletedAttempt(t, db, fmt.Sprintf("player%d", i), lesson.ID, uint(10-i))
	}

	first, err := svc.GlobalLeaderboard(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(rows(first)) != 5 || first.Next == nil || first.Previous != nil {
		t.Fatalf("unexpected first page: %+v", first)
	}

	second, err := svc.GlobalLeaderboard(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(rows(second)) != 2 || second.Next != nil || second.Previous == nil {
		t.Fatalf("unexpected second page: %+v", second)
	}

	if _, err := svc.GlobalLeaderboard(context.Background(), 3, 5); !errors.Is(err, util.ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage past the window, got %v", err)
	}
}

func TestLeaderboardNoData(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	if _, err := svc.GlobalLeaderboard(context.Background(), 1, 25); !errors.Is(err, util.ErrNoLeaderboardData) {
		t.Fatalf("expected ErrNoLeaderboardData, got %v", err)
	}

	subject := createSubject(t, db, "math")
	if _, err := svc.SubjectLeaderboard(context.Background(), subject.ID, 1, 10); !errors.Is(err, util.ErrNoLeaderboardData) {
		t.Fatalf("expected ErrNoLeaderboardData for empty subject, got %v", err)
	}
}

func TestSubjectLeaderboardRejectsSubjectZero(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(t, db)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")
	seedCompletedAttempt(t, db, "alice", lesson.ID, 5)

	// 科目ID 0 不存在，不得退化成全局聚合
	if _, err := svc.SubjectLeaderboard(context.Background(), 0, 1, 10); !errors.Is(err, util.ErrNoLeaderboardData) {
		t.Fatalf("subject 0 must report no data, got %v", err)
	}
}

func TestLeaderboardServesCachedWindowUntilExpiry(t *testing.T) {
	db := newTestDB(t)

	mr, rdb := newTestRedis(t)
	svc := NewLeaderboardService(repository.NewQuizAttemptRepository(db), rdb, 60*time.Second)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")
	seedCompletedAttempt(t, db, "alice", lesson.ID, 5)

	if _, err := svc.GlobalLeaderboard(context.Background(), 1, 25); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	// 缓存命中期间，新成绩不可见
	seedCompletedAttempt(t, db, "bob", lesson.ID, 9)
	resp, err := svc.GlobalLeaderboard(context.Background(), 1, 25)
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if len(rows(resp)) != 1 {
		t.Fatalf("expected stale cached window of 1, got %d", len(rows(resp)))
	}

	// 过期后回源，bob 上榜
	mr.FastForward(61 * time.Second)
	resp, err = svc.GlobalLeaderboard(context.Background(), 1, 25)
	if err != nil {
		t.Fatalf("post-expiry read: %v", err)
	}
	got := rows(resp)
	if len(got) != 2 || got[0].Username != "bob" {
		t.Fatalf("expected refreshed window led by bob, got %+v", got)
	}
}

func TestLeaderboardFallsBackWhenCacheDown(t *testing.T) {
	db := newTestDB(t)

	mr, rdb := newTestRedis(t)
	svc := NewLeaderboardService(repository.NewQuizAttemptRepository(db), rdb, 60*time.Second)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")
	seedCompletedAttempt(t, db, "alice", lesson.ID, 5)

	mr.Close()

	resp, err := svc.GlobalLeaderboard(context.Background(), 1, 25)
	if err != nil {
		t.Fatalf("leaderboard must survive cache outage: %v", err)
	}
	if len(rows(resp)) != 1 {
		t.Fatalf("expected DB fallback result, got %+v", resp)
	}
}
