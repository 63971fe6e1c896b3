package service

import (
	"fmt"
	"strings"
	"testing"

	"quizleader_backend/internal/model"
	"quizleader_backend/internal/repository"
	"quizleader_backend/pkg/database"
	"quizleader_backend/pkg/logger"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

// newTestDB 每个测试独立的共享缓存内存库，busy timeout 兜底并发事务
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// 单连接池把并发事务在连接层串行化，避开 sqlite 共享缓存的表锁
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func newQuizService(db *gorm.DB) *QuizService {
	return NewQuizService(
		repository.NewLessonRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewQuizAttemptRepository(db),
		repository.NewUserRepository(db),
		db,
	)
}

func newContentService(db *gorm.DB, rdb *redis.Client) *ContentService {
	return NewContentService(
		repository.NewSubjectRepository(db),
		repository.NewLessonRepository(db),
		repository.NewQuestionRepository(db),
		rdb,
	)
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: "x", Role: model.Player}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createSubject(t *testing.T, db *gorm.DB, name string) *model.Subject {
	t.Helper()
	subject := &model.Subject{Name: name}
	if err := db.Create(subject).Error; err != nil {
		t.Fatalf("create subject: %v", err)
	}
	return subject
}

func createLesson(t *testing.T, db *gorm.DB, subjectID uint, title string) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{Title: title, SubjectID: subjectID}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return lesson
}

func createQuestion(t *testing.T, db *gorm.DB, lessonID uint, correct int) *model.Question {
	t.Helper()
	question := &model.Question{
		Text:          fmt.Sprintf("question for lesson %d", lessonID),
		Options:       model.OptionMap{"1": "a", "2": "b", "3": "c"},
		CorrectAnswer: correct,
		LessonID:      lessonID,
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return question
}

func createAttempt(t *testing.T, db *gorm.DB, userID, lessonID uint, score uint, completed bool) *model.QuizAttempt {
	t.Helper()
	attempt := &model.QuizAttempt{UserID: userID, LessonID: lessonID, Score: score, Completed: completed}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	return attempt
}
