package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quizleader_backend/internal/model"
	"quizleader_backend/internal/repository"
	"quizleader_backend/internal/util"
	"quizleader_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 内容读缓存的TTL，写操作会整体冲掉 content:* 前缀
const contentCacheTTL = 15 * time.Minute

// ContentService 题库内容的CRUD：科目、课程、题目。
// 写操作仅管理员可达（路由层 RoleMiddleware 保证），读操作公开。
type ContentService struct {
	SubjectRepo  *repository.SubjectRepository
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	Redis        *redis.Client
}

func NewContentService(
	subjectRepo *repository.SubjectRepository,
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
) *ContentService {
	return &ContentService{
		SubjectRepo:  subjectRepo,
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		Redis:        rdb,
	}
}

func (s *ContentService) CreateSubject(name string) (*model.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("Subject name cannot be empty")
	}

	_, err := s.SubjectRepo.FindByName(name)
	if err == nil {
		return nil, util.ErrSubjectNameTaken
	}

	subject := &model.Subject{Name: name}
	if err := s.SubjectRepo.Create(subject); err != nil {
		return nil, err
	}
	s.flushContentCache()
	return subject, nil
}

func (s *ContentService) GetSubject(id uint) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrSubjectNotFound
	}
	return subject, nil
}

func (s *ContentService) ListSubjects(page, limit int) ([]model.Subject, int64, error) {
	return s.SubjectRepo.List(page, limit)
}

func (s *ContentService) DeleteSubject(id uint) error {
	if _, err := s.SubjectRepo.FindByID(id); err != nil {
		return util.ErrSubjectNotFound
	}
	if err := s.SubjectRepo.Delete(id); err != nil {
		return err
	}
	s.flushContentCache()
	return nil
}

func (s *ContentService) CreateLesson(subjectID uint, title string) (*model.Lesson, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, util.NewValidationError("Lesson title cannot be empty")
	}

	if _, err := s.SubjectRepo.FindByID(subjectID); err != nil {
		return nil, util.ErrSubjectNotFound
	}

	// (subject, title) 唯一
	if _, err := s.LessonRepo.FindBySubjectAndTitle(subjectID, title); err == nil {
		return nil, util.ErrLessonTitleTaken
	}

	lesson := &model.Lesson{Title: title, SubjectID: subjectID}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	s.flushContentCache()
	return s.LessonRepo.FindByID(lesson.ID)
}

// ListLessons 某科目下的课程列表，读穿缓存15分钟
func (s *ContentService) ListLessons(subjectID uint, page, limit int) ([]model.Lesson, int64, error) {
	cacheKey := fmt.Sprintf("content:lessons:%d:page:%d:size:%d", subjectID, page, limit)

	type cached struct {
		Lessons []model.Lesson `json:"lessons"`
		Total   int64          `json:"total"`
	}
	if val, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
		var c cached
		if json.Unmarshal([]byte(val), &c) == nil {
			return c.Lessons, c.Total, nil
		}
	}

	lessons, total, err := s.LessonRepo.ListBySubject(subjectID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if payload, err := json.Marshal(cached{Lessons: lessons, Total: total}); err == nil {
		if err := s.Redis.Set(context.Background(), cacheKey, payload, contentCacheTTL).Err(); err != nil {
			logger.Log.Warn("lesson cache write failed", zap.Error(err))
		}
	}
	return lessons, total, nil
}

func (s *ContentService) DeleteLesson(id uint) error {
	if _, err := s.LessonRepo.FindByID(id); err != nil {
		return util.ErrLessonNotFound
	}
	if err := s.LessonRepo.Delete(id); err != nil {
		return err
	}
	s.flushContentCache()
	return nil
}

type QuestionRequest struct {
	Text          string          `json:"text" binding:"required"`
	Options       model.OptionMap `json:"options" binding:"required"`
	CorrectAnswer int             `json:"correct_answer" binding:"required"`
}

// validateQuestion 选项必须恰好为 {"1","2","3"} 三个非空项，答案在1-3之间
func validateQuestion(req QuestionRequest) error {
	if len(req.Options) != util.OptionCount {
		return util.NewValidationError(`Must provide exactly 3 options numbered 1-3. Example: {"1": "option1", "2": "option2", "3": "option3"}`)
	}
	for i := 1; i <= util.OptionCount; i++ {
		option, ok := req.Options[fmt.Sprint(i)]
		if !ok {
			return util.NewValidationError(`Must provide exactly 3 options numbered 1-3. Example: {"1": "option1", "2": "option2", "3": "option3"}`)
		}
		if strings.TrimSpace(option) == "" {
			return util.NewValidationError("Options cannot be empty")
		}
	}
	if req.CorrectAnswer < 1 || req.CorrectAnswer > util.OptionCount {
		return util.NewValidationError("correct_answer must be 1, 2, or 3")
	}
	return nil
}

func (s *ContentService) CreateQuestion(lessonID uint, req QuestionRequest) (*model.Question, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}

	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	// 30题上限只在创建时生效，更新存量题目不受限
	count, err := s.QuestionRepo.CountByLesson(lesson.ID)
	if err != nil {
		return nil, err
	}
	if count >= util.LessonQuestionLimit {
		return nil, util.ErrQuestionLimit
	}

	question := &model.Question{
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		LessonID:      lesson.ID,
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	s.flushContentCache()
	return question, nil
}

func (s *ContentService) GetQuestion(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	return question, nil
}

func (s *ContentService) ListQuestions(lessonID uint, page, limit int) ([]model.Question, int64, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		return nil, 0, util.ErrLessonNotFound
	}
	return s.QuestionRepo.ListByLesson(lessonID, page, limit)
}

func (s *ContentService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	question.Text = req.Text
	question.Options = req.Options
	question.CorrectAnswer = req.CorrectAnswer
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	s.flushContentCache()
	return question, nil
}

func (s *ContentService) DeleteQuestion(id uint) error {
	if _, err := s.QuestionRepo.FindByID(id); err != nil {
		return util.ErrQuestionNotFound
	}
	if err := s.QuestionRepo.Delete(id); err != nil {
		return err
	}
	s.flushContentCache()
	return nil
}

// flushContentCache 内容变更后冲掉 content:* 缓存键。
// 排行榜缓存不在此列，只按TTL过期。
func (s *ContentService) flushContentCache() {
	ctx := context.Background()
	var cursor uint64
	for {
		keys, next, err := s.Redis.Scan(ctx, cursor, "content:*", 100).Result()
		if err != nil {
			logger.Log.Warn("content cache flush failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			s.Redis.Del(ctx, keys...)
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
