package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"quizleader_backend/internal/model"
	"quizleader_backend/internal/repository"
	"quizleader_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.QuizAttemptRepository
	UserRepo     *repository.UserRepository
	DB           *gorm.DB
}

func NewQuizService(
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.QuizAttemptRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		UserRepo:     userRepo,
		DB:           db,
	}
}

// QuizQuestion 随题目下发给玩家的字段，不含正确答案
type QuizQuestion struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Options model.OptionMap `json:"options"`
}

type StartQuizResult struct {
	AttemptID uint           `json:"attempt_id"`
	Questions []QuizQuestion `json:"questions"`
}

// sampleIDs 从全部ID中等概率抽取最多 n 个（Fisher-Yates 前缀）
func sampleIDs(ids []uint, n int) []uint {
	if len(ids) <= n {
		return ids
	}
	shuffled := make([]uint, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// StartQuiz 为课程开一局测验：抽最多15道题，落一条未完成的 attempt。
// 课程没有题目不算错误，照样开局（空题集）。
func (s *QuizService) StartQuiz(userID, lessonID uint) (*StartQuizResult, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	ids, err := s.QuestionRepo.IDsByLesson(lesson.ID)
	if err != nil {
		return nil, err
	}

	selected := sampleIDs(ids, util.QuizQuestionCount)

	questions, err := s.QuestionRepo.FindByIDs(selected)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		UserID:   userID,
		LessonID: lesson.ID,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	result := &StartQuizResult{
		AttemptID: attempt.ID,
		Questions: make([]QuizQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		result.Questions = append(result.Questions, QuizQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
		})
	}
	return result, nil
}

// parseAnswers 校验提交格式：键为题目ID数字串，值为 "1"/"2"/"3"
func parseAnswers(answers map[string]string) (map[uint]int, []uint, error) {
	if len(answers) == 0 {
		return nil, nil, util.NewValidationError("Answers dictionary cannot be empty")
	}

	parsed := make(map[uint]int, len(answers))
	ids := make([]uint, 0, len(answers))
	for questionID, selectedOption := range answers {
		qid, err := strconv.ParseUint(questionID, 10, 32)
		if err != nil {
			return nil, nil, util.NewValidationError("Invalid input format")
		}
		opt, err := strconv.Atoi(selectedOption)
		if err != nil {
			return nil, nil, util.NewValidationError("Invalid input format")
		}
		if opt < 1 || opt > util.OptionCount {
			return nil, nil, util.NewValidationError(
				fmt.Sprintf("Invalid option for question %s. Must be 1, 2, or 3", questionID))
		}
		parsed[uint(qid)] = opt
		ids = append(ids, uint(qid))
	}
	return parsed, ids, nil
}

// SubmitQuiz 对 attempt 评分并封存，同事务内更新用户统计。
// 行锁把同一 attempt 的并发提交串行化：后到的事务看到 completed=true 被拒，
// 不同 attempt 之间互不阻塞。
// 先取 attempt 再校验答案：对不存在的 attempt，格式多烂也报 not found。
func (s *QuizService) SubmitQuiz(userID, attemptID uint, answers map[string]string) (*model.QuizAttempt, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		attempt, err := s.AttemptRepo.FindForUpdate(tx, attemptID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrAttemptNotFound
			}
			return err
		}

		if attempt.Completed {
			return util.ErrAttemptCompleted
		}

		parsed, ids, err := parseAnswers(answers)
		if err != nil {
			return err
		}

		// 提交的ID必须全部真实存在（全库范围，沿用原有口径，不限定本课程）
		existing, err := s.QuestionRepo.CountExisting(tx, ids)
		if err != nil {
			return err
		}
		if existing != int64(len(ids)) {
			return util.NewValidationError("Invalid question IDs provided")
		}

		keys, err := s.QuestionRepo.AnswerKeysByIDs(tx, ids)
		if err != nil {
			return err
		}

		var score uint
		for _, key := range keys {
			if parsed[key.ID] == key.CorrectAnswer {
				score++
			}
		}

		attempt.Score = score
		attempt.Completed = true
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}

		return s.UserRepo.ApplyAttemptResult(tx, userID, score)
	})
	if err != nil {
		return nil, err
	}

	return s.AttemptRepo.FindByID(attemptID)
}

// ListAttempts 当前用户的历史对局
func (s *QuizService) ListAttempts(userID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	return s.AttemptRepo.ListByUser(userID, page, limit)
}
