package util

import "errors"

var (
	ErrUsernameTaken      = errors.New("Username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSubjectNotFound    = errors.New("Subject not found")
	ErrSubjectNameTaken   = errors.New("A subject with this name already exists")
	ErrLessonNotFound     = errors.New("Lesson not found")
	ErrLessonTitleTaken   = errors.New("A lesson with this title already exists in the subject")
	ErrQuestionNotFound   = errors.New("Question not found")
	ErrQuestionLimit      = errors.New("A lesson cannot have more than 30 questions")
	ErrAttemptNotFound    = errors.New("Quiz attempt not found")
	ErrAttemptCompleted   = errors.New("Quiz already completed")
	ErrNoLeaderboardData  = errors.New("No data found")
	ErrInvalidPage        = errors.New("Invalid page")
)
