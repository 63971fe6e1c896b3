package service

import (
	"errors"
	"fmt"
	"testing"

	"quizleader_backend/internal/model"
	"quizleader_backend/internal/util"
)

func validQuestionRequest() QuestionRequest {
	return QuestionRequest{
		Text:          "What is 2+2?",
		Options:       model.OptionMap{"1": "3", "2": "4", "3": "5"},
		CorrectAnswer: 2,
	}
}

func TestCreateSubjectRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newTestRedis(t)
	svc := newContentService(db, rdb)

	if _, err := svc.CreateSubject("math"); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	if _, err := svc.CreateSubject("math"); !errors.Is(err, util.ErrSubjectNameTaken) {
		t.Fatalf("expected ErrSubjectNameTaken, got %v", err)
	}
}

func TestCreateLessonUniquePerSubject(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newTestRedis(t)
	svc := newContentService(db, rdb)

	maths, err := svc.CreateSubject("math")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	history, err := svc.CreateSubject("history")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}

	if _, err := svc.CreateLesson(maths.ID, "intro"); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	if _, err := svc.CreateLesson(maths.ID, "intro"); !errors.Is(err, util.ErrLessonTitleTaken) {
		t.Fatalf("expected ErrLessonTitleTaken, got %v", err)
	}
	// 同名课程可以挂在不同科目下
	if _, err := svc.CreateLesson(history.ID, "intro"); err != nil {
		t.Fatalf("same title under another subject must pass: %v", err)
	}

	if _, err := svc.CreateLesson(999, "orphan"); !errors.Is(err, util.ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestCreateQuestionOptionInvariant(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newTestRedis(t)
	svc := newContentService(db, rdb)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")

	cases := []struct {
		name   string
		mutate func(*QuestionRequest)
	}{
		{"two options", func(r *QuestionRequest) {
			r.Options = model.OptionMap{"1": "a", "2": "b"}
		}},
		{"four options", func(r *QuestionRequest) {
			r.Options = model.OptionMap{"1": "a", "2": "b", "3": "c", "4": "d"}
		}},
		{"missing key three", func(r *QuestionRequest) {
			r.Options = model.OptionMap{"1": "a", "2": "b", "5": "c"}
		}},
		{"blank option", func(r *QuestionRequest) {
			r.Options = model.OptionMap{"1": "a", "2": "   ", "3": "c"}
		}},
		{"correct answer zero", func(r *QuestionRequest) {
			r.CorrectAnswer = 0
		}},
		{"correct answer four", func(r *QuestionRequest) {
			r.CorrectAnswer = 4
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validQuestionRequest()
			tc.mutate(&req)
			_, err := svc.CreateQuestion(lesson.ID, req)
			var vErr *util.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	// 全部被拒后不应有任何题目落库
	count := int64(-1)
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected questions must not persist, found %d", count)
	}
}

func TestCreateQuestionLessonCap(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newTestRedis(t)
	svc := newContentService(db, rdb)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")

	var last *model.Question
	for i := 0; i < util.LessonQuestionLimit; i++ {
		req := validQuestionRequest()
		req.Text = fmt.Sprintf("question %d", i)
		q, err := svc.CreateQuestion(lesson.ID, req)
		if err != nil {
			t.Fatalf("create question %d: %v", i, err)
		}
		last = q
	}

	if _, err := svc.CreateQuestion(lesson.ID, validQuestionRequest()); !errors.Is(err, util.ErrQuestionLimit) {
		t.Fatalf("expected ErrQuestionLimit past the cap, got %v", err)
	}

	// 上限只卡新建，满额课程里的存量题仍可更新
	req := validQuestionRequest()
	req.Text = "updated text"
	updated, err := svc.UpdateQuestion(last.ID, req)
	if err != nil {
		t.Fatalf("update at cap must pass: %v", err)
	}
	if updated.Text != "updated text" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestListLessonsCachedAndFlushedOnWrite(t *testing.T) {
	db := newTestDB(t)
	mr, rdb := newTestRedis(t)
	svc := newContentService(db, rdb)

	subject := createSubject(t, db, "math")
	createLesson(t, db, subject.ID, "algebra")

	lessons, total, err := svc.ListLessons(subject.ID, 1, 10)
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	if total != 1 || len(lessons) != 1 {
		t.Fatalf("expected one lesson, got total=%d len=%d", total, len(lessons))
	}
	if !mr.Exists(fmt.Sprintf("content:lessons:%d:page:1:size:10", subject.ID)) {
		t.Fatalf("lesson list was not cached")
	}

	// 绕过服务直插一条，命中缓存时应看不到
	createLesson(t, db, subject.ID, "geometry")
	_, total, err = svc.ListLessons(subject.ID, 1, 10)
	if err != nil {
		t.Fatalf("cached list: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected cached total=1, got %d", total)
	}

	// 任何内容写入都会冲掉 content:* 缓存
	if _, err := svc.CreateLesson(subject.ID, "calculus"); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	_, total, err = svc.ListLessons(subject.ID, 1, 10)
	if err != nil {
		t.Fatalf("refreshed list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected refreshed total=3, got %d", total)
	}
}

func TestDeleteQuestion(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newTestRedis(t)
	svc := newContentService(db, rdb)

	subject := createSubject(t, db, "math")
	lesson := createLesson(t, db, subject.ID, "algebra")
	q := createQuestion(t, db, lesson.ID, 1)

	if err := svc.DeleteQuestion(q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if _, err := svc.GetQuestion(q.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound after delete, got %v", err)
	}
	if err := svc.DeleteQuestion(q.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("double delete must report not found, got %v", err)
	}
}
