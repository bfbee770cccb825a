package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/internal/model"
)

// Question is one quiz entry with its answer options.
type Question struct {
	Text    string
	Options []string
	Correct int
}

// DefaultQuestions is the fixed bank, asked in order.
var DefaultQuestions = []Question{
	{
		Text: "Что такое графен?",
		Options: []string{
			"Трехмерная форма углерода",
			"Двумерная форма углерода толщиной в один атом",
			"Жидкая форма углерода",
			"Газообразная форма углерода",
		},
		Correct: 1,
	},
	{
		Text: "Кто открыл графен?",
		Options: []string{
			"Альберт Эйнштейн",
			"Андрей Гейм и Константин Новоселов",
			"Мария Кюри",
			"Никола Тесла",
		},
		Correct: 1,
	},
	{
		Text: "Какое свойство НЕ характерно для графена?",
		Options: []string{
			"Высокая электропроводность",
			"Высокая теплопроводность",
			"Высокая радиоактивность",
			"Высокая прочность",
		},
		Correct: 2,
	},
}

type quizSession struct {
	id       string
	index    int
	correct  int
	touched  time.Time
}

// QuestionView is what the conversation layer renders for one question.
type QuestionView struct {
	SessionID string
	Index     int
	Total     int
	Question  Question
}

// AnswerResult reports the effect of one answer.
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	Finished      bool
	Passed        bool
	CorrectCount  int
	Total         int
	// Next is set while the quiz continues.
	Next *QuestionView
}

// quizTaskCompleter is the slice of the task tracker the quiz needs.
type quizTaskCompleter interface {
	Complete(ctx context.Context, id int64, kind model.TaskKind) (model.CompleteOutcome, error)
}

// Quiz runs the in-memory question/answer sessions. One session per user;
// a new start replaces any previous session. Sessions expire after TTL.
type Quiz struct {
	mu        sync.Mutex
	sessions  map[int64]*quizSession
	questions []Question
	ttl       time.Duration
	tasks     quizTaskCompleter
	rec       metrics.Recorder
}

// NewQuiz creates the quiz engine. A zero ttl defaults to 15 minutes.
func NewQuiz(tasks quizTaskCompleter, rec metrics.Recorder, ttl time.Duration) *Quiz {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if rec == nil {
		rec = metrics.Nop()
	}
	return &Quiz{
		sessions:  make(map[int64]*quizSession),
		questions: DefaultQuestions,
		ttl:       ttl,
		tasks:     tasks,
		rec:       rec,
	}
}

// PassThreshold is the minimum number of correct answers.
func (q *Quiz) PassThreshold() int {
	return (len(q.questions) + 1) / 2
}

// Start begins a fresh session for the user, replacing any existing one,
// and returns the first question.
func (q *Quiz) Start(ctx context.Context, userID int64) QuestionView {
	s := &quizSession{
		id:      uuid.NewString(),
		touched: time.Now(),
	}
	q.mu.Lock()
	q.sessions[userID] = s
	q.mu.Unlock()

	logger.Debug(ctx, "service.quiz", "quiz.started",
		slog.Int64("user_id", userID),
		slog.String("session_id", s.id),
	)
	return QuestionView{
		SessionID: s.id,
		Index:     0,
		Total:     len(q.questions),
		Question:  q.questions[0],
	}
}

// Answer applies one answer to the user's active session. A missing,
// expired, or replaced session yields model.ErrSessionExpired; the button
// the user pressed belongs to a quiz that no longer exists.
func (q *Quiz) Answer(ctx context.Context, userID int64, sessionID string, choice int) (AnswerResult, error) {
	q.mu.Lock()
	s, ok := q.sessions[userID]
	if !ok || s.id != sessionID || time.Since(s.touched) > q.ttl {
		if ok && time.Since(s.touched) > q.ttl {
			delete(q.sessions, userID)
		}
		q.mu.Unlock()
		return AnswerResult{}, model.ErrSessionExpired
	}

	question := q.questions[s.index]
	correct := choice == question.Correct
	if correct {
		s.correct++
	}
	s.index++
	s.touched = time.Now()

	finished := s.index == len(q.questions)
	correctCount := s.correct
	if finished {
		delete(q.sessions, userID)
	}
	next := s.index
	nextID := s.id
	q.mu.Unlock()

	res := AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.Options[question.Correct],
		CorrectCount:  correctCount,
		Total:         len(q.questions),
	}
	if !finished {
		res.Next = &QuestionView{
			SessionID: nextID,
			Index:     next,
			Total:     len(q.questions),
			Question:  q.questions[next],
		}
		return res, nil
	}

	res.Finished = true
	res.Passed = correctCount >= q.PassThreshold()
	q.rec.RecordQuizFinished(res.Passed)
	logger.Info(ctx, "service.quiz", "quiz.finished",
		slog.Int64("user_id", userID),
		slog.Int("correct", correctCount),
		slog.Bool("passed", res.Passed),
	)

	if res.Passed {
		if _, err := q.tasks.Complete(ctx, userID, model.TaskCompleteQuiz); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Abandon drops any active session for the user.
func (q *Quiz) Abandon(userID int64) {
	q.mu.Lock()
	delete(q.sessions, userID)
	q.mu.Unlock()
}

// Sweep evicts sessions idle longer than the TTL and returns the count.
func (q *Quiz) Sweep() int {
	cutoff := time.Now().Add(-q.ttl)
	q.mu.Lock()
	defer q.mu.Unlock()
	removed := 0
	for id, s := range q.sessions {
		if s.touched.Before(cutoff) {
			delete(q.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps periodically until ctx is done.
func (q *Quiz) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(q.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := q.Sweep(); removed > 0 {
				logger.Debug(ctx, "service.quiz", "quiz.swept",
					slog.Int("removed", removed),
				)
			}
		}
	}
}
