package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/graphenelabs/graphbot/internal/model"
)

func quizFixture(t *testing.T) (*Quiz, *Tasks) {
	t.Helper()
	tasks := NewTasks(newFakeTasks(), nil)
	if _, err := tasks.EnsureTasks(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	return NewQuiz(tasks, nil, time.Minute), tasks
}

// answerAll plays the active session, answering correctly for the first
// n questions and incorrectly for the rest.
func answerAll(t *testing.T, q *Quiz, userID int64, view QuestionView, n int) AnswerResult {
	t.Helper()
	ctx := context.Background()
	var res AnswerResult
	for i := 0; i < len(DefaultQuestions); i++ {
		choice := view.Question.Correct
		if i >= n {
			choice = (view.Question.Correct + 1) % len(view.Question.Options)
		}
		var err error
		res, err = q.Answer(ctx, userID, view.SessionID, choice)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if res.Next != nil {
			view = *res.Next
		}
	}
	return res
}

func TestQuizAllCorrectPasses(t *testing.T) {
	q, tasks := quizFixture(t)
	ctx := context.Background()

	view := q.Start(ctx, 1)
	if view.Index != 0 || view.Total != len(DefaultQuestions) {
		t.Fatalf("start view = %d/%d, want 0/%d", view.Index, view.Total, len(DefaultQuestions))
	}

	res := answerAll(t, q, 1, view, len(DefaultQuestions))
	if !res.Finished || !res.Passed {
		t.Fatalf("all correct: finished=%v passed=%v", res.Finished, res.Passed)
	}
	if res.CorrectCount != len(DefaultQuestions) {
		t.Errorf("correct = %d, want %d", res.CorrectCount, len(DefaultQuestions))
	}

	out, err := tasks.Complete(ctx, 1, model.TaskCompleteQuiz)
	if err != nil {
		t.Fatal(err)
	}
	if out != model.CompleteAlreadyDone {
		t.Error("passing the quiz must complete the complete_quiz task")
	}
}

func TestQuizOneCorrectFails(t *testing.T) {
	q, tasks := quizFixture(t)
	ctx := context.Background()

	res := answerAll(t, q, 1, q.Start(ctx, 1), 1)
	if !res.Finished || res.Passed {
		t.Fatalf("one correct: finished=%v passed=%v, want finished and failed", res.Finished, res.Passed)
	}

	out, err := tasks.Complete(ctx, 1, model.TaskCompleteQuiz)
	if err != nil {
		t.Fatal(err)
	}
	if out != model.CompleteNewlyDone {
		t.Error("failed quiz must leave complete_quiz incomplete")
	}
}

func TestQuizTwoOfThreePasses(t *testing.T) {
	q, _ := quizFixture(t)
	res := answerAll(t, q, 1, q.Start(context.Background(), 1), 2)
	if !res.Passed {
		t.Fatalf("2/3 correct must pass (threshold %d)", q.PassThreshold())
	}
}

func TestQuizAnswerWithoutSession(t *testing.T) {
	q, _ := quizFixture(t)
	_, err := q.Answer(context.Background(), 1, "nope", 0)
	if !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestQuizRestartReplacesSession(t *testing.T) {
	q, _ := quizFixture(t)
	ctx := context.Background()

	old := q.Start(ctx, 1)
	fresh := q.Start(ctx, 1)
	if old.SessionID == fresh.SessionID {
		t.Fatal("restart must mint a new session id")
	}

	if _, err := q.Answer(ctx, 1, old.SessionID, 0); !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("stale session answer: err = %v, want ErrSessionExpired", err)
	}
	if _, err := q.Answer(ctx, 1, fresh.SessionID, 0); err != nil {
		t.Fatalf("fresh session answer: %v", err)
	}
}

func TestQuizSessionExpiry(t *testing.T) {
	tasks := NewTasks(newFakeTasks(), nil)
	q := NewQuiz(tasks, nil, time.Millisecond)

	view := q.Start(context.Background(), 1)
	time.Sleep(5 * time.Millisecond)

	if _, err := q.Answer(context.Background(), 1, view.SessionID, 0); !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("expired session answer: err = %v, want ErrSessionExpired", err)
	}
}

func TestQuizSweep(t *testing.T) {
	tasks := NewTasks(newFakeTasks(), nil)
	q := NewQuiz(tasks, nil, time.Millisecond)

	q.Start(context.Background(), 1)
	q.Start(context.Background(), 2)
	time.Sleep(5 * time.Millisecond)

	if removed := q.Sweep(); removed != 2 {
		t.Fatalf("Sweep removed %d sessions, want 2", removed)
	}
	if removed := q.Sweep(); removed != 0 {
		t.Fatalf("second Sweep removed %d sessions, want 0", removed)
	}
}

func TestQuizAbandon(t *testing.T) {
	q, _ := quizFixture(t)
	view := q.Start(context.Background(), 1)
	q.Abandon(1)

	if _, err := q.Answer(context.Background(), 1, view.SessionID, 0); !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("abandoned session answer: err = %v, want ErrSessionExpired", err)
	}
}
