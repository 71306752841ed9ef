package quizfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quiz-admin/internal/domain"
)

const capitals = `
title: Capitals
description: European capitals
questions:
  - text: Capital of France?
    time_limit: 20
    answers: [Berlin, Paris, Rome, Madrid]
    correct: 1
  - text: Capital of Italy?
    answers: [Rome, Milan, Turin, Naples]
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capitals.yaml")
	if err := os.WriteFile(path, []byte(capitals), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if file.Meta() != (domain.QuizMeta{Title: "Capitals", Description: "European capitals"}) {
		t.Fatalf("unexpected meta: %+v", file.Meta())
	}

	records := file.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TimeLimitSeconds != 20 || records[0].CorrectIndex != 1 || records[0].Answers[1].Text != "Paris" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].TimeLimitSeconds != domain.DefaultTimeLimitSeconds || records[1].CorrectIndex != 0 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestDecodeRejectsBadQuestions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "three answers",
			body: "questions:\n  - text: q\n    answers: [a, b, c]\n",
			want: domain.ErrAnswerCount,
		},
		{
			name: "correct out of range",
			body: "questions:\n  - text: q\n    answers: [a, b, c, d]\n    correct: 4\n",
			want: domain.ErrAnswerIndexOutOfRange,
		},
		{
			name: "time limit too long",
			body: "questions:\n  - text: q\n    time_limit: 200\n    answers: [a, b, c, d]\n",
			want: domain.ErrTimeLimitOutOfRange,
		},
		{
			name: "time limit too short",
			body: "questions:\n  - text: q\n    time_limit: 3\n    answers: [a, b, c, d]\n",
			want: domain.ErrTimeLimitOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.body)); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeUnknownField(t *testing.T) {
	if _, err := Decode(strings.NewReader("titel: typo\n")); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDecodeEmpty(t *testing.T) {
	file, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(file.Records()) != 0 {
		t.Fatalf("expected no questions")
	}
}
