// Package quizfile reads quiz definitions written in YAML.
//
//	title: Capitals
//	description: European capitals
//	questions:
//	  - text: Capital of France?
//	    time_limit: 20
//	    answers: [Berlin, Paris, Rome, Madrid]
//	    correct: 1
package quizfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"quiz-admin/internal/domain"
)

type File struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Questions   []Question `yaml:"questions"`
}

type Question struct {
	Text      string   `yaml:"text"`
	TimeLimit int      `yaml:"time_limit"`
	Answers   []string `yaml:"answers"`
	Correct   int      `yaml:"correct"`
}

// Load parses the quiz file at path.
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and checks a quiz definition. Omitted time limits get the default.
func Decode(r io.Reader) (File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parse quiz file: %w", err)
	}
	for i := range file.Questions {
		q := &file.Questions[i]
		if len(q.Answers) != domain.AnswersPerQuestion {
			return File{}, fmt.Errorf("question %d: %w", i+1, domain.ErrAnswerCount)
		}
		if q.Correct < 0 || q.Correct >= domain.AnswersPerQuestion {
			return File{}, fmt.Errorf("question %d: %w", i+1, domain.ErrAnswerIndexOutOfRange)
		}
		if q.TimeLimit == 0 {
			q.TimeLimit = domain.DefaultTimeLimitSeconds
		}
		if q.TimeLimit < domain.MinTimeLimitSeconds || q.TimeLimit > domain.MaxTimeLimitSeconds {
			return File{}, fmt.Errorf("question %d: %w", i+1, domain.ErrTimeLimitOutOfRange)
		}
	}
	return file, nil
}

func (f File) Meta() domain.QuizMeta {
	return domain.QuizMeta{Title: f.Title, Description: f.Description}
}

// Records converts the questions to editor records. Ids are assigned by the editor on load.
func (f File) Records() []domain.QuestionRecord {
	records := make([]domain.QuestionRecord, 0, len(f.Questions))
	for _, q := range f.Questions {
		rec := domain.QuestionRecord{
			Text:             q.Text,
			TimeLimitSeconds: q.TimeLimit,
			CorrectIndex:     q.Correct,
		}
		for j, text := range q.Answers {
			rec.Answers[j].Text = text
		}
		records = append(records, rec)
	}
	return records
}
