package domain

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// QuestionType tags how a question is presented and checked.
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionNumber         QuestionType = "number"
	QuestionMusic          QuestionType = "music"
	QuestionVideo          QuestionType = "video"
	QuestionImage          QuestionType = "image"
)

// DefaultPlaySeconds is how long a media clip plays when the record does not say.
const DefaultPlaySeconds = 10

// Difficulty ranks run from 1 (easiest) to 3 (hardest).
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMultipleChoice, QuestionNumber, QuestionMusic, QuestionVideo, QuestionImage:
		return true
	}
	return false
}

// AnswerText is a reference answer. Bank files may carry numeric answers unquoted.
type AnswerText string

// UnmarshalJSON accepts both JSON strings and numbers.
func (a *AnswerText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = AnswerText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = AnswerText(n.String())
	return nil
}

// Question is a single quiz question. Optional fields are only meaningful for their type.
type Question struct {
	ID              string       `json:"id" yaml:"id"`
	Type            QuestionType `json:"type" yaml:"type"`
	Question        string       `json:"question" yaml:"question"`
	Answer          AnswerText   `json:"answer" yaml:"answer"`
	Options         []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Tolerance       float64      `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	Song            string       `json:"song,omitempty" yaml:"song,omitempty"`
	Artist          string       `json:"artist,omitempty" yaml:"artist,omitempty"`
	ClipTitle       string       `json:"clipTitle,omitempty" yaml:"clipTitle,omitempty"`
	ClipSource      string       `json:"clipSource,omitempty" yaml:"clipSource,omitempty"`
	ImageURL        string       `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	ImageCredit     string       `json:"imageCredit,omitempty" yaml:"imageCredit,omitempty"`
	YouTubeID       string       `json:"youtubeId,omitempty" yaml:"youtubeId,omitempty"`
	PlaySeconds     int          `json:"playSeconds,omitempty" yaml:"playSeconds,omitempty"`
	Difficulty      int          `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	AcceptedAnswers []string     `json:"acceptedAnswers,omitempty" yaml:"acceptedAnswers,omitempty"`
}

// NewQuestionID returns a time-ordered id with a random component.
func NewQuestionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// WithDefaults fills in the id, type and media defaults. It never fails.
func (q Question) WithDefaults() Question {
	if strings.TrimSpace(q.ID) == "" {
		q.ID = NewQuestionID()
	}
	q.Type = QuestionType(strings.ToLower(strings.TrimSpace(string(q.Type))))
	if !q.Type.Valid() {
		q.Type = QuestionText
	}
	if q.PlaySeconds <= 0 {
		q.PlaySeconds = DefaultPlaySeconds
	}
	if q.Tolerance < 0 {
		q.Tolerance = -q.Tolerance
	}
	if q.Difficulty < 0 || q.Difficulty > DifficultyHard {
		q.Difficulty = 0
	}
	return q
}

// Rank is the difficulty used to order questions inside a category.
func (q Question) Rank() int {
	if q.Difficulty >= DifficultyEasy && q.Difficulty <= DifficultyHard {
		return q.Difficulty
	}
	switch q.Type {
	case QuestionMultipleChoice:
		return DifficultyEasy
	case QuestionNumber:
		if q.Tolerance == 0 {
			return DifficultyHard
		}
	}
	return DifficultyMedium
}

// String returns the reference answer as text.
func (a AnswerText) String() string {
	return string(a)
}
