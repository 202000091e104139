package qabank

import (
	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
)

// Storage keys
const (
	BankKey     = "qa-bank-v1"
	SettingsKey = "qa-settings-v1"
)

// Question types
const (
	TypeMCQ   = "mcq"
	TypeShort = "short"
)

// Difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const DefaultTopic = "General"

var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

func validDifficulty(d string) bool {
	for _, diff := range Difficulties {
		if d == diff {
			return true
		}
	}
	return false
}

type Question struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"` // mcq only
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Topic       string   `json:"topic"`
	Difficulty  string   `json:"difficulty"`
}

// NewQuestion contains information needed to add a Question to the bank.
type NewQuestion struct {
	Type        string   `json:"type" validate:"required,oneof=mcq short"`
	Question    string   `json:"question" validate:"required,notblank"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Topic       string   `json:"topic"`
	Difficulty  string   `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Type = core.CleanString(nq.Type, true /* lower */)
	if nq.Type == "" {
		nq.Type = TypeMCQ
	}
	nq.Question = core.CleanString(nq.Question)
	nq.Topic = core.CleanString(nq.Topic)
	if nq.Topic == "" {
		nq.Topic = DefaultTopic
	}
	nq.Difficulty = core.CleanString(nq.Difficulty, true /* lower */)
	if nq.Difficulty == "" {
		nq.Difficulty = DifficultyEasy
	}
	if nq.Type == TypeMCQ {
		nq.Options = filledOptions(nq.Options)
	} else {
		nq.Options = nil
	}
	return validate.Struct(nq)
}

func filledOptions(opts []string) []string {
	filled := make([]string, 0, len(opts))
	for _, opt := range opts {
		if core.CleanString(opt) != "" {
			filled = append(filled, opt)
		}
	}
	return filled
}

type QueryFilter struct {
	Topic      string `query:"topic"`
	Difficulty string `query:"difficulty"`
}

func (qf *QueryFilter) Clean() {
	qf.Topic = core.CleanString(qf.Topic)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
}

func (qf QueryFilter) Match(q Question) bool {
	return (qf.Topic == "" || q.Topic == qf.Topic) && (qf.Difficulty == "" || q.Difficulty == qf.Difficulty)
}

// Settings are the quiz preferences, persisted under SettingsKey.
type Settings struct {
	ExamMode         bool `json:"examMode"`
	Shuffle          bool `json:"shuffle"`
	ShowExplanations bool `json:"showExplanations"`
}

func DefaultSettings() Settings {
	return Settings{ExamMode: false, Shuffle: true, ShowExplanations: true}
}

// Explanations reports whether answer explanations may be revealed. Exam mode always hides them.
func (s Settings) Explanations() bool {
	return s.ShowExplanations && !s.ExamMode
}

// UpdateSettings contains the settings to change; nil fields are left as they are.
type UpdateSettings struct {
	ExamMode         *bool `json:"examMode"`
	Shuffle          *bool `json:"shuffle"`
	ShowExplanations *bool `json:"showExplanations"`
}
