package quiz

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/qabank"
)

// DefaultCount is the number of questions picked when Filters.Count is not set.
const DefaultCount = 5

var (
	// errors
	ErrNoQuestions     = errors.New("no questions match these filters")
	ErrInvalidState    = errors.New("a quiz session is already running")
	ErrNotInProgress   = errors.New("quiz session is not in progress")
	ErrNotStarted      = errors.New("no quiz session started")
	ErrUnknownQuestion = errors.New("question is not part of this session")
)

type State string

const (
	StateIdle       State = "idle"
	StateInProgress State = "inProgress"
	StateSubmitted  State = "submitted"
)

type Filters struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count" validate:"gte=0,lte=50"`
}

// Session is one run through a set of questions: Idle -> InProgress -> Submitted -> Idle.
// Session is not safe for concurrent use; see Manager.
type Session struct {
	state     State
	questions []qabank.Question
	index     int
	answers   map[string]string
	result    *Result
	startedAt time.Time
	rnd       *rand.Rand
	nowFunc   func() time.Time
}

func NewSession(rnd *rand.Rand) *Session {
	return &Session{state: StateIdle, rnd: rnd, nowFunc: time.Now}
}

func (s *Session) State() State { return s.state }

// Start picks the questions of bank matching filters, shuffled when asked, and begins the session.
// At least one question is picked and at most filters.Count.
func (s *Session) Start(bank []qabank.Question, filters Filters, shuffle bool) error {
	if s.state != StateIdle {
		return ErrInvalidState
	}

	qf := qabank.QueryFilter{Topic: filters.Topic, Difficulty: filters.Difficulty}
	qf.Clean()
	list := make([]qabank.Question, 0, len(bank))
	for _, q := range bank {
		if qf.Match(q) {
			list = append(list, q)
		}
	}
	if len(list) == 0 {
		return ErrNoQuestions
	}
	if shuffle {
		s.rnd.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	}

	count := filters.Count
	if count <= 0 {
		count = DefaultCount
	}
	if count > len(list) {
		count = len(list)
	}

	s.questions = list[:count]
	s.index = 0
	s.answers = make(map[string]string, count)
	s.result = nil
	s.startedAt = s.nowFunc()
	s.state = StateInProgress
	return nil
}

func (s *Session) question(id string) (qabank.Question, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return qabank.Question{}, false
}

// Answer records value as the answer to the question id, replacing any previous one.
func (s *Session) Answer(questionID, value string) error {
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if _, ok := s.question(questionID); !ok {
		return ErrUnknownQuestion
	}
	s.answers[questionID] = value
	return nil
}

// Next moves to the following question, staying put on the last one.
func (s *Session) Next() error {
	if s.state == StateIdle {
		return ErrNotStarted
	}
	if s.index < len(s.questions)-1 {
		s.index++
	}
	return nil
}

// Prev moves to the previous question, staying put on the first one.
func (s *Session) Prev() error {
	if s.state == StateIdle {
		return ErrNotStarted
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Progress is the share of questions before the current one, as a rounded percentage.
func (s *Session) Progress() int {
	if len(s.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.index) / float64(len(s.questions)) * 100))
}

// Submit grades the recorded answers and ends the session.
func (s *Session) Submit() (Result, error) {
	if s.state != StateInProgress {
		return Result{}, ErrNotInProgress
	}

	res := Result{Total: len(s.questions), Review: make([]Review, 0, len(s.questions))}
	for _, q := range s.questions {
		given := s.answers[q.ID]
		correct := core.EqualFold(given, q.Answer)
		if correct {
			res.Score++
		}
		res.Review = append(res.Review, Review{
			QuestionID:  q.ID,
			Given:       given,
			Answer:      q.Answer,
			Correct:     correct,
			Explanation: q.Explanation,
		})
	}
	res.Percent = int(math.Round(float64(res.Score) / float64(res.Total) * 100))
	res.Duration = s.nowFunc().Sub(s.startedAt)

	s.result = &res
	s.state = StateSubmitted
	return res, nil
}

// Reset discards the session.
func (s *Session) Reset() {
	s.state = StateIdle
	s.questions = nil
	s.index = 0
	s.answers = nil
	s.result = nil
}

// Review is the grading of one question.
type Review struct {
	QuestionID  string `json:"questionId"`
	Given       string `json:"given"`
	Answer      string `json:"answer"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

type Result struct {
	Score    int           `json:"score"`
	Total    int           `json:"total"`
	Percent  int           `json:"percent"`
	Duration time.Duration `json:"duration"`
	Review   []Review      `json:"review"`
}

// WithoutExplanations returns a copy of r whose review carries no explanations.
func (r Result) WithoutExplanations() Result {
	review := make([]Review, len(r.Review))
	for i, rv := range r.Review {
		rv.Explanation = ""
		review[i] = rv
	}
	r.Review = review
	return r
}
