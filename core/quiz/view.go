package quiz

import "github.com/Tawhide16/CampusKit/core/qabank"

// QuestionView is a question as shown while answering: answer and explanation stay hidden until submission.
type QuestionView struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Topic       string   `json:"topic"`
	Difficulty  string   `json:"difficulty"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

type View struct {
	State    State             `json:"state"`
	Index    int               `json:"index"`
	Total    int               `json:"total"`
	Progress int               `json:"progress"`
	ExamMode bool              `json:"examMode"`
	Current  *QuestionView     `json:"current,omitempty"`
	Answers  map[string]string `json:"answers,omitempty"`
	Result   *Result           `json:"result,omitempty"`
}

// View renders the session under settings.
func (s *Session) View(settings qabank.Settings) View {
	v := View{
		State:    s.state,
		Index:    s.index,
		Total:    len(s.questions),
		Progress: s.Progress(),
		ExamMode: settings.ExamMode,
	}
	if s.state == StateIdle {
		return v
	}

	q := s.questions[s.index]
	v.Current = &QuestionView{
		ID:         q.ID,
		Type:       q.Type,
		Question:   q.Question,
		Options:    q.Options,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
	}
	v.Answers = make(map[string]string, len(s.answers))
	for id, ans := range s.answers {
		v.Answers[id] = ans
	}

	if s.state == StateSubmitted && s.result != nil {
		v.Current.Answer = q.Answer
		res := *s.result
		if settings.Explanations() {
			v.Current.Explanation = q.Explanation
		} else {
			res = res.WithoutExplanations()
		}
		v.Result = &res
	}
	return v
}
