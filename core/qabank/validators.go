package qabank

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
)

var (
	minOptionsTag  = "mcqoptions"
	minOptionsText = "MCQ needs at least 2 options"

	answerInOptionsTag  = "mcqanswer"
	answerInOptionsText = "answer must match one of the options"

	shortAnswerTag  = "shortanswer"
	shortAnswerText = "answer required for short question"
)

// InitValidators registers the question bank validation rules.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(questionStructValidation, NewQuestion{})
	core.RegisterCustomTranslation(validate, translator, minOptionsTag, minOptionsText)
	core.RegisterCustomTranslation(validate, translator, answerInOptionsTag, answerInOptionsText)
	core.RegisterCustomTranslation(validate, translator, shortAnswerTag, shortAnswerText)
}

// questionStructValidation checks the answer against the question type:
// - mcq: at least 2 non-empty options, the answer being one of them
// - short: a non-blank answer
func questionStructValidation(sl validator.StructLevel) {
	nq, ok := sl.Current().Interface().(NewQuestion)
	if !ok {
		return
	}

	switch nq.Type {
	case TypeMCQ:
		filled := filledOptions(nq.Options)
		if len(filled) < 2 {
			sl.ReportError(nq.Options, "options", "Options", minOptionsTag, "")
			return
		}
		for _, opt := range filled {
			if opt == nq.Answer {
				return
			}
		}
		sl.ReportError(nq.Answer, "answer", "Answer", answerInOptionsTag, "")
	case TypeShort:
		if core.CleanString(nq.Answer) == "" {
			sl.ReportError(nq.Answer, "answer", "Answer", shortAnswerTag, "")
		}
	}
}
