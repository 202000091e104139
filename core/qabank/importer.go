package qabank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tawhide16/CampusKit/core"
)

var (
	ErrInvalidImport = errors.New("JSON must be an array of questions")
	ErrTrailingData  = errors.New("unexpected data after the questions array")
)

// ImportError reports why an import was rejected. Index is the offending element, or -1 for the document.
type ImportError struct {
	Index int
	Err   error
}

func (e *ImportError) Error() string {
	if e.Index < 0 {
		return "Invalid JSON: " + e.Err.Error()
	}
	return fmt.Sprintf("Invalid JSON: question %d: %v", e.Index, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// ImportResult holds the sanitized questions of an accepted import.
type ImportResult struct {
	Questions []Question `json:"questions"`
}

func (r ImportResult) Count() int { return len(r.Questions) }

// ParseImport validates the shape of an exported bank and coerces every element into a Question:
//   - type is short only when exactly "short", mcq otherwise; options are only kept for mcq
//   - topic defaults to DefaultTopic and unknown difficulties to easy
//   - a missing id is replaced by a fresh one
//
// Either every element is accepted or an *ImportError is returned.
func ParseImport(data []byte) (ImportResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return ImportResult{}, &ImportError{Index: -1, Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ImportResult{}, &ImportError{Index: -1, Err: ErrTrailingData}
	}
	elems, ok := doc.([]interface{})
	if !ok {
		return ImportResult{}, &ImportError{Index: -1, Err: ErrInvalidImport}
	}

	questions := make([]Question, 0, len(elems))
	for i, elem := range elems {
		obj, ok := elem.(map[string]interface{})
		if !ok {
			return ImportResult{}, &ImportError{Index: i, Err: errors.New("question must be an object")}
		}
		q, err := sanitize(obj)
		if err != nil {
			return ImportResult{}, &ImportError{Index: i, Err: err}
		}
		questions = append(questions, q)
	}
	return ImportResult{Questions: questions}, nil
}

func sanitize(obj map[string]interface{}) (Question, error) {
	var q Question
	fields := []struct {
		key string
		dst *string
	}{
		{"id", &q.ID},
		{"question", &q.Question},
		{"answer", &q.Answer},
		{"explanation", &q.Explanation},
		{"topic", &q.Topic},
	}
	for _, fld := range fields {
		s, err := optionalString(obj, fld.key)
		if err != nil {
			return Question{}, err
		}
		*fld.dst = s
	}

	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.Topic == "" {
		q.Topic = DefaultTopic
	}
	q.Question = strings.TrimSpace(q.Question)

	if t, _ := obj["type"].(string); t == TypeShort {
		q.Type = TypeShort
	} else {
		q.Type = TypeMCQ
		var opts []string
		if raw, ok := obj["options"].([]interface{}); ok {
			for _, opt := range raw {
				s, ok := scalarString(opt)
				if !ok {
					return Question{}, errors.New("options must be scalar values")
				}
				opts = append(opts, s)
			}
		}
		q.Options = opts
	}

	q.Difficulty = DifficultyEasy
	if d, ok := obj["difficulty"].(string); ok && validDifficulty(d) {
		q.Difficulty = d
	}
	return q, nil
}

// optionalString stringifies a scalar field; missing, null, false, 0 and "" all give "".
func optionalString(obj map[string]interface{}, key string) (string, error) {
	v := obj[key]
	switch val := v.(type) {
	case nil:
		return "", nil
	case bool:
		if !val {
			return "", nil
		}
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return "", nil
		}
	}
	s, ok := scalarString(v)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "null", true
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case json.Number:
		return val.String(), true
	default:
		return "", false
	}
}

// Export renders the bank as an indented JSON array, the format ParseImport reads back.
func Export(bank []Question) ([]byte, error) {
	if bank == nil {
		bank = []Question{}
	}
	return json.MarshalIndent(bank, "", "  ")
}

// ExportFilename names an export made on day now.
func ExportFilename(now time.Time) string {
	return "question-bank-" + now.Format(core.DateLayout) + ".json"
}
