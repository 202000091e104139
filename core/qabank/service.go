package qabank

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
)

var (
	// errors
	ErrNotFound       = errors.New("question not found")
	ErrUnknownSetting = errors.New("unknown setting")
)

// Service owns a question bank and its quiz settings.
type Service struct {
	mu       sync.RWMutex
	store    *core.Storage
	bank     *core.Collection[string, Question]
	settings Settings
	validate *validator.Validate
	nowFunc  func() time.Time
}

// NewService loads the bank (the starter questions when none is stored) and the settings from store.
func NewService(store *core.Storage, validate *validator.Validate) *Service {
	bank := core.Load(store, BankKey, DefaultBank())
	settings := core.Load(store, SettingsKey, DefaultSettings())

	svc := &Service{
		store: store,
		bank: core.NewCollection(bank, core.CollectionOptions[string, Question]{
			Name: BankKey,
			ID:   func(q Question) string { return q.ID },
			Save: func(items []Question) { store.Save(BankKey, items) },
		}),
		settings: settings,
		validate: validate,
		nowFunc:  time.Now,
	}
	store.Save(BankKey, svc.bank.Items())
	store.Save(SettingsKey, settings)
	return svc
}

func (svc *Service) Subscribe(obs core.Observer) func() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	cancel := svc.bank.Subscribe(obs)
	return func() {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		cancel()
	}
}

// Add puts a new question at the top of the bank.
func (svc *Service) Add(nq NewQuestion) (Question, error) {
	if err := nq.Validate(svc.validate); err != nil {
		return Question{}, err
	}
	q := Question{
		ID:          uuid.New().String(),
		Type:        nq.Type,
		Question:    nq.Question,
		Options:     nq.Options,
		Answer:      nq.Answer,
		Explanation: nq.Explanation,
		Topic:       nq.Topic,
		Difficulty:  nq.Difficulty,
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.bank.Prepend(q)
	return q, nil
}

func (svc *Service) Get(id string) (Question, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	q, ok := svc.bank.Get(id)
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (svc *Service) Delete(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, ok := svc.bank.Remove(id); !ok {
		return ErrNotFound
	}
	return nil
}

// Questions returns the whole bank, newest first.
func (svc *Service) Questions() []Question {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.bank.Items()
}

func (svc *Service) Filter(filter QueryFilter) []Question {
	filter.Clean()

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.bank.List(filter.Match, nil)
}

func (svc *Service) Topics() []string {
	return Topics(svc.Questions())
}

// Reset replaces the bank with the starter questions.
func (svc *Service) Reset() []Question {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.bank.Replace(DefaultBank())
}

// Export renders the bank for download, along with its file name.
func (svc *Service) Export() (filename string, data []byte, err error) {
	data, err = Export(svc.Questions())
	if err != nil {
		return "", nil, pkgerrors.Wrap(err, "encoding question bank")
	}
	return ExportFilename(svc.nowFunc()), data, nil
}

// Import prepends the questions of an exported bank. Nothing is merged when the data is rejected.
func (svc *Service) Import(data []byte) (ImportResult, error) {
	res, err := ParseImport(data)
	if err != nil {
		return ImportResult{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.bank.Prepend(res.Questions...)
	return res, nil
}

// ImportFile reads and imports the file at path.
// The import is abandoned, leaving the bank untouched, if ctx is done before the file has been read.
func (svc *Service) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- readResult{data, err}
	}()

	select {
	case <-ctx.Done():
		return ImportResult{}, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return ImportResult{}, pkgerrors.Wrap(res.err, "reading import file")
		}
		if err := ctx.Err(); err != nil {
			return ImportResult{}, err
		}
		return svc.Import(res.data)
	}
}

func (svc *Service) Settings() Settings {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.settings
}

func (svc *Service) UpdateSettings(us UpdateSettings) Settings {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if us.ExamMode != nil {
		svc.settings.ExamMode = *us.ExamMode
	}
	if us.Shuffle != nil {
		svc.settings.Shuffle = *us.Shuffle
	}
	if us.ShowExplanations != nil {
		svc.settings.ShowExplanations = *us.ShowExplanations
	}
	svc.store.Save(SettingsKey, svc.settings)
	return svc.settings
}

// ToggleSetting flips one setting, named by its JSON key.
func (svc *Service) ToggleSetting(name string) (Settings, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	switch name {
	case "examMode":
		svc.settings.ExamMode = !svc.settings.ExamMode
	case "shuffle":
		svc.settings.Shuffle = !svc.settings.Shuffle
	case "showExplanations":
		svc.settings.ShowExplanations = !svc.settings.ShowExplanations
	default:
		return svc.settings, ErrUnknownSetting
	}
	svc.store.Save(SettingsKey, svc.settings)
	return svc.settings, nil
}

// Topics returns the distinct topics of bank, sorted.
func Topics(bank []Question) []string {
	seen := make(map[string]bool, len(bank))
	topics := make([]string, 0, len(bank))
	for _, q := range bank {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	sort.Strings(topics)
	return topics
}
