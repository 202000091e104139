package quiz

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Tawhide16/CampusKit/core/qabank"
)

// Manager keeps one in-memory Session per user. Sessions are never persisted.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	seed     func() int64
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

func (m *Manager) session(uid string) *Session {
	sess, ok := m.sessions[uid]
	if !ok {
		sess = NewSession(rand.New(rand.NewSource(m.seed())))
		m.sessions[uid] = sess
	}
	return sess
}

// do runs fn on uid's session and renders the outcome.
func (m *Manager) do(uid string, settings qabank.Settings, fn func(*Session) error) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.session(uid)
	if err := fn(sess); err != nil {
		return View{}, err
	}
	return sess.View(settings), nil
}

func (m *Manager) View(uid string, settings qabank.Settings) View {
	v, _ := m.do(uid, settings, func(*Session) error { return nil })
	return v
}

func (m *Manager) Start(uid string, bank []qabank.Question, filters Filters, settings qabank.Settings) (View, error) {
	return m.do(uid, settings, func(s *Session) error { return s.Start(bank, filters, settings.Shuffle) })
}

func (m *Manager) Answer(uid, questionID, value string, settings qabank.Settings) (View, error) {
	return m.do(uid, settings, func(s *Session) error { return s.Answer(questionID, value) })
}

func (m *Manager) Next(uid string, settings qabank.Settings) (View, error) {
	return m.do(uid, settings, func(s *Session) error { return s.Next() })
}

func (m *Manager) Prev(uid string, settings qabank.Settings) (View, error) {
	return m.do(uid, settings, func(s *Session) error { return s.Prev() })
}

func (m *Manager) Submit(uid string, settings qabank.Settings) (View, error) {
	return m.do(uid, settings, func(s *Session) error {
		_, err := s.Submit()
		return err
	})
}

func (m *Manager) Reset(uid string, settings qabank.Settings) View {
	v, _ := m.do(uid, settings, func(s *Session) error {
		s.Reset()
		return nil
	})
	return v
}
