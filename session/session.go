// Package session keeps the per-visitor state of the web site in memory:
// whether the visitor is logged in, as whom, which page they are on and the
// theme they picked. Sessions are never persisted.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// State is the authentication state of a session.
type State int

// Session states.
const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Page is one of the pages an authenticated visitor can be on.
type Page int

// The pages of the site. Adding one means adding a case to every switch on
// Page, including the handler dispatch in cmd/web.
const (
	Dashboard Page = iota
	MentorChat
	Quiz
	History
)

// Pages lists every page in navigation order.
var Pages = []Page{Dashboard, MentorChat, Quiz, History}

func (p Page) String() string {
	switch p {
	case Dashboard:
		return "Dashboard"
	case MentorChat:
		return "Mentor Chat"
	case Quiz:
		return "Quiz"
	case History:
		return "History"
	default:
		return fmt.Sprintf("Page(%d)", int(p))
	}
}

// Path is the URL path the page is served on.
func (p Page) Path() string {
	switch p {
	case Dashboard:
		return "/dashboard/"
	case MentorChat:
		return "/mentor/"
	case Quiz:
		return "/quiz/"
	case History:
		return "/history/"
	default:
		panic(fmt.Sprintf("unknown page %d", int(p)))
	}
}

// Theme is the colour theme of the site.
type Theme int

// Themes.
const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// ParseTheme returns Dark for "dark" and Light for anything else.
func ParseTheme(s string) Theme {
	if s == Dark.String() {
		return Dark
	}
	return Light
}

// Habits tracked on the dashboard.
var Habits = []string{"Study 2 hours", "Avoid phone", "Revise notes", "Practice questions", "Wake up early"}

// Session is a snapshot of one visitor's state.
type Session struct {
	ID     string
	State  State
	UserID int64 // 0 while anonymous
	Page   Page
	Theme  Theme
	Habits []int
	Flash  string
}

// Authenticated reports whether the visitor is logged in.
func (s Session) Authenticated() bool {
	return s.State == Authenticated
}

// Manager holds every live session. It is safe for concurrent use.
type Manager struct {
	rwMutex  sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start creates a new anonymous session on the dashboard page.
func (m *Manager) Start() Session {
	s := &Session{
		ID:     uuid.NewString(),
		State:  Anonymous,
		Page:   Dashboard,
		Theme:  Light,
		Habits: make([]int, len(Habits)),
	}
	m.rwMutex.Lock()
	defer m.rwMutex.Unlock()
	m.sessions[s.ID] = s
	return s.snapshot()
}

// Get returns a snapshot of the session with the given id.
func (m *Manager) Get(id string) (Session, bool) {
	m.rwMutex.RLock()
	defer m.rwMutex.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	return s.snapshot(), true
}

// Remove forgets the session.
func (m *Manager) Remove(id string) {
	m.rwMutex.Lock()
	defer m.rwMutex.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.rwMutex.RLock()
	defer m.rwMutex.RUnlock()
	return len(m.sessions)
}

// Login moves the session to Authenticated for userID.
func (m *Manager) Login(id string, userID int64) error {
	return m.update(id, func(s *Session) {
		s.State = Authenticated
		s.UserID = userID
	})
}

// Logout moves the session back to Anonymous and clears the user id. The
// page selection is reset as well.
func (m *Manager) Logout(id string) error {
	return m.update(id, func(s *Session) {
		s.State = Anonymous
		s.UserID = 0
		s.Page = Dashboard
		s.Habits = make([]int, len(Habits))
	})
}

// SetPage selects the current page.
func (m *Manager) SetPage(id string, p Page) error {
	return m.update(id, func(s *Session) { s.Page = p })
}

// SetTheme selects the theme.
func (m *Manager) SetTheme(id string, t Theme) error {
	return m.update(id, func(s *Session) { s.Theme = t })
}

// SetHabits stores habit progress, clamped to 0..100.
func (m *Manager) SetHabits(id string, values []int) error {
	return m.update(id, func(s *Session) {
		for i := range s.Habits {
			v := 0
			if i < len(values) {
				v = values[i]
			}
			s.Habits[i] = min(max(v, 0), 100)
		}
	})
}

// SetFlash stores a message to show on the next page render.
func (m *Manager) SetFlash(id, msg string) error {
	return m.update(id, func(s *Session) { s.Flash = msg })
}

// PopFlash returns and clears the pending flash message.
func (m *Manager) PopFlash(id string) string {
	var msg string
	_ = m.update(id, func(s *Session) {
		msg = s.Flash
		s.Flash = ""
	})
	return msg
}

func (m *Manager) update(id string, fn func(s *Session)) error {
	m.rwMutex.Lock()
	defer m.rwMutex.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %q: not found", id)
	}
	fn(s)
	return nil
}

func (s *Session) snapshot() Session {
	c := *s
	c.Habits = append([]int(nil), s.Habits...)
	return c
}
