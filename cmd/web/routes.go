package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Bhagya-2005/ai-study-mentor/session"
	"github.com/etitcombe/logifymw"
)

func (s *server) registerRoutes() {
	mux := http.NewServeMux()
	mux.Handle("/", s.requireAuthentication(s.handleHome()))
	mux.Handle("/login/", s.handleLogin())
	mux.Handle("/signup/", s.handleSignup())
	mux.Handle("/logout/", s.handleLogout())
	mux.Handle("/theme/", s.handleTheme())
	mux.Handle("/history/clear/", s.requireAuthentication(s.handleClearHistory()))
	mux.Handle("/exports/", s.requireAuthentication(s.handleExport()))
	for _, p := range session.Pages {
		mux.Handle(p.Path(), s.requireAuthentication(s.selectPage(p, s.pageHandler(p))))
	}

	s.router = s.recoverPanicMw(logifymw.LogIt2(s.infoLog, headersMw(s.withSession(mux))))
}

// pageHandler maps every page to its handler.
func (s *server) pageHandler(p session.Page) http.Handler {
	switch p {
	case session.Dashboard:
		return s.handleDashboard()
	case session.MentorChat:
		return s.handleMentor()
	case session.Quiz:
		return s.handleQuiz()
	case session.History:
		return s.handleHistory()
	default:
		panic(fmt.Sprintf("no handler for page %s", p))
	}
}

// withSession loads the visitor's session from its cookie, starting a new one
// when the cookie is missing or stale, and stores the session id in the
// request context.
func (s *server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookieName); err == nil {
			if sess, ok := s.sessions.Get(c.Value); ok {
				id = sess.ID
			}
		}

		if id == "" {
			id = s.sessions.Start().ID
			http.SetCookie(w, &http.Cookie{
				HttpOnly: true,
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().AddDate(0, 0, 30),
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.currentSession(r).Authenticated() {
			http.Redirect(w, r, "/login/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// selectPage records p as the session's current page.
func (s *server) selectPage(p session.Page, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessions.SetPage(s.currentSession(r).ID, p); err != nil {
			s.serverError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func headersMw(next http.Handler) http.Handler {
	var headers = map[string]string{
		"Referrer-Policy":        "no-referrer-when-downgrade",
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) recoverPanicMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				s.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
