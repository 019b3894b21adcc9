package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	app "github.com/Bhagya-2005/ai-study-mentor"
	"github.com/Bhagya-2005/ai-study-mentor/export"
	"github.com/Bhagya-2005/ai-study-mentor/session"
)

func (s *server) handleHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			s.clientError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
			return
		}
		http.Redirect(w, r, s.currentSession(r).Page.Path(), http.StatusFound)
	}
}

type loginPage struct {
	Email string
}

func (s *server) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				s.clientError(w, http.StatusBadRequest, err.Error())
				return
			}
			email := r.PostFormValue("email")
			password := r.PostFormValue("password")

			_, err := s.auth.Login(r.Context(), sess.ID, email, password)
			switch {
			case err == nil:
				s.sessions.SetFlash(sess.ID, "Login successful!")
				http.Redirect(w, r, "/", http.StatusFound)
			case errors.Is(err, app.ErrEmptyInput):
				s.render(w, r, http.StatusBadRequest, "login", "Login", "Please fill all fields.", loginPage{Email: email})
			case errors.Is(err, app.ErrInvalidCredentials):
				s.render(w, r, http.StatusUnauthorized, "login", "Login", "Invalid credentials.", loginPage{Email: email})
			default:
				s.serverError(w, r, err)
			}
			return
		}

		if r.Method != http.MethodGet {
			s.clientError(w, http.StatusMethodNotAllowed, "")
			return
		}
		if sess.Authenticated() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		s.render(w, r, http.StatusOK, "login", "Login", "", loginPage{})
	}
}

func (s *server) handleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.clientError(w, http.StatusMethodNotAllowed, "")
			return
		}
		if err := r.ParseForm(); err != nil {
			s.clientError(w, http.StatusBadRequest, err.Error())
			return
		}
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		err := s.auth.Register(r.Context(), email, password)
		switch {
		case err == nil:
			s.infoLog.Printf("new user signed up: %s", email)
			s.sessions.SetFlash(s.currentSession(r).ID, "Sign up successful! Please login now.")
			http.Redirect(w, r, "/login/", http.StatusFound)
		case errors.Is(err, app.ErrEmptyInput):
			s.render(w, r, http.StatusBadRequest, "login", "Sign Up", "Please fill all fields.", loginPage{Email: email})
		case errors.Is(err, app.ErrDuplicateEmail):
			s.render(w, r, http.StatusConflict, "login", "Sign Up", "Email already exists.", loginPage{Email: email})
		default:
			s.serverError(w, r, err)
		}
	}
}

func (s *server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.clientError(w, http.StatusMethodNotAllowed, "")
			return
		}
		id := s.currentSession(r).ID
		if err := s.auth.Logout(id); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.SetFlash(id, "Logged out!")
		http.Redirect(w, r, "/login/", http.StatusFound)
	}
}

func (s *server) handleTheme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.clientError(w, http.StatusMethodNotAllowed, "")
			return
		}
		sess := s.currentSession(r)
		if err := s.sessions.SetTheme(sess.ID, session.ParseTheme(r.PostFormValue("theme"))); err != nil {
			s.serverError(w, r, err)
			return
		}
		if !sess.Authenticated() {
			http.Redirect(w, r, "/login/", http.StatusFound)
			return
		}
		http.Redirect(w, r, sess.Page.Path(), http.StatusFound)
	}
}

var (
	studyDays  = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	studyHours = []int{2, 3, 1, 4, 5, 2, 3}
)

type chartPoint struct {
	X, Y  int
	Day   string
	Hours int
}

type habit struct {
	Index    int
	Name     string
	Progress int
}

type dashboardPage struct {
	Points string
	Dots   []chartPoint
	Habits []habit
}

func weeklyChart() (string, []chartPoint) {
	const (
		left   = 40
		step   = 55
		bottom = 190
		scale  = 30
	)
	var (
		points []string
		dots   []chartPoint
	)
	for i, h := range studyHours {
		p := chartPoint{X: left + i*step, Y: bottom - h*scale, Day: studyDays[i], Hours: h}
		points = append(points, fmt.Sprintf("%d,%d", p.X, p.Y))
		dots = append(dots, p)
	}
	return strings.Join(points, " "), dots
}

func (s *server) handleDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				s.clientError(w, http.StatusBadRequest, err.Error())
				return
			}
			values := make([]int, len(session.Habits))
			for i := range values {
				v, err := strconv.Atoi(r.PostFormValue(fmt.Sprintf("habit_%d", i)))
				if err != nil {
					s.clientError(w, http.StatusBadRequest, fmt.Sprintf("habit %d: not a number", i))
					return
				}
				values[i] = v
			}
			if err := s.sessions.SetHabits(sess.ID, values); err != nil {
				s.serverError(w, r, err)
				return
			}
			s.sessions.SetFlash(sess.ID, "Your habits are updated!")
			http.Redirect(w, r, session.Dashboard.Path(), http.StatusFound)
			return
		}

		points, dots := weeklyChart()
		page := dashboardPage{Points: points, Dots: dots}
		for i, name := range session.Habits {
			page.Habits = append(page.Habits, habit{Index: i, Name: name, Progress: sess.Habits[i]})
		}
		s.render(w, r, http.StatusOK, "dashboard", "Study Analytics Dashboard", "", page)
	}
}

type mentorPage struct {
	Problem     string
	OutputType  app.OutputType
	OutputTypes []app.OutputType
	Voice       bool
	Output      string
	PDFName     string
	AudioName   string
}

func (s *server) handleMentor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := mentorPage{OutputTypes: app.OutputTypes}

		if r.Method != http.MethodPost {
			s.render(w, r, http.StatusOK, "mentor", "AI Study Mentor", "", page)
			return
		}

		if err := r.ParseForm(); err != nil {
			s.clientError(w, http.StatusBadRequest, err.Error())
			return
		}
		page.Problem = r.PostFormValue("problem")
		page.Voice = r.PostFormValue("voice") != ""
		t, err := app.ParseOutputType(r.PostFormValue("output_type"))
		if err != nil {
			s.render(w, r, http.StatusBadRequest, "mentor", "AI Study Mentor", err.Error(), page)
			return
		}
		page.OutputType = t

		if strings.TrimSpace(page.Problem) == "" {
			s.render(w, r, http.StatusBadRequest, "mentor", "AI Study Mentor", "Please type a problem.", page)
			return
		}

		ctx := r.Context()
		userID := s.currentSession(r).UserID

		output, err := s.generator.Generate(ctx, app.Prompt(t, page.Problem))
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		page.Output = output

		if _, err := s.history.Append(ctx, userID, page.Problem, output); err != nil {
			s.serverError(w, r, err)
			return
		}

		pdfPath, err := s.pdf.ExportPDF(userID, output)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		page.PDFName = filepath.Base(pdfPath)

		if page.Voice {
			audioPath, err := s.speech.ExportSpeech(ctx, userID, output)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			page.AudioName = filepath.Base(audioPath)
		}

		s.infoLog.Printf("user %d generated %s", userID, t)
		s.render(w, r, http.StatusOK, "mentor", "AI Study Mentor", "", page)
	}
}

type quizPage struct {
	Topic string
	Quiz  string
}

func (s *server) handleQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var page quizPage

		if r.Method != http.MethodPost {
			s.render(w, r, http.StatusOK, "quiz", "Study Quiz", "", page)
			return
		}

		if err := r.ParseForm(); err != nil {
			s.clientError(w, http.StatusBadRequest, err.Error())
			return
		}
		page.Topic = r.PostFormValue("topic")
		if strings.TrimSpace(page.Topic) == "" {
			s.render(w, r, http.StatusBadRequest, "quiz", "Study Quiz", "Enter a topic.", page)
			return
		}

		quiz, err := s.generator.Generate(r.Context(), app.QuizPrompt(page.Topic))
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		page.Quiz = quiz
		s.render(w, r, http.StatusOK, "quiz", "Study Quiz", "", page)
	}
}

func (s *server) handleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.clientError(w, http.StatusMethodNotAllowed, "")
			return
		}
		entries, err := s.history.List(r.Context(), s.currentSession(r).UserID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "history", "Chat History", "", entries)
	}
}

func (s *server) handleClearHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.clientError(w, http.StatusMethodNotAllowed, "")
			return
		}
		sess := s.currentSession(r)
		if err := s.history.Clear(r.Context(), sess.UserID); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.sessions.SetFlash(sess.ID, "History cleared!")
		http.Redirect(w, r, session.History.Path(), http.StatusFound)
	}
}

// handleExport serves an exported file to the user it was created for.
func (s *server) handleExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.clientError(w, http.StatusMethodNotAllowed, "")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/exports/")
		if !export.OwnedBy(name, s.currentSession(r).UserID) {
			s.clientError(w, http.StatusNotFound, "")
			return
		}
		if filepath.Ext(name) == ".pdf" {
			w.Header().Set("Content-Disposition", `attachment; filename="study_plan.pdf"`)
		}
		http.ServeFile(w, r, filepath.Join(s.exportDir, name))
	}
}
