package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"runtime/debug"

	app "github.com/Bhagya-2005/ai-study-mentor"
	"github.com/Bhagya-2005/ai-study-mentor/auth"
	"github.com/Bhagya-2005/ai-study-mentor/session"
)

type contextKey string

const (
	sessionCookieName string = "studymentor-session"

	sessionKey contextKey = "session-id"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type server struct {
	infoLog  *log.Logger
	errorLog *log.Logger

	router http.Handler

	auth      *auth.Service
	sessions  *session.Manager
	history   app.HistoryStore
	generator app.Generator
	pdf       app.PDFExporter
	speech    app.SpeechExporter
	exportDir string

	templateCache map[string]*template.Template
}

// deps are the services the handlers call.
type deps struct {
	Auth      *auth.Service
	Sessions  *session.Manager
	History   app.HistoryStore
	Generator app.Generator
	PDF       app.PDFExporter
	Speech    app.SpeechExporter
	ExportDir string
}

type navItem struct {
	Title  string
	Path   string
	Active bool
}

type viewModel struct {
	Title         string
	Theme         string
	Authenticated bool
	Nav           []navItem
	Flash         string
	Error         string
	Yield         interface{}
}

func newServer(infoLog, errorLog *log.Logger, d deps) *server {
	srv := &server{
		infoLog:   infoLog,
		errorLog:  errorLog,
		auth:      d.Auth,
		sessions:  d.Sessions,
		history:   d.History,
		generator: d.Generator,
		pdf:       d.PDF,
		speech:    d.Speech,
		exportDir: d.ExportDir,
	}
	srv.parseTemplates()
	srv.registerRoutes()
	return srv
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) clientError(w http.ResponseWriter, status int, message string) {
	errorMessage := http.StatusText(status)
	if message != "" {
		errorMessage += ": " + message
	}
	http.Error(w, errorMessage, status)
}

func (s *server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	trace := fmt.Sprintf("%s %s: %s\n%s", r.Method, r.URL.Path, err.Error(), debug.Stack())
	s.errorLog.Output(2, trace)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// currentSession returns the visitor's session as loaded by withSession.
func (s *server) currentSession(r *http.Request) session.Session {
	if id, ok := r.Context().Value(sessionKey).(string); ok {
		if sess, ok := s.sessions.Get(id); ok {
			return sess
		}
	}
	return session.Session{}
}

func (s *server) parseTemplates() {
	cache := map[string]*template.Template{}
	for _, name := range []string{"login", "dashboard", "mentor", "quiz", "history"} {
		cache[name] = template.Must(template.New(name).ParseFS(templateFS,
			"templates/layout.gohtml", "templates/"+name+".gohtml"))
	}
	s.templateCache = cache
}

// render executes the named page inside the layout. errMsg is shown above the
// page content; a pending flash message is consumed.
func (s *server) render(w http.ResponseWriter, r *http.Request, status int, name, title, errMsg string, data interface{}) {
	ts, ok := s.templateCache[name]
	if !ok {
		s.serverError(w, r, fmt.Errorf("template %s does not exist", name))
		return
	}

	sess := s.currentSession(r)
	vm := viewModel{
		Title:         title,
		Theme:         sess.Theme.String(),
		Authenticated: sess.Authenticated(),
		Flash:         s.sessions.PopFlash(sess.ID),
		Error:         errMsg,
		Yield:         data,
	}
	if sess.Authenticated() {
		for _, p := range session.Pages {
			vm.Nav = append(vm.Nav, navItem{Title: p.String(), Path: p.Path(), Active: p == sess.Page})
		}
	}

	buf := bytes.Buffer{}
	if err := ts.ExecuteTemplate(&buf, "layout", vm); err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
