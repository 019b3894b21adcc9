package app

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateEmail is returned when signing up with an email that is
	// already registered.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials is returned when the email/password pair does not
	// match a user. It does not say which of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmptyInput is returned when a required field is blank.
	ErrEmptyInput = errors.New("please fill all fields")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// User represents a user in our system.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

// HistoryEntry is one stored problem and the output generated for it.
type HistoryEntry struct {
	ID     int64
	UserID int64
	Input  string
	Output string
}

// UserStore represents the actions that can be taken about users.
type UserStore interface {
	Create(ctx context.Context, email, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	ByID(ctx context.Context, id int64) (*User, error)
}

// HistoryStore represents the actions that can be taken about a user's
// history.
type HistoryStore interface {
	Append(ctx context.Context, userID int64, input, output string) (*HistoryEntry, error)
	List(ctx context.Context, userID int64) ([]HistoryEntry, error)
	Clear(ctx context.Context, userID int64) error
}

// Generator produces study content from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PDFExporter renders text into a PDF file and returns its path.
type PDFExporter interface {
	ExportPDF(userID int64, text string) (string, error)
}

// SpeechExporter synthesizes text into an audio file and returns its path.
type SpeechExporter interface {
	ExportSpeech(ctx context.Context, userID int64, text string) (string, error)
}
