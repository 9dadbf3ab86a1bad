package contact

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Subjects lists the accepted feedback subjects in display order.
var Subjects = []string{
	"Feedback Umum",
	"Laporan Bug",
	"Permintaan Fitur",
	"Masalah Teknis",
	"Pertanyaan Penggunaan",
	"Lainnya",
}

// DefaultRating is applied when a submission omits the rating.
const DefaultRating = 5

const maxMessageLength = 5000

// Request is the JSON body of a feedback submission.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Rating  int    `json:"rating,omitempty"`
}

// Feedback is a validated submission as it is stored.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize trims whitespace and applies the default rating.
func (r *Request) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	if r.Rating == 0 {
		r.Rating = DefaultRating
	}
}

// Validate checks a normalized request.
func (r *Request) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		return ErrInvalidEmail
	}
	if !slices.Contains(Subjects, r.Subject) {
		return ErrInvalidSubject
	}
	if r.Message == "" || len(r.Message) > maxMessageLength {
		return ErrMissingMessage
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
