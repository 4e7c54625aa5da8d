// Package session holds booth visitor sessions: who stepped in front of
// the camera, which character and deed they picked, where their photo
// landed, and the wanted-poster story generated from those picks.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is one visitor's trip through the booth. Optional fields are
// nil until the corresponding step of the flow has happened.
type Session struct {
	ID            string  `json:"id"`
	GroupName     *string `json:"group_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
	Class         *int    `json:"class,omitempty"`
	Choice        *int    `json:"choice,omitempty"`
	Email         *string `json:"email,omitempty"`
	PhotoPath     *string `json:"photo_path,omitempty"`
	CopiesPrinted int     `json:"copies_printed"`
	StoryText     *string `json:"story_text,omitempty"`
	Headline      *string `json:"headline,omitempty"`
	MailingList   bool    `json:"mailing_list"`
}

// New returns a fresh session with a random ID and a creation timestamp.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Complete reports whether every step of the booth flow has filled its
// field: a complete session is ready to print.
func (s *Session) Complete() bool {
	return s.GroupName != nil &&
		s.Class != nil &&
		s.Choice != nil &&
		s.Email != nil &&
		s.PhotoPath != nil &&
		s.StoryText != nil &&
		s.Headline != nil
}
