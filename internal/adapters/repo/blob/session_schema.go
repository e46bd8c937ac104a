package blob

import (
	"strings"

	"github.com/bnema/poolify-cli/internal/domain"
)

type sessionSchema struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Hostel      string `json:"hostel,omitempty"`

	LegacyUID  string `json:"uid,omitempty"`
	LegacyName string `json:"name,omitempty"`
}

func toSessionSchema(session domain.Session) sessionSchema {
	return sessionSchema{
		ID:          session.ID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		Hostel:      session.Hostel,
	}
}

func fromSessionSchema(schema sessionSchema) domain.Session {
	id := strings.TrimSpace(schema.ID)
	if id == "" {
		id = strings.TrimSpace(schema.LegacyUID)
	}
	name := strings.TrimSpace(schema.DisplayName)
	if name == "" {
		name = strings.TrimSpace(schema.LegacyName)
	}

	return domain.Session{
		ID:          id,
		Email:       strings.TrimSpace(schema.Email),
		DisplayName: name,
		Hostel:      strings.TrimSpace(schema.Hostel),
	}
}
