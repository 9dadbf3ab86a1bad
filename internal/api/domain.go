package api

import (
	"github.com/jrycodes/typotrace/internal/contact"
	"github.com/jrycodes/typotrace/internal/sessions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Contact  contact.System
	Sessions sessions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	sessionsSystem := sessions.New(
		runtime.Client,
		runtime.Storage,
		runtime.Logger,
		sessions.Options{
			PollInterval: runtime.PollInterval,
			TTL:          runtime.SessionTTL,
			MaxSessions:  runtime.MaxSessions,
		},
	)

	contactSystem := contact.New(
		runtime.Storage,
		runtime.Logger,
	)

	return &Domain{
		Contact:  contactSystem,
		Sessions: sessionsSystem,
	}
}
