package handler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"CareerBot/form"
	"CareerBot/wizard"
)

// Attachment is a file sent by the user while a wizard step is open.
type Attachment struct {
	FileID   string
	FileName string
	MIMEType string
	Size     int64
	URL      string
}

// Session is one running wizard. It is created by a flow command and
// dropped on completion or /cancel.
type Session struct {
	Flow   form.Flow
	Wizard *wizard.Controller

	// FieldErrors holds the field errors of the latest submission of each
	// step.
	FieldErrors map[wizard.StepID]form.FieldErrors

	// SubmissionID is generated once per session so a retried final
	// submission writes the same record. Stepper buttons carry it too.
	SubmissionID string
	InterviewID  string

	Photo *Attachment
	Files []Attachment
}

// UserState is everything the bot keeps for one Telegram user.
type UserState struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
	Session  *Session
}

// Lock serializes updates from the same user; a wizard is only ever driven
// by one update at a time.
func (u *UserState) Lock() { u.mu.Lock() }
func (u *UserState) Unlock() { u.mu.Unlock() }

// Allow reports whether another update from this user may be processed now.
func (u *UserState) Allow() bool {
	return u.limiter.Allow()
}

// Sessions stores user states in memory. Nothing survives a restart.
type Sessions struct {
	mu    sync.Mutex
	users map[int64]*UserState
	limit rate.Limit
	burst int
	now   func() time.Time
}

// NewSessions creates a store whose users may send perSecond updates with
// the given burst. perSecond <= 0 disables throttling.
func NewSessions(perSecond float64, burst int) *Sessions {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Sessions{
		users: make(map[int64]*UserState),
		limit: limit,
		burst: burst,
		now:   time.Now,
	}
}

// Get returns the state of userID, creating it on first contact.
func (s *Sessions) Get(userID int64) *UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		u = &UserState{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.users[userID] = u
	}
	u.lastSeen = s.now()
	return u
}

// Len returns the number of users tracked.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Prune drops users not seen for idle. Users with an open wizard are kept
// until they have been away for abandon. States busy with an update are
// skipped.
func (s *Sessions) Prune(idle, abandon time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, u := range s.users {
		away := now.Sub(u.lastSeen)
		if away <= idle {
			continue
		}
		if !u.mu.TryLock() {
			continue
		}
		if u.Session == nil || away > abandon {
			delete(s.users, id)
			removed++
		}
		u.mu.Unlock()
	}
	return removed
}

// StartCleanup prunes the store every interval until ctx is done. The
// returned channel is closed when the cleanup goroutine exits.
func (s *Sessions) StartCleanup(ctx context.Context, interval, idle, abandon time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Prune(idle, abandon); n > 0 {
					log.Debug().Int("removed", n).Int("remaining", s.Len()).Msg("pruned idle users")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}
