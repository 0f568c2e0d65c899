package kiosk

import (
	"sync"

	"github.com/rs/zerolog"
)

// Announcement is a fire-and-forget narration request for the speech
// front-end.
type Announcement struct {
	Cue    Cue    `json:"cue"`
	Locale Locale `json:"locale"`
	Text   string `json:"text"`
}

// Announcer delivers announcements. Implementations must not block the
// caller; the controller never waits on narration.
type Announcer interface {
	Announce(a Announcement)
}

// LogAnnouncer writes announcements to the log. It serves headless kiosks
// and development.
type LogAnnouncer struct {
	Logger zerolog.Logger
}

func (l LogAnnouncer) Announce(a Announcement) {
	l.Logger.Info().
		Str("cue", string(a.Cue)).
		Str("locale", string(a.Locale)).
		Msg(a.Text)
}

// RecentAnnouncements keeps the last announcement so the front-end can poll
// it with the kiosk state, and forwards everything to Next.
type RecentAnnouncements struct {
	Next Announcer

	mu   sync.Mutex
	last *Announcement
}

func NewRecentAnnouncements(next Announcer) *RecentAnnouncements {
	return &RecentAnnouncements{Next: next}
}

func (r *RecentAnnouncements) Announce(a Announcement) {
	r.mu.Lock()
	r.last = &a
	r.mu.Unlock()
	if r.Next != nil {
		r.Next.Announce(a)
	}
}

// Last returns the most recent announcement.
func (r *RecentAnnouncements) Last() (Announcement, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return Announcement{}, false
	}
	return *r.last, true
}

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(Announcement) {}
