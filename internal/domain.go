package internal

import (
	"time"
)

// Collection identifies one of the panel's record collections.
type Collection string

const (
	CollectionGroups    Collection = "groups"
	CollectionRentals   Collection = "rentals"
	CollectionWarnings  Collection = "warnings"
	CollectionBlacklist Collection = "blacklist"
	CollectionScheduled Collection = "scheduled"
	CollectionSettings  Collection = "settings"
)

// Collections lists every valid collection selector, in the order the
// sync API documents them.
var Collections = []Collection{
	CollectionGroups,
	CollectionRentals,
	CollectionWarnings,
	CollectionBlacklist,
	CollectionScheduled,
	CollectionSettings,
}

// Valid reports whether c is one of the six known collections.
func (c Collection) Valid() bool {
	for _, v := range Collections {
		if c == v {
			return true
		}
	}
	return false
}

// GroupConfig holds the per-group bot configuration managed by the panel.
type GroupConfig struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	JID         string   `json:"jid"`
	Welcome     bool     `json:"welcome"`
	WelcomeMsg  string   `json:"welcomeMsg"`
	Goodbye     bool     `json:"goodbye"`
	GoodbyeMsg  string   `json:"goodbyeMsg"`
	Antilink    bool     `json:"antilink"`
	Antifake    bool     `json:"antifake"`
	Antiflood   bool     `json:"antiflood"`
	NSFW        bool     `json:"nsfw"`
	AutoSticker bool     `json:"autoSticker"`
	Prefix      string   `json:"prefix"`
	MutedUsers  []string `json:"mutedUsers"`
	Active      bool     `json:"active"`
}

// Rental plans offered to group owners.
const (
	PlanWeekly     = "semanal"
	PlanBiweekly   = "quinzenal"
	PlanMonthly    = "mensal"
	PlanQuarterly  = "trimestral"
	PlanSemiannual = "semestral"
	PlanAnnual     = "anual"
	PlanLifetime   = "vitalicio"
)

// Rental records a group's paid bot subscription.
type Rental struct {
	ID          string  `json:"id"`
	GroupJID    string  `json:"groupJid"`
	GroupName   string  `json:"groupName"`
	OwnerNumber string  `json:"ownerNumber"`
	OwnerName   string  `json:"ownerName"`
	Plan        string  `json:"plan"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Value       float64 `json:"value"`
	Active      bool    `json:"active"`
	Notes       string  `json:"notes"`
}

// IsExpired reports whether the rental's end date is strictly in the past.
// Expiration is derived, never stored: an empty or unparsable end date counts
// as not expired, regardless of the Active flag.
func (r *Rental) IsExpired(now time.Time) bool {
	if r.EndDate == "" {
		return false
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return false
	}
	return end.Before(now)
}

// ExpiresWithin reports whether the rental ends inside the next d but has
// not expired yet.
func (r *Rental) ExpiresWithin(now time.Time, d time.Duration) bool {
	if r.EndDate == "" || r.IsExpired(now) {
		return false
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return false
	}
	return end.Sub(now) < d
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Warning records a moderation strike against a group member.
type Warning struct {
	ID       string `json:"id"`
	GroupJID string `json:"groupJid"`
	UserJID  string `json:"userJid"`
	UserName string `json:"userName"`
	Reason   string `json:"reason"`
	Date     string `json:"date"`
	IssuedBy string `json:"issuedBy"`
}

// BlacklistEntry bans a phone number from every group the bot serves.
type BlacklistEntry struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Reason  string `json:"reason"`
	Date    string `json:"date"`
	AddedBy string `json:"addedBy"`
}

// Scheduled message frequencies.
const (
	FreqOnce    = "once"
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

// ScheduledMessage is a message the bot should deliver to a group at a
// recurring time of day. The record represents intent; delivery is the
// dispatcher's job.
type ScheduledMessage struct {
	ID        string `json:"id"`
	GroupJID  string `json:"groupJid"`
	GroupName string `json:"groupName"`
	Message   string `json:"message"`
	Time      string `json:"time"` // HH:MM
	Frequency string `json:"frequency"`
	Active    bool   `json:"active"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// BotSettings is the panel-wide settings singleton.
type BotSettings struct {
	BotName        string `json:"botName"`
	OwnerName      string `json:"ownerName"`
	OwnerNumber    string `json:"ownerNumber"`
	Prefix         string `json:"prefix"`
	AutoRead       bool   `json:"autoRead"`
	MaxWarnings    int    `json:"maxWarnings"`
	WelcomeDefault string `json:"welcomeDefault"`
	GoodbyeDefault string `json:"goodbyeDefault"`
}

// DefaultSettings returns the settings used when nothing has been persisted.
func DefaultSettings() BotSettings {
	return BotSettings{
		BotName:        "OdinBOT",
		OwnerName:      "Erick Machine",
		OwnerNumber:    "5592996529610",
		Prefix:         "#",
		AutoRead:       true,
		MaxWarnings:    3,
		WelcomeDefault: "Bem-vindo(a) ao grupo! Leia as regras e divirta-se.",
		GoodbyeDefault: "Ate mais! Sentiremos sua falta.",
	}
}

func (g GroupConfig) RecordID() string      { return g.ID }
func (r Rental) RecordID() string           { return r.ID }
func (w Warning) RecordID() string          { return w.ID }
func (b BlacklistEntry) RecordID() string   { return b.ID }
func (m ScheduledMessage) RecordID() string { return m.ID }
