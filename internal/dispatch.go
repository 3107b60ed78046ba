package internal

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Dispatcher turns scheduled-message intent into due notifications. A cron
// entry fires every minute and compares each active message's HH:MM against
// the clock; frequencies are enforced with a minimum gap since the last
// firing, so a weekly message that fired on Monday 08:00 stays quiet until
// the next Monday. "once" messages are deactivated after they fire.
//
// A second, daily cron entry sweeps rentals: expired ones are deactivated
// and rentals ending within 72 hours are logged.
type Dispatcher struct {
	store *Store
	cron  *cron.Cron
	onDue func(ScheduledMessage)

	mu      sync.Mutex
	lastRun map[string]time.Time
}

// NewDispatcher creates a dispatcher over the store.
func NewDispatcher(store *Store) *Dispatcher {
	return &Dispatcher{
		store:   store,
		cron:    cron.New(),
		lastRun: make(map[string]time.Time),
	}
}

// SetOnDue registers the callback fired for each due message. Must be called
// before Start.
func (d *Dispatcher) SetOnDue(fn func(ScheduledMessage)) {
	d.onDue = fn
}

// Start registers the cron entries and begins dispatching.
func (d *Dispatcher) Start() {
	d.cron.AddFunc("* * * * *", func() { d.CheckDue(time.Now()) })
	d.cron.AddFunc("0 0 * * *", func() { d.SweepRentals(time.Now()) })
	d.cron.Start()
}

// Stop halts dispatching. Entries already running are allowed to finish.
func (d *Dispatcher) Stop() {
	d.cron.Stop()
}

// Minimum spacing between firings per frequency. Slightly under the nominal
// period so a firing a minute early never skips a whole cycle.
var freqGap = map[string]time.Duration{
	FreqDaily:   23 * time.Hour,
	FreqWeekly:  6*24*time.Hour + 12*time.Hour,
	FreqMonthly: 27 * 24 * time.Hour,
}

// CheckDue fires the callback for every active message whose time of day
// matches now and whose frequency allows another run. It returns the fired
// messages.
func (d *Dispatcher) CheckDue(now time.Time) []ScheduledMessage {
	clock := now.Format("15:04")
	msgs := d.store.ScheduledMessages()

	var fired []ScheduledMessage
	var deactivate []string
	for _, m := range msgs {
		if !m.Active || m.Time != clock {
			continue
		}
		if !d.allow(m, now) {
			continue
		}
		fired = append(fired, m)
		if m.Frequency == FreqOnce {
			deactivate = append(deactivate, m.ID)
		}
	}

	if len(deactivate) > 0 {
		for i := range msgs {
			for _, id := range deactivate {
				if msgs[i].ID == id {
					msgs[i].Active = false
				}
			}
		}
		d.store.SaveScheduledMessages(msgs)
	}

	for _, m := range fired {
		slog.Info("scheduled message due", "id", m.ID, "group", m.GroupJID, "frequency", m.Frequency)
		if d.onDue != nil {
			d.onDue(m)
		}
	}
	return fired
}

// allow checks and records the firing gap for the message.
func (d *Dispatcher) allow(m ScheduledMessage, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	last, ran := d.lastRun[m.ID]
	if ran {
		if m.Frequency == FreqOnce {
			return false
		}
		gap, ok := freqGap[m.Frequency]
		if !ok {
			return false
		}
		if now.Sub(last) < gap {
			return false
		}
	}
	d.lastRun[m.ID] = now
	return true
}

// SweepRentals deactivates rentals whose end date has passed and logs
// rentals about to expire. It returns the ids it deactivated.
func (d *Dispatcher) SweepRentals(now time.Time) []string {
	var expired []string
	for _, r := range d.store.Rentals() {
		if r.Active && r.IsExpired(now) {
			d.store.UpdateRental(r.ID, map[string]any{"active": false})
			slog.Info("rental expired", "id", r.ID, "group", r.GroupJID, "endDate", r.EndDate)
			expired = append(expired, r.ID)
			continue
		}
		if r.Active && r.ExpiresWithin(now, 72*time.Hour) {
			slog.Warn("rental expiring soon", "id", r.ID, "group", r.GroupJID, "endDate", r.EndDate)
		}
	}
	return expired
}
