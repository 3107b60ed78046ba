package internal

import (
	"encoding/json"
	"log/slog"
)

// Storage keys, one JSON document per collection. The key names are shared
// with the original panel so an existing database keeps working.
const (
	keyGroups    = "odinbot_groups"
	keyRentals   = "odinbot_rentals"
	keyWarnings  = "odinbot_warnings"
	keyBlacklist = "odinbot_blacklist"
	keyScheduled = "odinbot_scheduled"
	keySettings  = "odinbot_settings"
)

type record interface {
	RecordID() string
}

// Store gives typed CRUD access to the six collections on top of a KV
// medium. It never returns errors: unreadable data yields the collection
// default and failed writes are dropped, so a broken medium degrades the
// panel instead of crashing it. Updates merge only the supplied attributes
// into the existing record.
//
// Each mutation is a full read-modify-write of the whole collection, so two
// interleaved writers lose one writer's change. A single operator is the
// expected concurrency; multi-operator use would need per-record tokens.
type Store struct {
	kv KV
}

// NewStore creates a store over the given medium.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func getList[T record](s *Store, key string) []T {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		slog.Warn("store read failed, using default", "key", key, "err", err)
		return []T{}
	}
	if !ok {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Warn("store payload unparsable, using default", "key", key, "err", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func saveList[T record](s *Store, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		slog.Warn("store write dropped", "key", key, "err", err)
		return
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		slog.Warn("store write dropped", "key", key, "err", err)
	}
}

func addItem[T record](s *Store, key string, item T) {
	items := getList[T](s, key)
	items = append(items, item)
	saveList(s, key, items)
}

// updateItem merges the supplied attributes into the record with the given
// id. Unmarshalling the patch into the existing record touches exactly the
// attributes present in it, which is the shallow-merge contract. Unknown ids
// are a silent no-op.
func updateItem[T record](s *Store, key, id string, updates map[string]any) {
	items := getList[T](s, key)
	for i := range items {
		if items[i].RecordID() != id {
			continue
		}
		patch, err := json.Marshal(updates)
		if err != nil {
			slog.Warn("store update dropped", "key", key, "id", id, "err", err)
			return
		}
		if err := json.Unmarshal(patch, &items[i]); err != nil {
			slog.Warn("store update dropped", "key", key, "id", id, "err", err)
			return
		}
		saveList(s, key, items)
		return
	}
}

func deleteItem[T record](s *Store, key, id string) {
	items := getList[T](s, key)
	kept := items[:0]
	for _, it := range items {
		if it.RecordID() != id {
			kept = append(kept, it)
		}
	}
	saveList(s, key, kept)
}

// Groups

func (s *Store) Groups() []GroupConfig          { return getList[GroupConfig](s, keyGroups) }
func (s *Store) SaveGroups(items []GroupConfig) { saveList(s, keyGroups, items) }
func (s *Store) AddGroup(g GroupConfig)         { addItem(s, keyGroups, g) }
func (s *Store) DeleteGroup(id string)          { deleteItem[GroupConfig](s, keyGroups, id) }

func (s *Store) UpdateGroup(id string, updates map[string]any) {
	updateItem[GroupConfig](s, keyGroups, id, updates)
}

// Rentals

func (s *Store) Rentals() []Rental          { return getList[Rental](s, keyRentals) }
func (s *Store) SaveRentals(items []Rental) { saveList(s, keyRentals, items) }
func (s *Store) AddRental(r Rental)         { addItem(s, keyRentals, r) }
func (s *Store) DeleteRental(id string)     { deleteItem[Rental](s, keyRentals, id) }

func (s *Store) UpdateRental(id string, updates map[string]any) {
	updateItem[Rental](s, keyRentals, id, updates)
}

// Warnings are append-only: there is no update operation.

func (s *Store) Warnings() []Warning          { return getList[Warning](s, keyWarnings) }
func (s *Store) SaveWarnings(items []Warning) { saveList(s, keyWarnings, items) }
func (s *Store) AddWarning(w Warning)         { addItem(s, keyWarnings, w) }
func (s *Store) DeleteWarning(id string)      { deleteItem[Warning](s, keyWarnings, id) }

// Blacklist is add/remove only.

func (s *Store) Blacklist() []BlacklistEntry          { return getList[BlacklistEntry](s, keyBlacklist) }
func (s *Store) SaveBlacklist(items []BlacklistEntry) { saveList(s, keyBlacklist, items) }
func (s *Store) AddToBlacklist(e BlacklistEntry)      { addItem(s, keyBlacklist, e) }
func (s *Store) RemoveFromBlacklist(id string)        { deleteItem[BlacklistEntry](s, keyBlacklist, id) }

// Scheduled messages

func (s *Store) ScheduledMessages() []ScheduledMessage {
	return getList[ScheduledMessage](s, keyScheduled)
}
func (s *Store) SaveScheduledMessages(items []ScheduledMessage) { saveList(s, keyScheduled, items) }
func (s *Store) AddScheduledMessage(m ScheduledMessage)         { addItem(s, keyScheduled, m) }
func (s *Store) DeleteScheduledMessage(id string) {
	deleteItem[ScheduledMessage](s, keyScheduled, id)
}

// Settings singleton

func (s *Store) Settings() BotSettings {
	raw, ok, err := s.kv.Get(keySettings)
	if err != nil {
		slog.Warn("store read failed, using default", "key", keySettings, "err", err)
		return DefaultSettings()
	}
	if !ok {
		return DefaultSettings()
	}
	var settings BotSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		slog.Warn("store payload unparsable, using default", "key", keySettings, "err", err)
		return DefaultSettings()
	}
	return settings
}

func (s *Store) SaveSettings(settings BotSettings) {
	raw, err := json.Marshal(settings)
	if err != nil {
		slog.Warn("store write dropped", "key", keySettings, "err", err)
		return
	}
	if err := s.kv.Set(keySettings, string(raw)); err != nil {
		slog.Warn("store write dropped", "key", keySettings, "err", err)
	}
}
