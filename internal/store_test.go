package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_AddThenGet(t *testing.T) {
	s := TestStore(t)

	g := GroupConfig{
		ID:         NewID(),
		Name:       "Familia",
		JID:        "120363000000@g.us",
		Welcome:    true,
		WelcomeMsg: "Oi!",
		Prefix:     "#",
		MutedUsers: []string{"5592999999999@s.whatsapp.net"},
		Active:     true,
	}
	s.AddGroup(g)

	groups := s.Groups()
	require.Len(t, groups, 1)
	require.Equal(t, g, groups[0])
}

func TestStore_InsertionOrderPreserved(t *testing.T) {
	s := TestStore(t)

	ids := []string{"a1", "b2", "c3"}
	for _, id := range ids {
		s.AddWarning(Warning{ID: id, Reason: "spam"})
	}

	warnings := s.Warnings()
	require.Len(t, warnings, 3)
	for i, id := range ids {
		require.Equal(t, id, warnings[i].ID)
	}
}

func TestStore_UpdateMergesOnlySuppliedAttributes(t *testing.T) {
	s := TestStore(t)

	g := GroupConfig{
		ID:         "g1",
		Name:       "Original",
		JID:        "abc@g.us",
		Welcome:    true,
		WelcomeMsg: "hello",
		Antilink:   true,
		Prefix:     "#",
		MutedUsers: []string{"u1"},
		Active:     true,
	}
	s.AddGroup(g)

	s.UpdateGroup("g1", map[string]any{"name": "Renamed", "antilink": false})

	got := s.Groups()[0]
	want := g
	want.Name = "Renamed"
	want.Antilink = false
	require.Equal(t, want, got)
}

func TestStore_UpdateUnknownIDIsNoOp(t *testing.T) {
	s := TestStore(t)

	r := Rental{ID: "r1", GroupName: "Grupo", Plan: PlanMonthly, Value: 25, Active: true}
	s.AddRental(r)

	s.UpdateRental("missing", map[string]any{"active": false})

	rentals := s.Rentals()
	require.Len(t, rentals, 1)
	require.Equal(t, r, rentals[0])
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s := TestStore(t)

	s.AddToBlacklist(BlacklistEntry{ID: "b1", Number: "5511999999999"})
	s.AddToBlacklist(BlacklistEntry{ID: "b2", Number: "5511888888888"})

	s.RemoveFromBlacklist("b1")
	once := s.Blacklist()

	s.RemoveFromBlacklist("b1")
	twice := s.Blacklist()

	require.Equal(t, once, twice)
	require.Len(t, twice, 1)
	require.Equal(t, "b2", twice[0].ID)
}

func TestStore_EmptyAndUnparsablePayloadsYieldDefault(t *testing.T) {
	kv := NewMemKV()
	s := NewStore(kv)

	require.Empty(t, s.Rentals())

	require.NoError(t, kv.Set(keyRentals, "{not json"))
	require.Empty(t, s.Rentals())

	require.NoError(t, kv.Set(keySettings, "]["))
	require.Equal(t, DefaultSettings(), s.Settings())
}

func TestStore_SettingsSingleton(t *testing.T) {
	s := TestStore(t)

	require.Equal(t, DefaultSettings(), s.Settings())

	custom := BotSettings{
		BotName:     "MeuBot",
		OwnerName:   "Ana",
		OwnerNumber: "5511000000000",
		Prefix:      "!",
		AutoRead:    false,
		MaxWarnings: 5,
	}
	s.SaveSettings(custom)
	require.Equal(t, custom, s.Settings())
}

func TestStore_UnavailableMediumIsEphemeral(t *testing.T) {
	s := NewStore(NullKV{})

	s.AddGroup(GroupConfig{ID: "g1", Name: "Perdido"})
	require.Empty(t, s.Groups())

	s.SaveSettings(BotSettings{BotName: "X"})
	require.Equal(t, DefaultSettings(), s.Settings())
}

func TestStore_ScheduledMessagesRoundTrip(t *testing.T) {
	s := TestStore(t)

	m := ScheduledMessage{
		ID:        NewID(),
		GroupJID:  "xyz@g.us",
		GroupName: "Avisos",
		Message:   "Bom dia!",
		Time:      "08:00",
		Frequency: FreqDaily,
		Active:    true,
		ImageURL:  "https://example.com/sun.png",
	}
	s.AddScheduledMessage(m)

	msgs := s.ScheduledMessages()
	require.Len(t, msgs, 1)
	require.Equal(t, m, msgs[0])

	s.DeleteScheduledMessage(m.ID)
	require.Empty(t, s.ScheduledMessages())
}

func TestStore_PersistsAcrossInstancesOnSameMedium(t *testing.T) {
	kv := TestTempKV(t)

	first := NewStore(kv)
	first.AddRental(Rental{ID: "r1", GroupName: "Grupo", Plan: PlanAnnual, Value: 120, Active: true})

	second := NewStore(kv)
	rentals := second.Rentals()
	require.Len(t, rentals, 1)
	require.Equal(t, "r1", rentals[0].ID)
}
