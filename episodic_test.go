package romind

import (
	"fmt"
	"math"
	"testing"

	"github.com/scentunivers/romind-go/store"
)

func TestEpisodic_RecordAndRecent(t *testing.T) {
	m := NewEpisodicMemory(store.NewMemory(), "episodic:test")
	m.Record("привет", "ROMIND", "", "calm", 0.7)
	m.Record("устала", "ROMIND", "friend", "tired", 0.7)

	if m.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", m.Len())
	}
	recent := m.Recent(1)
	if len(recent) != 1 || recent[0].UserText != "устала" {
		t.Fatalf("Recent(1) should return the newest record, got %+v", recent)
	}
	all := m.Recent(0)
	if len(all) != 2 || all[0].UserText != "привет" {
		t.Fatalf("Recent(0) should return everything oldest first, got %+v", all)
	}
}

func TestEpisodic_AverageTrust(t *testing.T) {
	m := NewEpisodicMemory(store.NewMemory(), "episodic:test")
	if m.AverageTrust() != 0.0 {
		t.Fatal("empty log should average 0.0")
	}
	m.Record("a", "ROMIND", "", "calm", 0.6)
	m.Record("b", "ROMIND", "", "calm", 0.8)
	if got := m.AverageTrust(); math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("expected 0.7, got %v", got)
	}
}

func TestEpisodic_LastEmotion(t *testing.T) {
	m := NewEpisodicMemory(store.NewMemory(), "episodic:test")
	if m.LastEmotion() != "" {
		t.Fatal("empty log has no last emotion")
	}
	m.Record("a", "ROMIND", "", "calm", 0.7)
	m.Record("b", "ROMIND", "", "tired", 0.7)
	if got := m.LastEmotion(); got != "tired" {
		t.Fatalf("expected tired, got %s", got)
	}
}

func TestEpisodic_CapAt300(t *testing.T) {
	backend := store.NewMemory()
	m := NewEpisodicMemory(backend, "episodic:test")
	for i := 0; i < maxEpisodicRecords+25; i++ {
		m.Record(fmt.Sprintf("msg %d", i), "ROMIND", "", "calm", 0.7)
	}
	if m.Len() != maxEpisodicRecords {
		t.Fatalf("expected cap at %d, got %d", maxEpisodicRecords, m.Len())
	}
	oldest := m.Recent(0)[0]
	if oldest.UserText != "msg 25" {
		t.Fatalf("oldest records should be evicted first, got %q", oldest.UserText)
	}
	n, err := backend.ListLength("episodic:test", "log")
	if err != nil || n != maxEpisodicRecords {
		t.Fatalf("backend list should be trimmed to %d, got %d (err=%v)", maxEpisodicRecords, n, err)
	}
}

func TestEpisodic_ReloadFromBackend(t *testing.T) {
	backend := store.NewMemory()
	m := NewEpisodicMemory(backend, "episodic:test")
	m.Record("первый", "RAZ", "mentor", "focused", 0.72)
	m.Record("второй", "RAZ", "mentor", "calm", 0.74)

	reloaded := NewEpisodicMemory(backend, "episodic:test")
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 records after reload, got %d", reloaded.Len())
	}
	rec := reloaded.Recent(1)[0]
	if rec.UserText != "второй" || rec.Persona != "RAZ" || rec.Trust != 0.74 {
		t.Fatalf("reloaded record mismatch: %+v", rec)
	}
}

func TestEpisodic_SkipsCorruptItems(t *testing.T) {
	backend := store.NewMemory()
	backend.Append("episodic:test", "log", "not json")
	backend.Append("episodic:test", "log", `{"user_text":"ок","persona":"ROMIND","emotion":"calm","trust":0.7}`)

	m := NewEpisodicMemory(backend, "episodic:test")
	if m.Len() != 1 {
		t.Fatalf("corrupt items should be skipped, got %d records", m.Len())
	}
	if m.Recent(1)[0].UserText != "ок" {
		t.Fatal("the valid record should survive")
	}
}
