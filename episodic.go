package romind

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/scentunivers/romind-go/logging"
	"github.com/scentunivers/romind-go/store"
)

// ──────────────────────────────────────────────
// Episodic Memory — append-only interaction log
// ──────────────────────────────────────────────

const (
	episodicKey        = "log"
	maxEpisodicRecords = 300
)

// EpisodicRecord is one remembered interaction. Records are immutable once
// appended.
type EpisodicRecord struct {
	Time        time.Time `json:"time"`
	UserText    string    `json:"user_text"`
	Persona     string    `json:"persona"`
	RoleContext string    `json:"role_context,omitempty"`
	Emotion     string    `json:"emotion"`
	Trust       float64   `json:"trust"`
}

// EpisodicMemory keeps a capped, ordered log of interactions. The
// in-memory slice is authoritative; the backend is a best-effort mirror —
// a failed persist never loses the in-memory append and is carried
// forward by the next successful one.
type EpisodicMemory struct {
	mu        sync.Mutex
	backend   store.Backend
	namespace string
	max       int
	records   []EpisodicRecord
	log       *slog.Logger
}

// NewEpisodicMemory loads the episodic log from the backend. Unreadable
// or corrupt stored records are skipped, never fatal.
func NewEpisodicMemory(backend store.Backend, namespace string) *EpisodicMemory {
	m := &EpisodicMemory{
		backend:   backend,
		namespace: namespace,
		max:       maxEpisodicRecords,
		log:       logging.New("memory.episodic"),
	}
	raw, err := backend.GetList(namespace, episodicKey)
	if err != nil {
		m.log.Warn("load failed, starting empty", "error", err)
		return m
	}
	for _, item := range raw {
		var rec EpisodicRecord
		if json.Unmarshal([]byte(item), &rec) == nil {
			m.records = append(m.records, rec)
		}
	}
	if len(m.records) > m.max {
		m.records = m.records[len(m.records)-m.max:]
	}
	return m
}

// Record appends one interaction and persists it. Persistence failures
// are logged and swallowed.
func (m *EpisodicMemory) Record(userText, persona, roleContext, emotion string, trust float64) {
	rec := EpisodicRecord{
		Time:        time.Now().UTC(),
		UserText:    userText,
		Persona:     persona,
		RoleContext: roleContext,
		Emotion:     emotion,
		Trust:       round3(trust),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	if len(m.records) > m.max {
		m.records = m.records[len(m.records)-m.max:]
	}

	data, err := json.Marshal(rec)
	if err != nil {
		m.log.Warn("marshal failed", "error", err)
		return
	}
	if err := m.backend.Append(m.namespace, episodicKey, string(data)); err != nil {
		m.log.Warn("persist failed", "error", err)
		return
	}
	if err := m.backend.TrimList(m.namespace, episodicKey, m.max); err != nil {
		m.log.Warn("trim failed", "error", err)
	}
}

// AverageTrust returns the arithmetic mean trust over all records, or 0.0
// for an empty log.
func (m *EpisodicMemory) AverageTrust() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		return 0.0
	}
	var sum float64
	for _, rec := range m.records {
		sum += rec.Trust
	}
	return sum / float64(len(m.records))
}

// LastEmotion returns the emotion of the most recent record, or "".
func (m *EpisodicMemory) LastEmotion() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		return ""
	}
	return m.records[len(m.records)-1].Emotion
}

// Recent returns the last n records, oldest first.
func (m *EpisodicMemory) Recent(n int) []EpisodicRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= 0 || n > len(m.records) {
		n = len(m.records)
	}
	out := make([]EpisodicRecord, n)
	copy(out, m.records[len(m.records)-n:])
	return out
}

// Len returns the number of remembered interactions.
func (m *EpisodicMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
