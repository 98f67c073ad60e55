package romind

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/scentunivers/romind-go/logging"
	"github.com/scentunivers/romind-go/store"
)

// ──────────────────────────────────────────────
// Rule Memory — explicitly taught directives
// ──────────────────────────────────────────────

const (
	rulesKey = "rules"
	maxRules = 200

	// TeachAck is the fixed reply after a directive is stored.
	TeachAck = "Я запомнил. Это теперь часть моей внутренней доктрины."
	// TeachClarify is the fixed reply when the directive content is empty.
	TeachClarify = "Скажи после двоеточия, что именно мне запомнить."

	emptyRulesDigest = "No learned rules yet."
)

// teachPrefixes are the recognized memorization-directive openings. The
// incoming text is lowercased before the prefix check.
var teachPrefixes = []string{
	"romind, запомни:",
	"роминд, запомни:",
	"romind, remember:",
	"romind remember:",
	"роминд запомни:",
}

// RuleEntry is one verbatim remembered directive.
type RuleEntry struct {
	Text   string    `json:"text"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
}

// RuleMemory is a capped, ordered store of explicit "remember this"
// directives.
type RuleMemory struct {
	mu        sync.Mutex
	backend   store.Backend
	namespace string
	max       int
	entries   []RuleEntry
	log       *slog.Logger
}

// NewRuleMemory loads remembered rules from the backend; corrupt entries
// are skipped.
func NewRuleMemory(backend store.Backend, namespace string) *RuleMemory {
	m := &RuleMemory{
		backend:   backend,
		namespace: namespace,
		max:       maxRules,
		log:       logging.New("memory.rules"),
	}
	raw, err := backend.GetList(namespace, rulesKey)
	if err != nil {
		m.log.Warn("load failed, starting empty", "error", err)
		return m
	}
	for _, item := range raw {
		var entry RuleEntry
		if json.Unmarshal([]byte(item), &entry) == nil {
			m.entries = append(m.entries, entry)
		}
	}
	if len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
	return m
}

// Remember appends one directive verbatim and persists it best-effort.
func (m *RuleMemory) Remember(text, source string) {
	entry := RuleEntry{Text: text, Source: source, Time: time.Now().UTC()}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)
	if len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}

	data, err := json.Marshal(entry)
	if err != nil {
		m.log.Warn("marshal failed", "error", err)
		return
	}
	if err := m.backend.Append(m.namespace, rulesKey, string(data)); err != nil {
		m.log.Warn("persist failed", "error", err)
		return
	}
	if err := m.backend.TrimList(m.namespace, rulesKey, m.max); err != nil {
		m.log.Warn("trim failed", "error", err)
	}
}

// Digest renders the last n remembered rules as a bullet list, or a fixed
// sentence when nothing has been taught yet.
func (m *RuleMemory) Digest(n int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		return emptyRulesDigest
	}
	if n <= 0 || n > len(m.entries) {
		n = len(m.entries)
	}
	var b strings.Builder
	b.WriteString("Learned rules:\n")
	recent := m.entries[len(m.entries)-n:]
	for i, entry := range recent {
		b.WriteString("- " + entry.Text)
		if i < len(recent)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Len returns the number of remembered rules.
func (m *RuleMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// ParseTeachDirective checks whether text is a memorization directive.
// It returns the verbatim content after the first colon and whether the
// directive form matched at all; empty content with a matched form means
// the caller should ask for clarification instead of storing.
func ParseTeachDirective(text string) (content string, matched bool) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	for _, prefix := range teachPrefixes {
		if strings.HasPrefix(lower, prefix) {
			_, rest, found := strings.Cut(trimmed, ":")
			if !found {
				return "", true
			}
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
