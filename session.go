package romind

import (
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/scentunivers/romind-go/store"
)

// ──────────────────────────────────────────────
// Sessions — per-conversation state and memory
// ──────────────────────────────────────────────

// DefaultSessionID is the session used when the caller supplies none,
// matching the single-shared-conversation behavior of early deployments.
const DefaultSessionID = "default"

// Session owns everything one conversation mutates: its state engine and
// its four memory layers. All processing for a session is serialized on
// its mutex so one incoming message completes as an atomic unit.
type Session struct {
	mu sync.Mutex

	ID        string
	State     *State
	Episodic  *EpisodicMemory
	Biography *BiographyMemory
	Semantic  *SemanticMemory
	Rules     *RuleMemory
}

// SessionManager hands out sessions keyed by conversation id, creating
// them lazily. Distinct sessions never share state: a global lock would
// serialize unrelated conversations, so only the lookup is guarded here.
type SessionManager struct {
	mu       sync.Mutex
	backend  store.Backend
	lexicon  *Lexicon
	sessions map[string]*Session
}

// NewSessionManager creates a manager whose sessions persist through the
// given backend.
func NewSessionManager(backend store.Backend, lexicon *Lexicon) *SessionManager {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &SessionManager{
		backend:  backend,
		lexicon:  lexicon,
		sessions: make(map[string]*Session),
	}
}

// validSessionID restricts ids to a filesystem- and key-safe alphabet.
// Session ids become storage namespaces, so anything outside this set
// (path separators, dots, colons) must never pass through.
var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Get returns the session for id, creating it (and loading its persisted
// memory) on first use. An empty or malformed id is assigned a fresh one.
func (sm *SessionManager) Get(id string) *Session {
	if !validSessionID.MatchString(id) {
		id = uuid.NewString()
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[id]; ok {
		return s
	}
	s := &Session{
		ID:        id,
		State:     NewState(sm.lexicon),
		Episodic:  NewEpisodicMemory(sm.backend, "episodic:"+id),
		Biography: NewBiographyMemory(sm.backend, "biography:"+id, sm.lexicon),
		Semantic:  NewSemanticMemory(sm.backend, "semantic:"+id, sm.lexicon),
		Rules:     NewRuleMemory(sm.backend, "rules:"+id),
	}
	sm.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (sm *SessionManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}
