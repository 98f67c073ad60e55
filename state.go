package romind

import (
	"strings"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// State Engine — persona, emotion, trust, role
// ──────────────────────────────────────────────

const (
	defaultTrust = 0.7

	trustGratitude   = 0.02
	trustAffection   = 0.02
	trustAchievement = 0.02
	trustHostility   = 0.05
)

// State holds the conversational state of one session: active persona,
// current emotion, accumulated trust, inferred social-role context.
//
// All mutating operations are serialized on an internal mutex so that one
// incoming message is processed as a unit. Invalid inputs degrade to
// no-ops: the agent must never crash on malformed or adversarial text.
type State struct {
	mu          sync.Mutex
	lexicon     *Lexicon
	personaID   string
	emotion     string
	trust       float64
	roleContext string
	lastUpdated time.Time
}

// Snapshot is an immutable view of a State at one point in time.
type Snapshot struct {
	Persona     string    `json:"persona"`
	Emotion     string    `json:"emotion"`
	Trust       float64   `json:"trust"`
	RoleContext string    `json:"role_context,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewState creates a State with the default persona, a calm emotion and
// the default trust level. A nil lexicon selects the built-in tables.
func NewState(lexicon *Lexicon) *State {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &State{
		lexicon:     lexicon,
		personaID:   DefaultPersonaID,
		emotion:     "calm",
		trust:       defaultTrust,
		lastUpdated: time.Now().UTC(),
	}
}

// SwitchPersona activates the persona with the given id and adopts that
// facet's baseline emotion. Unknown ids are silently ignored.
func (s *State) SwitchPersona(id string) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if _, ok := Personalities[id]; !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personaID = id
	if emo, ok := personaBaselineEmotion[id]; ok {
		s.emotion = emo
	}
	s.lastUpdated = time.Now().UTC()
}

// SetEmotion forces the current emotion. Values outside the closed
// vocabulary are ignored.
func (s *State) SetEmotion(emotion string) {
	if !ValidEmotion(emotion) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emotion = emotion
	s.lastUpdated = time.Now().UTC()
}

// SetRoleContext sets the social-role framing. Unknown roles clear it.
func (s *State) SetRoleContext(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lexicon.ValidRole(role) {
		s.roleContext = role
	} else {
		s.roleContext = ""
	}
	s.lastUpdated = time.Now().UTC()
}

// UpdateFromText runs the fixed per-message pipeline:
//
//  1. role-context detection (most recent mention wins)
//  2. emotion detection (first matching table entry wins)
//  3. trust cues: gratitude, hostility, affection, achievement —
//     trust is clamped into [0,1] after each adjustment
//  4. role reweighting of the detected emotion (boost/dampen variants)
func (s *State) UpdateFromText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(text)

	if role := s.lexicon.DetectRole(text); role != "" && s.lexicon.ValidRole(role) {
		s.roleContext = role
	}

	detected := s.lexicon.DetectEmotion(text)
	if detected != "" && ValidEmotion(detected) {
		s.emotion = detected
	}

	if containsAny(lower, s.lexicon.Gratitude) {
		s.trust = clamp01(s.trust + trustGratitude)
	}
	if containsAny(lower, s.lexicon.Hostility) {
		s.trust = clamp01(s.trust - trustHostility)
	}
	if containsAny(lower, s.lexicon.Affection) {
		s.trust = clamp01(s.trust + trustAffection)
	}
	if containsAny(lower, s.lexicon.Achievement) {
		s.trust = clamp01(s.trust + trustAchievement)
		if detected == "" {
			s.emotion = "proud"
			detected = "proud"
		}
	}

	if detected != "" && s.roleContext != "" {
		s.emotion = weightEmotion(detected, s.lexicon.RoleContexts[s.roleContext])
	}

	s.lastUpdated = time.Now().UTC()
}

// Describe returns an immutable snapshot. Trust is rounded to three
// decimals so the wire value stays stable across float noise.
func (s *State) Describe() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Persona:     s.personaID,
		Emotion:     s.emotion,
		Trust:       round3(s.trust),
		RoleContext: s.roleContext,
		LastUpdated: s.lastUpdated,
	}
}

// weightEmotion applies the role's emotion-weight table: weight above 1.0
// yields a boosted variant, below 1.0 a dampened one, absent no change.
func weightEmotion(emotion string, rc RoleContext) string {
	w, ok := rc.Weights[emotion]
	if !ok {
		return emotion
	}
	switch {
	case w > 1.0:
		return emotion + "_+"
	case w < 1.0:
		return emotion + "_-"
	default:
		return emotion
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
