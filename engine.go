package romind

import (
	"context"
	"log/slog"
	"strings"

	"github.com/scentunivers/romind-go/logging"
	"github.com/scentunivers/romind-go/store"
)

// ──────────────────────────────────────────────
// Conversation Engine — the per-message pipeline
// ──────────────────────────────────────────────

// emptyMessageReply is the fixed clarification for a blank message.
const emptyMessageReply = "Я рядом. Скажи, что у тебя на душе."

// Inbound is one incoming conversational event.
type Inbound struct {
	SessionID string    `json:"session_id,omitempty"`
	Persona   string    `json:"persona,omitempty"`
	Message   string    `json:"message"`
	History   []Message `json:"history,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// Outbound is the engine's reply: the post-update state snapshot and the
// reply text.
type Outbound struct {
	SessionID string   `json:"session_id"`
	State     Snapshot `json:"state"`
	Reply     string   `json:"reply"`
}

// Engine wires the state engine, the memory layers, the response adapter
// and the external model into the per-message pipeline. No input ever
// produces an error visible to the caller.
type Engine struct {
	sessions  *SessionManager
	adapter   *ResponseAdapter
	completer Completer
	matrix    PersonaMatrix
	log       *slog.Logger
}

// EngineConfig assembles an Engine.
type EngineConfig struct {
	Backend   store.Backend    // required
	Lexicon   *Lexicon         // nil = built-in tables
	Completer Completer        // nil = offline replies only
	Matrix    PersonaMatrix    // optional persona enrichment
	Adapter   *ResponseAdapter // nil = clock-seeded adapter
}

// NewEngine creates the conversation engine.
func NewEngine(cfg EngineConfig) *Engine {
	backend := cfg.Backend
	if backend == nil {
		backend = store.NewMemory()
	}
	adapter := cfg.Adapter
	if adapter == nil {
		adapter = NewResponseAdapter()
	}
	return &Engine{
		sessions:  NewSessionManager(backend, cfg.Lexicon),
		adapter:   adapter,
		completer: cfg.Completer,
		matrix:    cfg.Matrix,
		log:       logging.New("engine"),
	}
}

// Session exposes the session for id, mainly for inspection commands.
func (e *Engine) Session(id string) *Session {
	return e.sessions.Get(id)
}

// Process handles one inbound message end to end: persona switch, teach
// directive, state update, memory recording, and reply generation with
// offline fallback.
func (e *Engine) Process(ctx context.Context, in Inbound) Outbound {
	session := e.sessions.Get(in.SessionID)
	session.mu.Lock()
	defer session.mu.Unlock()

	if in.Persona != "" {
		session.State.SwitchPersona(in.Persona)
	}

	text := strings.TrimSpace(in.Message)
	if text == "" {
		return Outbound{SessionID: session.ID, State: session.State.Describe(), Reply: emptyMessageReply}
	}

	if content, matched := ParseTeachDirective(text); matched {
		if content == "" {
			return Outbound{SessionID: session.ID, State: session.State.Describe(), Reply: TeachClarify}
		}
		source := in.Source
		if source == "" {
			source = "user"
		}
		session.Rules.Remember(content, source)
		session.State.SetEmotion("warm")
		return Outbound{SessionID: session.ID, State: session.State.Describe(), Reply: TeachAck}
	}

	session.State.UpdateFromText(text)
	snap := session.State.Describe()

	session.Episodic.Record(text, snap.Persona, snap.RoleContext, snap.Emotion, snap.Trust)
	session.Biography.ExtractAndMerge(text, snap.Emotion)
	session.Semantic.Index(text, snap.Emotion)

	reply := e.reply(ctx, session, snap, text, in.History)
	return Outbound{SessionID: session.ID, State: snap, Reply: reply}
}

// reply asks the external model for a completion and falls back to the
// rule-based offline path on any failure.
func (e *Engine) reply(ctx context.Context, session *Session, snap Snapshot, text string, history []Message) string {
	if e.completer != nil {
		prompt := e.systemPrompt(session, snap)
		answer, err := e.completer.Complete(ctx, prompt, history, text)
		if err == nil && answer != "" {
			return answer
		}
		if err != nil {
			e.log.Warn("model call failed, using offline reply", "session", session.ID, "error", err)
		}
	}
	return e.offlineReply(session, snap)
}

// systemPrompt renders the instruction document plus a short digest of
// explicitly taught rules.
func (e *Engine) systemPrompt(session *Session, snap Snapshot) string {
	prompt := BuildSystemPrompt(snap, e.matrix)
	if session.Rules.Len() > 0 {
		prompt += "\n\n" + session.Rules.Digest(5)
	}
	return prompt
}

// offlineReply composes the rule-based reply from the persona base line,
// the emotion-keyed opening and the proximity shaping.
func (e *Engine) offlineReply(session *Session, snap Snapshot) string {
	base := OfflineBase(snap.Persona, snap.Emotion)
	return e.adapter.AdaptiveReply(base, snap, session.Episodic)
}

// SystemPromptFor renders the current system prompt for a session without
// mutating anything. Used by inspection tooling.
func (e *Engine) SystemPromptFor(sessionID string) string {
	session := e.sessions.Get(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()
	return e.systemPrompt(session, session.State.Describe())
}
