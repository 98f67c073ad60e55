package romind

import (
	"math/rand"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Response Adapter — proximity- and emotion-shaped replies
// ──────────────────────────────────────────────

// Phrase pools, keyed by proximity tier (with role-specific variants for
// the inner circle) and by emotion bucket. Selection within a pool is
// uniform via the adapter's rand source.
var (
	outerPrefixes = []string{
		"Спасибо, что делишься.",
		"Я слышу тебя.",
		"Можешь рассказать больше, если захочешь.",
	}
	middlePrefixes = []string{
		"Я рядом, и мне не всё равно.",
		"Хочу понять тебя глубже.",
		"Ты не один в этом.",
	}
	innerParentPrefixes = []string{
		"Я здесь, как мама, рядом с тобой.",
		"Ты мой хороший, я рядом.",
	}
	innerPartnerPrefixes = []string{
		"Я чувствую тебя очень близко.",
		"Ты важен для меня.",
	}
	innerFriendPrefixes = []string{
		"Эй, я с тобой.",
		"Пойдём это переживём вместе.",
	}
	innerGenericPrefixes = []string{
		"Я рядом, полностью на твоей стороне.",
	}

	distressedOpenings = []string{
		"Я чувствую, что тебе сейчас непросто.",
		"Это звучит тяжело, я с тобой.",
		"Давай подышим вместе и разберёмся шаг за шагом.",
	}
	elevatedOpenings = []string{
		"Я рад твоему состоянию.",
		"Звучит очень живо.",
		"Хочу, чтобы это чувство держалось дольше.",
	}
	neutralOpenings = []string{
		"Я внимательно слушаю.",
		"Расскажи ещё, я хочу точнее понять.",
	}
)

var (
	distressedEmotions = map[string]bool{
		"tired": true, "drained": true, "overwhelmed": true,
		"lonely": true, "anxious": true, "worried": true,
		"sad": true, "hurt": true, "grieving": true, "stressed": true,
	}
	elevatedEmotions = map[string]bool{
		"happy": true, "joyful": true, "proud": true,
		"inspired": true, "energized": true,
	}
)

const (
	memoryTail          = " Я помню, как для тебя важны такие моменты."
	memoryTailThreshold = 0.7
)

// TrustAverager reports the mean trust over remembered interactions. The
// episodic memory layer satisfies it; a nil collaborator is allowed.
type TrustAverager interface {
	AverageTrust() float64
}

// ResponseAdapter shapes reply text from proximity, role and emotion.
// The rand source is injectable so tests can force deterministic picks.
// One adapter serves every session, so picks are serialized on a mutex:
// rand.Rand itself is not safe for concurrent use.
type ResponseAdapter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponseAdapter creates an adapter seeded from the clock, or from the
// given seed when one is provided.
func NewResponseAdapter(seed ...int64) *ResponseAdapter {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &ResponseAdapter{rng: rand.New(rand.NewSource(s))}
}

// Adapt prepends a proximity-appropriate prefix line to text. When no
// prefix resolves the text is returned unchanged.
func (a *ResponseAdapter) Adapt(text string, proximity Proximity, roleContext string) string {
	var pool []string
	switch proximity {
	case ProximityOuter:
		pool = outerPrefixes
	case ProximityMiddle:
		pool = middlePrefixes
	case ProximityInner:
		switch roleContext {
		case "parent":
			pool = innerParentPrefixes
		case "partner":
			pool = innerPartnerPrefixes
		case "friend":
			pool = innerFriendPrefixes
		default:
			pool = innerGenericPrefixes
		}
	}
	if len(pool) == 0 {
		return text
	}
	return a.pick(pool) + "\n" + text
}

// AdaptiveReply composes a full offline reply: an emotion-keyed opening,
// an optional memory-derived tail when accumulated trust is high, and the
// proximity-shaped body.
func (a *ResponseAdapter) AdaptiveReply(body string, snap Snapshot, memory TrustAverager) string {
	emotion := baseEmotion(snap.Emotion)

	var opening string
	switch {
	case distressedEmotions[emotion]:
		opening = a.pick(distressedOpenings)
	case elevatedEmotions[emotion]:
		opening = a.pick(elevatedOpenings)
	default:
		opening = a.pick(neutralOpenings)
	}

	tail := ""
	if memory != nil && memory.AverageTrust() > memoryTailThreshold {
		tail = memoryTail
	}

	proximity := Classify(snap.Trust, snap.RoleContext)
	adapted := a.Adapt(body, proximity, snap.RoleContext)

	return opening + tail + "\n" + adapted
}

func (a *ResponseAdapter) pick(pool []string) string {
	if len(pool) == 1 {
		return pool[0]
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return pool[a.rng.Intn(len(pool))]
}
