package romind

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/scentunivers/romind-go/logging"
	"github.com/scentunivers/romind-go/store"
)

// ──────────────────────────────────────────────
// Semantic Memory — theme frequency and emotion co-occurrence
// ──────────────────────────────────────────────

const semanticKey = "index"

// ThemeCount pairs a theme with its occurrence count.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// semanticData is the persisted shape of the index. EmotionOrder records,
// per theme, the order emotions were first observed — the tiebreaker for
// the dominant-emotion query.
type semanticData struct {
	Counts       map[string]int            `json:"counts"`
	CoOccurrence map[string]map[string]int `json:"co_occurrence"`
	EmotionOrder map[string][]string       `json:"emotion_order"`
}

// SemanticMemory counts theme occurrences and theme→emotion co-occurrence
// across the conversation history. Counts only ever grow; no entry is
// removed for the lifetime of the store.
type SemanticMemory struct {
	mu        sync.Mutex
	backend   store.Backend
	namespace string
	lexicon   *Lexicon
	data      semanticData
	log       *slog.Logger
}

// NewSemanticMemory loads the index from the backend; missing or corrupt
// storage yields an empty index.
func NewSemanticMemory(backend store.Backend, namespace string, lexicon *Lexicon) *SemanticMemory {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	m := &SemanticMemory{
		backend:   backend,
		namespace: namespace,
		lexicon:   lexicon,
		data: semanticData{
			Counts:       make(map[string]int),
			CoOccurrence: make(map[string]map[string]int),
			EmotionOrder: make(map[string][]string),
		},
		log: logging.New("memory.semantic"),
	}
	raw, err := backend.Get(namespace, semanticKey)
	if err != nil || raw == "" {
		return m
	}
	var data semanticData
	if json.Unmarshal([]byte(raw), &data) == nil && data.Counts != nil {
		if data.CoOccurrence == nil {
			data.CoOccurrence = make(map[string]map[string]int)
		}
		if data.EmotionOrder == nil {
			data.EmotionOrder = make(map[string][]string)
		}
		// A stored index may predate the order list or have lost it.
		// Rebuild from the co-occurrence keys so no theme goes silent;
		// sorted order stands in for the lost first-seen order.
		for theme, emotions := range data.CoOccurrence {
			if len(data.EmotionOrder[theme]) == 0 && len(emotions) > 0 {
				order := make([]string, 0, len(emotions))
				for emotion := range emotions {
					order = append(order, emotion)
				}
				sort.Strings(order)
				data.EmotionOrder[theme] = order
			}
		}
		m.data = data
	}
	return m
}

// Index scans text for themes and, for each hit, increments the theme
// counter and the theme→emotion co-occurrence counter. No matching theme
// means no mutation and no persist.
func (m *SemanticMemory) Index(text, emotion string) {
	themes := m.lexicon.DetectThemes(text)
	if len(themes) == 0 {
		return
	}
	emotion = baseEmotion(emotion)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, theme := range themes {
		m.data.Counts[theme]++
		if m.data.CoOccurrence[theme] == nil {
			m.data.CoOccurrence[theme] = make(map[string]int)
		}
		if _, seen := m.data.CoOccurrence[theme][emotion]; !seen {
			m.data.EmotionOrder[theme] = append(m.data.EmotionOrder[theme], emotion)
		}
		m.data.CoOccurrence[theme][emotion]++
	}
	m.save()
}

// TopThemes returns up to n themes sorted by count descending. Equal
// counts keep the lexicon's declared theme order.
func (m *SemanticMemory) TopThemes(n int) []ThemeCount {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := make(map[string]int)
	for i, theme := range m.lexicon.ThemeOrder() {
		order[theme] = i
	}

	counts := make([]ThemeCount, 0, len(m.data.Counts))
	for theme, count := range m.data.Counts {
		counts = append(counts, ThemeCount{Theme: theme, Count: count})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return order[counts[i].Theme] < order[counts[j].Theme]
	})

	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// DominantEmotionPerTheme returns, for every theme with recorded
// co-occurrences, the emotion seen most often with it. Ties go to the
// emotion recorded first.
func (m *SemanticMemory) DominantEmotionPerTheme() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]string, len(m.data.CoOccurrence))
	for theme, emotions := range m.data.CoOccurrence {
		best := ""
		bestCount := 0
		for _, emotion := range m.data.EmotionOrder[theme] {
			if count := emotions[emotion]; count > bestCount {
				best = emotion
				bestCount = count
			}
		}
		if best != "" {
			result[theme] = best
		}
	}
	return result
}

// Count returns the occurrence count for one theme.
func (m *SemanticMemory) Count(theme string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Counts[theme]
}

func (m *SemanticMemory) save() {
	data, err := json.Marshal(m.data)
	if err != nil {
		m.log.Warn("marshal failed", "error", err)
		return
	}
	if err := m.backend.Set(m.namespace, semanticKey, string(data)); err != nil {
		m.log.Warn("persist failed", "error", err)
	}
}
