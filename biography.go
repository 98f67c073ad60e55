package romind

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/scentunivers/romind-go/logging"
	"github.com/scentunivers/romind-go/store"
)

// ──────────────────────────────────────────────
// Biographical Memory — accumulated user facts
// ──────────────────────────────────────────────

const biographyKey = "profile"

// PrimaryFacts are at-most-one-value fields. Once set they are never
// overwritten by a later extraction: a partial match in a later message
// must not contradict what one full message already taught.
type PrimaryFacts struct {
	Name       string `json:"name,omitempty"`
	Birthdate  string `json:"birthdate,omitempty"`
	Location   string `json:"location,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Children   int    `json:"children,omitempty"`
	HasPartner bool   `json:"has_partner,omitempty"`
}

// SecondaryFacts are additive, de-duplicated sets. Entries are added,
// never removed.
type SecondaryFacts struct {
	Likes       []string `json:"likes,omitempty"`
	Dislikes    []string `json:"dislikes,omitempty"`
	Hobbies     []string `json:"hobbies,omitempty"`
	Values      []string `json:"values,omitempty"`
	Possessions []string `json:"possessions,omitempty"`
}

// EmotionalFacts track the user's affective landscape: the first-observed
// dominant emotion and the themes that recur with distress or comfort.
type EmotionalFacts struct {
	Baseline        string   `json:"baseline,omitempty"`
	SensitiveTopics []string `json:"sensitive_topics,omitempty"`
	ComfortTopics   []string `json:"comfort_topics,omitempty"`
}

// ProfileMeta is derived bookkeeping, recomputed on every save and never
// independently trusted.
type ProfileMeta struct {
	UpdatedAt time.Time `json:"updated_at"`
	FactCount int       `json:"fact_count"`
}

// BiographicalProfile is the full structured record. It is monotonically
// non-shrinking for the lifetime of the store.
type BiographicalProfile struct {
	Primary   PrimaryFacts   `json:"primary"`
	Secondary SecondaryFacts `json:"secondary"`
	Emotional EmotionalFacts `json:"emotional"`
	Meta      ProfileMeta    `json:"meta"`
}

// BiographyMemory persists one BiographicalProfile, enriching it from
// each user message via rule-based extractors.
type BiographyMemory struct {
	mu        sync.Mutex
	backend   store.Backend
	namespace string
	lexicon   *Lexicon
	profile   BiographicalProfile
	log       *slog.Logger
}

// NewBiographyMemory loads the profile from the backend. Missing or
// corrupt storage yields an empty profile, never an error.
func NewBiographyMemory(backend store.Backend, namespace string, lexicon *Lexicon) *BiographyMemory {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	m := &BiographyMemory{
		backend:   backend,
		namespace: namespace,
		lexicon:   lexicon,
		log:       logging.New("memory.biography"),
	}
	raw, err := backend.Get(namespace, biographyKey)
	if err != nil || raw == "" {
		return m
	}
	var profile BiographicalProfile
	if json.Unmarshal([]byte(raw), &profile) == nil {
		m.profile = profile
	}
	return m
}

// Extraction patterns, evaluated in declared order. Russian and English.
var (
	reName       = regexp.MustCompile(`(?i)(?:меня зовут|зови меня|my name is|call me)\s+([\p{L}][\p{L}\-]*)`)
	reBirthdate  = regexp.MustCompile(`(?i)(?:я родил(?:ась|ся)|мой день рождения|my birthday is|i was born on)\s+([^,.!?\n]+)`)
	reLocation   = regexp.MustCompile(`(?i)(?:я живу в|я живу на|я из|i live in|i am from|i'm from)\s+([^,.!?\n]+)`)
	reOccupation = regexp.MustCompile(`(?i)(?:я работаю|по профессии я|i work as an?|my job is)\s+([^,.!?\n]+)`)
	reChildren   = regexp.MustCompile(`(?i)у меня\s+(\d+|один|одна|двое|два|две|трое|три|четверо|четыре)\s+(?:дет|реб[её]н)`)
	reChildrenEn = regexp.MustCompile(`(?i)i have\s+(\d+|one|two|three|four)\s+(?:kid|child)`)
	reChildOne   = regexp.MustCompile(`(?i)у меня есть\s+(?:сын|дочь|реб[её]нок)`)
	rePartner    = regexp.MustCompile(`(?i)(?:мой муж|моя жена|мой парень|моя девушка|мой партн[её]р|my husband|my wife|my boyfriend|my girlfriend|my partner)`)
	reLikes      = regexp.MustCompile(`(?i)(?:я люблю|мне нравится|обожаю|i love|i like)\s+([^,.!?\n]+)`)
	reDislikes   = regexp.MustCompile(`(?i)(?:не люблю|терпеть не могу|ненавижу|i hate|i can't stand)\s+([^,.!?\n]+)`)
	reHobbies    = regexp.MustCompile(`(?i)(?:мо[её] хобби|увлекаюсь|мо[её] увлечение|my hobby is|i'm into)\s+([^,.!?\n]+)`)
	reValues     = regexp.MustCompile(`(?i)(?:для меня важн\p{L}*|я ценю|i value)\s+([^,.!?\n]+)`)
	rePossession = regexp.MustCompile(`(?i)(?:у меня есть|i have an?|i own)\s+([^,.!?\n]+)`)
)

// dependentWords keep a family mention out of the possessions set.
var dependentWords = []string{
	"сын", "дочь", "реб", "дет", "муж", "жена", "парень", "девушка",
	"kid", "child", "husband", "wife", "boyfriend", "girlfriend", "partner",
}

var childCountWords = map[string]int{
	"один": 1, "одна": 1, "one": 1,
	"двое": 2, "два": 2, "две": 2, "two": 2,
	"трое": 3, "три": 3, "three": 3,
	"четверо": 4, "четыре": 4, "four": 4,
}

// ExtractAndMerge runs the fixed extractor chain over text, merging any
// matches into the profile: first-write-wins for primary fields, additive
// de-dup for secondary sets. The observed emotion feeds the emotional
// section. The profile is persisted only when something changed.
func (m *BiographyMemory) ExtractAndMerge(text, emotion string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	p := &m.profile

	if p.Primary.Name == "" {
		if match := reName.FindStringSubmatch(text); match != nil {
			p.Primary.Name = strings.TrimSpace(match[1])
			changed = true
		}
	}
	if p.Primary.Birthdate == "" {
		if match := reBirthdate.FindStringSubmatch(text); match != nil {
			p.Primary.Birthdate = strings.TrimSpace(match[1])
			changed = true
		}
	}
	if p.Primary.Location == "" {
		if match := reLocation.FindStringSubmatch(text); match != nil {
			p.Primary.Location = strings.TrimSpace(match[1])
			changed = true
		}
	}
	if p.Primary.Occupation == "" {
		if match := reOccupation.FindStringSubmatch(text); match != nil {
			p.Primary.Occupation = strings.TrimSpace(match[1])
			changed = true
		}
	}
	if p.Primary.Children == 0 {
		if n := extractChildCount(text); n > 0 {
			p.Primary.Children = n
			changed = true
		}
	}
	if !p.Primary.HasPartner && rePartner.MatchString(text) {
		p.Primary.HasPartner = true
		changed = true
	}

	// Dislike phrases are stripped before the likes scan so "не люблю X"
	// never lands in both sets.
	likesText := text
	for _, match := range reDislikes.FindAllStringSubmatch(text, -1) {
		fragment := strings.TrimSpace(match[1])
		if fragment != "" && !isSelfReference(fragment) {
			if appendUnique(&p.Secondary.Dislikes, fragment) {
				changed = true
			}
		}
		likesText = strings.Replace(likesText, match[0], "", 1)
	}
	for _, match := range reLikes.FindAllStringSubmatch(likesText, -1) {
		fragment := strings.TrimSpace(match[1])
		if fragment != "" && !isSelfReference(fragment) {
			if appendUnique(&p.Secondary.Likes, fragment) {
				changed = true
			}
		}
	}
	for _, match := range reHobbies.FindAllStringSubmatch(text, -1) {
		if fragment := strings.TrimSpace(match[1]); fragment != "" {
			if appendUnique(&p.Secondary.Hobbies, fragment) {
				changed = true
			}
		}
	}
	for _, match := range reValues.FindAllStringSubmatch(text, -1) {
		if fragment := strings.TrimSpace(match[1]); fragment != "" {
			if appendUnique(&p.Secondary.Values, fragment) {
				changed = true
			}
		}
	}
	for _, match := range rePossession.FindAllStringSubmatch(text, -1) {
		fragment := strings.TrimSpace(match[1])
		if fragment == "" || containsAny(strings.ToLower(fragment), dependentWords) {
			continue
		}
		if appendUnique(&p.Secondary.Possessions, fragment) {
			changed = true
		}
	}

	emotion = baseEmotion(emotion)
	if p.Emotional.Baseline == "" && ValidEmotion(emotion) {
		p.Emotional.Baseline = emotion
		changed = true
	}
	for _, theme := range m.lexicon.DetectThemes(text) {
		switch {
		case distressedEmotions[emotion]:
			if appendUnique(&p.Emotional.SensitiveTopics, theme) {
				changed = true
			}
		case elevatedEmotions[emotion]:
			if appendUnique(&p.Emotional.ComfortTopics, theme) {
				changed = true
			}
		}
	}

	if changed {
		m.save()
	}
}

// Profile returns a copy of the current profile.
func (m *BiographyMemory) Profile() BiographicalProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyProfile(m.profile)
}

// Summarize renders a fixed-shape digest of everything known about the
// user, with a neutral placeholder for unset fields. It never fails on a
// sparse profile.
func (m *BiographyMemory) Summarize() string {
	m.mu.Lock()
	p := copyProfile(m.profile)
	m.mu.Unlock()

	var b strings.Builder
	b.WriteString("What I know about you:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orPlaceholder(p.Primary.Name))
	fmt.Fprintf(&b, "- Birthdate: %s\n", orPlaceholder(p.Primary.Birthdate))
	fmt.Fprintf(&b, "- Location: %s\n", orPlaceholder(p.Primary.Location))
	fmt.Fprintf(&b, "- Occupation: %s\n", orPlaceholder(p.Primary.Occupation))
	children := placeholder
	if p.Primary.Children > 0 {
		children = strconv.Itoa(p.Primary.Children)
	}
	fmt.Fprintf(&b, "- Children: %s\n", children)
	partner := placeholder
	if p.Primary.HasPartner {
		partner = "yes"
	}
	fmt.Fprintf(&b, "- Partner: %s\n", partner)
	fmt.Fprintf(&b, "- Likes: %s\n", joinOrPlaceholder(p.Secondary.Likes))
	fmt.Fprintf(&b, "- Dislikes: %s\n", joinOrPlaceholder(p.Secondary.Dislikes))
	fmt.Fprintf(&b, "- Hobbies: %s\n", joinOrPlaceholder(p.Secondary.Hobbies))
	fmt.Fprintf(&b, "- Values: %s\n", joinOrPlaceholder(p.Secondary.Values))
	fmt.Fprintf(&b, "- Possessions: %s\n", joinOrPlaceholder(p.Secondary.Possessions))
	fmt.Fprintf(&b, "- Emotional baseline: %s\n", orPlaceholder(p.Emotional.Baseline))
	fmt.Fprintf(&b, "- Sensitive topics: %s\n", joinOrPlaceholder(p.Emotional.SensitiveTopics))
	fmt.Fprintf(&b, "- Comfort topics: %s", joinOrPlaceholder(p.Emotional.ComfortTopics))
	return b.String()
}

// save recomputes the derived meta and writes the profile. Failures are
// logged and swallowed; the in-memory profile remains authoritative.
func (m *BiographyMemory) save() {
	m.profile.Meta.UpdatedAt = time.Now().UTC()
	m.profile.Meta.FactCount = countFacts(&m.profile)

	data, err := json.Marshal(m.profile)
	if err != nil {
		m.log.Warn("marshal failed", "error", err)
		return
	}
	if err := m.backend.Set(m.namespace, biographyKey, string(data)); err != nil {
		m.log.Warn("persist failed", "error", err)
	}
}

func countFacts(p *BiographicalProfile) int {
	count := 0
	for _, set := range []bool{
		p.Primary.Name != "",
		p.Primary.Birthdate != "",
		p.Primary.Location != "",
		p.Primary.Occupation != "",
		p.Primary.Children > 0,
		p.Primary.HasPartner,
		p.Emotional.Baseline != "",
	} {
		if set {
			count++
		}
	}
	count += len(p.Secondary.Likes) + len(p.Secondary.Dislikes) +
		len(p.Secondary.Hobbies) + len(p.Secondary.Values) + len(p.Secondary.Possessions)
	count += len(p.Emotional.SensitiveTopics) + len(p.Emotional.ComfortTopics)
	return count
}

func extractChildCount(text string) int {
	match := reChildren.FindStringSubmatch(text)
	if match == nil {
		match = reChildrenEn.FindStringSubmatch(text)
	}
	if match != nil {
		word := strings.ToLower(match[1])
		if n, ok := childCountWords[word]; ok {
			return n
		}
		if n, err := strconv.Atoi(word); err == nil && n > 0 {
			return n
		}
	}
	if reChildOne.MatchString(text) {
		return 1
	}
	return 0
}

// isSelfReference filters fragments aimed at the agent ("люблю тебя")
// out of the likes/dislikes sets; those are trust cues, not preferences.
func isSelfReference(fragment string) bool {
	lower := strings.ToLower(fragment)
	return strings.HasPrefix(lower, "тебя") || strings.HasPrefix(lower, "you")
}

func appendUnique(set *[]string, value string) bool {
	lower := strings.ToLower(value)
	for _, existing := range *set {
		if strings.ToLower(existing) == lower {
			return false
		}
	}
	*set = append(*set, value)
	return true
}

const placeholder = "not yet known"

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}

func joinOrPlaceholder(values []string) string {
	if len(values) == 0 {
		return placeholder
	}
	return strings.Join(values, ", ")
}

func copyProfile(p BiographicalProfile) BiographicalProfile {
	cp := p
	cp.Secondary.Likes = append([]string(nil), p.Secondary.Likes...)
	cp.Secondary.Dislikes = append([]string(nil), p.Secondary.Dislikes...)
	cp.Secondary.Hobbies = append([]string(nil), p.Secondary.Hobbies...)
	cp.Secondary.Values = append([]string(nil), p.Secondary.Values...)
	cp.Secondary.Possessions = append([]string(nil), p.Secondary.Possessions...)
	cp.Emotional.SensitiveTopics = append([]string(nil), p.Emotional.SensitiveTopics...)
	cp.Emotional.ComfortTopics = append([]string(nil), p.Emotional.ComfortTopics...)
	return cp
}
