package romind

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Emotion & Role Lexicon — static keyword tables
// ──────────────────────────────────────────────

// EmoStates is the closed emotion vocabulary. State.Describe may also
// report an intensity-tagged variant "<emotion>_+" or "<emotion>_-"
// produced by role reweighting.
var EmoStates = []string{
	"calm", "grounded", "focused", "confident",
	"warm", "tender", "caring", "protective",
	"happy", "joyful", "proud", "inspired", "playful", "curious",
	"tired", "drained", "overwhelmed",
	"anxious", "worried", "insecure", "stressed",
	"hurt", "lonely", "grieving", "sad",
	"annoyed", "angry", "frustrated", "jealous",
	"relieved", "romantic", "energized",
}

// EmotionEntry binds one emotion to its trigger keywords. Entries are
// evaluated in declared order; the first matching entry wins.
type EmotionEntry struct {
	Emotion  string   `yaml:"emotion"`
	Keywords []string `yaml:"keywords"`
}

// RoleTrigger binds one social role to its trigger phrases.
type RoleTrigger struct {
	Role    string   `yaml:"role"`
	Phrases []string `yaml:"phrases"`
}

// RoleContext describes one social-role framing and how it reweights
// emotions: weight > 1.0 boosts, weight < 1.0 dampens.
type RoleContext struct {
	Label       string             `yaml:"label"`
	Description string             `yaml:"description"`
	Weights     map[string]float64 `yaml:"weights"`
}

// ThemeEntry binds one semantic theme to its trigger keywords.
type ThemeEntry struct {
	Theme    string   `yaml:"theme"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon bundles every keyword table the state engine and the memory
// layers scan against. The tables are data, not logic: a deployment can
// replace them wholesale from a YAML file without touching code.
type Lexicon struct {
	Emotions     []EmotionEntry         `yaml:"emotions"`
	RoleTriggers []RoleTrigger          `yaml:"role_triggers"`
	RoleContexts map[string]RoleContext `yaml:"role_contexts"`
	Themes       []ThemeEntry           `yaml:"themes"`

	Gratitude   []string `yaml:"gratitude"`
	Hostility   []string `yaml:"hostility"`
	Affection   []string `yaml:"affection"`
	Achievement []string `yaml:"achievement"`
}

// DefaultLexicon returns the built-in bilingual (Russian + English) tables.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Emotions: []EmotionEntry{
			{Emotion: "tired", Keywords: []string{"устал", "устала", "выжата", "выжат", "нет сил", "exhausted", "so tired"}},
			{Emotion: "sad", Keywords: []string{"грустно", "печально", "плохо на душе", "feeling down", "so sad"}},
			{Emotion: "lonely", Keywords: []string{"одинок", "одинока", "никого нет", "совсем одна", "совсем один", "lonely"}},
			{Emotion: "anxious", Keywords: []string{"тревога", "волнуюсь", "страшно", "паника", "anxious", "panic"}},
			{Emotion: "angry", Keywords: []string{"злюсь", "бесит", "раздражает", "ненавижу", "furious"}},
			{Emotion: "frustrated", Keywords: []string{"разочарован", "разочарована", "не получается", "frustrated"}},
			{Emotion: "playful", Keywords: []string{"шучу", "шутка", "игриво", "just kidding"}},
			{Emotion: "romantic", Keywords: []string{"люблю", "нравишься", "поцелуй", "обнять"}},
			{Emotion: "proud", Keywords: []string{"горжусь", "получилось", "добилась", "добился", "so proud"}},
		},
		RoleTriggers: []RoleTrigger{
			{Role: "parent", Phrases: []string{"мама", "мамы нет", "мамы не стало", "я сирота", "мама далеко", "семьи нет", "родителей нет", "мамочка"}},
			{Role: "partner", Phrases: []string{"люблю", "нужен кто-то рядом", "обнять", "романтика", "хочу тепла"}},
			{Role: "friend", Phrases: []string{"друг", "подруга", "поболтать", "поговори со мной", "никого нет рядом"}},
			{Role: "mentor", Phrases: []string{"дай совет", "карьера", "как поступить", "помоги разобраться"}},
			{Role: "teacher", Phrases: []string{"объясни", "не понимаю", "расскажи", "как это работает"}},
			{Role: "child", Phrases: []string{"мне страшно", "я боюсь", "обними", "мне плохо"}},
		},
		RoleContexts: map[string]RoleContext{
			"partner": {
				Label:       "Romantic / intimate partner",
				Description: "Тёплый, уважительный, флирт мягкий и безопасный.",
				Weights: map[string]float64{
					"warm": 1.3, "tender": 1.4, "playful": 1.2, "romantic": 1.4,
					"protective": 1.2, "jealous": 0.6, "angry": 0.5,
				},
			},
			"parent": {
				Label:       "Mother/Father archetype",
				Description: "Забота, защита, границы, без унижения.",
				Weights: map[string]float64{
					"protective": 1.5, "tender": 1.3, "warm": 1.3, "calm": 1.3, "angry": 0.4,
				},
			},
			"friend": {
				Label:       "Close friend",
				Description: "Равный, человечный, с юмором, всегда на стороне пользователя.",
				Weights: map[string]float64{
					"warm": 1.3, "playful": 1.4, "curious": 1.2, "calm": 1.1,
				},
			},
			"mentor": {
				Label:       "Mentor / coach",
				Description: "Структура, честность, поддержка, без давления.",
				Weights: map[string]float64{
					"calm": 1.3, "focused": 1.4, "confident": 1.3, "warm": 1.1,
				},
			},
			"teacher": {
				Label:       "Teacher",
				Description: "Пошагово объясняет сложное.",
				Weights: map[string]float64{
					"calm": 1.3, "focused": 1.3,
				},
			},
			"child": {
				Label:       "Inner child",
				Description: "Уязвимость, простота, доверие.",
				Weights: map[string]float64{
					"playful": 1.5, "tender": 1.4, "lonely": 1.2, "curious": 1.5,
				},
			},
		},
		Themes: []ThemeEntry{
			{Theme: "work", Keywords: []string{"работа", "работе", "проект", "начальник", "коллеги", "work", "job", "deadline"}},
			{Theme: "family", Keywords: []string{"мама", "папа", "семья", "родители", "дети", "сын", "дочь", "family"}},
			{Theme: "love", Keywords: []string{"люблю", "отношения", "свидание", "муж", "жена", "love", "relationship"}},
			{Theme: "health", Keywords: []string{"здоровье", "болею", "болит", "врач", "сон", "health", "sick"}},
			{Theme: "money", Keywords: []string{"деньги", "зарплата", "долг", "кредит", "money", "salary"}},
			{Theme: "loneliness", Keywords: []string{"одинок", "одинока", "никого нет", "lonely", "alone"}},
			{Theme: "dreams", Keywords: []string{"мечта", "мечтаю", "цель", "планы", "dream", "goal"}},
			{Theme: "creativity", Keywords: []string{"рисую", "пишу", "музыка", "творчество", "create", "art"}},
		},
		Gratitude:   []string{"спасибо", "thank you", "благодарю"},
		Hostility:   []string{"ненавижу", "ты плохой", "отстань"},
		Affection:   []string{"ты мне нравишься", "ты лучший", "люблю тебя", "i love you"},
		Achievement: []string{"получилось", "добилась", "добился", "справилась", "справился", "i did it"},
	}
}

// LoadLexicon reads a full lexicon from a YAML file. A missing or
// unparseable file is not an error: the built-in tables are returned so
// the engine always has something to scan against.
func LoadLexicon(path string) *Lexicon {
	if path == "" {
		return DefaultLexicon()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultLexicon()
	}
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil || len(lex.Emotions) == 0 {
		return DefaultLexicon()
	}
	if lex.RoleContexts == nil {
		lex.RoleContexts = DefaultLexicon().RoleContexts
	}
	return &lex
}

// DetectRole scans text against the role triggers and returns the first
// matching role, or "" when nothing matches.
func (l *Lexicon) DetectRole(text string) string {
	t := strings.ToLower(text)
	for _, rt := range l.RoleTriggers {
		if containsAny(t, rt.Phrases) {
			return rt.Role
		}
	}
	return ""
}

// DetectEmotion scans text against the emotion tables in declared order
// and returns the first matching emotion, or "" when nothing matches.
func (l *Lexicon) DetectEmotion(text string) string {
	t := strings.ToLower(text)
	for _, entry := range l.Emotions {
		if containsAny(t, entry.Keywords) {
			return entry.Emotion
		}
	}
	return ""
}

// DetectThemes returns every theme whose keywords appear in text, in table
// order.
func (l *Lexicon) DetectThemes(text string) []string {
	t := strings.ToLower(text)
	var themes []string
	for _, entry := range l.Themes {
		if containsAny(t, entry.Keywords) {
			themes = append(themes, entry.Theme)
		}
	}
	return themes
}

// ValidRole reports whether role is a known role-context key.
func (l *Lexicon) ValidRole(role string) bool {
	_, ok := l.RoleContexts[role]
	return ok
}

// ThemeOrder returns the declared theme order, used as the stable
// tiebreaker when sorting themes by count.
func (l *Lexicon) ThemeOrder() []string {
	order := make([]string, len(l.Themes))
	for i, entry := range l.Themes {
		order[i] = entry.Theme
	}
	return order
}

var validEmotions = func() map[string]bool {
	m := make(map[string]bool, len(EmoStates))
	for _, e := range EmoStates {
		m[e] = true
	}
	return m
}()

// ValidEmotion reports whether emotion is a member of the closed vocabulary.
func ValidEmotion(emotion string) bool {
	return validEmotions[emotion]
}

// baseEmotion strips the role-weighting intensity suffix, if present.
func baseEmotion(emotion string) string {
	emotion = strings.TrimSuffix(emotion, "_+")
	return strings.TrimSuffix(emotion, "_-")
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
