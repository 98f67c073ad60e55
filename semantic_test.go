package romind

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scentunivers/romind-go/store"
)

func TestSemantic_CountsGrow(t *testing.T) {
	m := NewSemanticMemory(store.NewMemory(), "semantic:test", DefaultLexicon())
	m.Index("опять работа допоздна", "tired")
	m.Index("работа и только работа", "tired")
	if got := m.Count("work"); got != 2 {
		t.Fatalf("work count: got %d", got)
	}
	if got := m.Count("family"); got != 0 {
		t.Fatalf("unseen theme count: got %d", got)
	}
}

func TestSemantic_NoThemeNoMutation(t *testing.T) {
	backend := store.NewMemory()
	m := NewSemanticMemory(backend, "semantic:test", DefaultLexicon())
	m.Index("ничего интересного", "calm")
	if len(m.TopThemes(0)) != 0 {
		t.Fatal("no theme match should leave the index empty")
	}
	raw, _ := backend.Get("semantic:test", "index")
	if raw != "" {
		t.Fatal("no theme match should not persist")
	}
}

func TestSemantic_TopThemesOrder(t *testing.T) {
	m := NewSemanticMemory(store.NewMemory(), "semantic:test", DefaultLexicon())
	m.Index("работа", "tired")
	m.Index("работа", "tired")
	m.Index("семья", "warm")
	m.Index("деньги", "anxious")

	want := []ThemeCount{
		{Theme: "work", Count: 2},
		{Theme: "family", Count: 1},
		{Theme: "money", Count: 1},
	}
	if diff := cmp.Diff(want, m.TopThemes(0)); diff != "" {
		t.Fatalf("top themes (-want +got):\n%s", diff)
	}

	if got := m.TopThemes(1); len(got) != 1 || got[0].Theme != "work" {
		t.Fatalf("TopThemes(1): got %v", got)
	}
}

func TestSemantic_TopThemesTieKeepsDeclaredOrder(t *testing.T) {
	m := NewSemanticMemory(store.NewMemory(), "semantic:test", DefaultLexicon())
	// index in reverse of declared order; counts are all equal
	m.Index("мечта", "inspired")
	m.Index("деньги", "anxious")
	m.Index("работа", "tired")

	got := m.TopThemes(0)
	want := []ThemeCount{
		{Theme: "work", Count: 1},
		{Theme: "money", Count: 1},
		{Theme: "dreams", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tie order (-want +got):\n%s", diff)
	}
}

func TestSemantic_DominantEmotion(t *testing.T) {
	m := NewSemanticMemory(store.NewMemory(), "semantic:test", DefaultLexicon())
	m.Index("работа", "tired")
	m.Index("работа", "angry")
	m.Index("работа", "angry")

	dom := m.DominantEmotionPerTheme()
	if dom["work"] != "angry" {
		t.Fatalf("dominant emotion: got %q", dom["work"])
	}
}

func TestSemantic_DominantEmotionTieFirstRecorded(t *testing.T) {
	m := NewSemanticMemory(store.NewMemory(), "semantic:test", DefaultLexicon())
	m.Index("работа", "tired")
	m.Index("работа", "angry")

	dom := m.DominantEmotionPerTheme()
	if dom["work"] != "tired" {
		t.Fatalf("ties go to the first-recorded emotion, got %q", dom["work"])
	}
}

func TestSemantic_VariantTagsCollapse(t *testing.T) {
	m := NewSemanticMemory(store.NewMemory(), "semantic:test", DefaultLexicon())
	m.Index("работа", "tired_-")
	m.Index("работа", "tired")

	dom := m.DominantEmotionPerTheme()
	if dom["work"] != "tired" {
		t.Fatalf("intensity variants should count as their base emotion, got %q", dom["work"])
	}
}

func TestSemantic_RoundTrip(t *testing.T) {
	backend := store.NewMemory()
	m := NewSemanticMemory(backend, "semantic:test", DefaultLexicon())
	m.Index("работа", "tired")
	m.Index("работа", "angry")
	m.Index("семья", "warm")

	reloaded := NewSemanticMemory(backend, "semantic:test", DefaultLexicon())
	if got := reloaded.Count("work"); got != 2 {
		t.Fatalf("reloaded count: got %d", got)
	}
	dom := reloaded.DominantEmotionPerTheme()
	if dom["work"] != "tired" || dom["family"] != "warm" {
		t.Fatalf("reloaded dominant emotions: %v", dom)
	}
}

func TestSemantic_MissingEmotionOrderRebuiltOnLoad(t *testing.T) {
	backend := store.NewMemory()
	backend.Set("semantic:test", "index",
		`{"counts":{"work":3},"co_occurrence":{"work":{"tired":2,"angry":1}}}`)

	m := NewSemanticMemory(backend, "semantic:test", DefaultLexicon())
	dom := m.DominantEmotionPerTheme()
	if dom["work"] != "tired" {
		t.Fatalf("theme without a stored order list must not go silent, got %q", dom["work"])
	}
	if got := m.Count("work"); got != 3 {
		t.Fatalf("count: got %d", got)
	}
}

func TestSemantic_CorruptStoreStartsEmpty(t *testing.T) {
	backend := store.NewMemory()
	backend.Set("semantic:test", "index", "###")
	m := NewSemanticMemory(backend, "semantic:test", DefaultLexicon())
	if len(m.TopThemes(0)) != 0 {
		t.Fatal("corrupt storage should yield an empty index")
	}
}
