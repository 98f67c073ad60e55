package romind

import (
	"strings"
	"testing"
)

func TestLookupPersona(t *testing.T) {
	if p := LookupPersona("RAZ"); p.Name != "RAZ" {
		t.Fatalf("got %+v", p)
	}
	if p := LookupPersona("UNKNOWN"); p.Name != "ROMIND" {
		t.Fatalf("unknown id should fall back to the default facet, got %+v", p)
	}
}

func TestOfflineBase(t *testing.T) {
	base := OfflineBase("RO", "calm")
	if base != offlineBaseLines["RO"] {
		t.Fatalf("no tail expected for calm: %q", base)
	}

	withTail := OfflineBase("RO", "tired")
	if !strings.HasPrefix(withTail, offlineBaseLines["RO"]) || !strings.HasSuffix(withTail, offlineEmotionTails["tired"]) {
		t.Fatalf("tired tail missing: %q", withTail)
	}

	// intensity variants share the base emotion's tail
	if OfflineBase("RO", "tired_-") != withTail {
		t.Fatal("variant tags should resolve to the same tail")
	}

	if got := OfflineBase("NOPE", "calm"); got != "Я рядом." {
		t.Fatalf("unknown persona should get the neutral line: %q", got)
	}
}

func TestEveryPersonaHasBaselineAndOfflineLine(t *testing.T) {
	for id := range Personalities {
		emotion, ok := personaBaselineEmotion[id]
		if !ok {
			t.Fatalf("persona %s has no baseline emotion", id)
		}
		if !ValidEmotion(emotion) {
			t.Fatalf("persona %s baseline %q is not in the vocabulary", id, emotion)
		}
		if _, ok := offlineBaseLines[id]; !ok {
			t.Fatalf("persona %s has no offline line", id)
		}
	}
}
