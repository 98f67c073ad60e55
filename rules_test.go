package romind

import (
	"fmt"
	"strings"
	"testing"

	"github.com/scentunivers/romind-go/store"
)

func TestParseTeachDirective(t *testing.T) {
	cases := []struct {
		text    string
		content string
		matched bool
	}{
		{"ROMIND, запомни: always double-check before promising dates", "always double-check before promising dates", true},
		{"роминд, запомни: не обещай лишнего", "не обещай лишнего", true},
		{"romind, remember: be gentle on Mondays", "be gentle on Mondays", true},
		{"  Romind remember:   spaced out  ", "spaced out", true},
		{"romind, запомни:", "", true},
		{"romind, remember:   ", "", true},
		{"запомни: это не директива", "", false},
		{"просто сообщение", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		content, matched := ParseTeachDirective(tc.text)
		if content != tc.content || matched != tc.matched {
			t.Fatalf("ParseTeachDirective(%q) = (%q, %v), want (%q, %v)",
				tc.text, content, matched, tc.content, tc.matched)
		}
	}
}

func TestRules_RememberAndDigest(t *testing.T) {
	m := NewRuleMemory(store.NewMemory(), "rules:test")
	if m.Digest(5) != emptyRulesDigest {
		t.Fatal("empty memory should report the fixed sentence")
	}

	m.Remember("первое правило", "user")
	m.Remember("второе правило", "user")
	if m.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", m.Len())
	}

	want := "Learned rules:\n- первое правило\n- второе правило"
	if got := m.Digest(0); got != want {
		t.Fatalf("digest mismatch:\n%q\nwant:\n%q", got, want)
	}
	if got := m.Digest(1); got != "Learned rules:\n- второе правило" {
		t.Fatalf("Digest(1) should keep only the newest: %q", got)
	}
}

func TestRules_Cap(t *testing.T) {
	m := NewRuleMemory(store.NewMemory(), "rules:test")
	for i := 0; i < maxRules+10; i++ {
		m.Remember(fmt.Sprintf("rule %d", i), "user")
	}
	if m.Len() != maxRules {
		t.Fatalf("expected cap at %d, got %d", maxRules, m.Len())
	}
	if strings.Contains(m.Digest(0), "- rule 9\n") {
		t.Fatal("oldest rules should be evicted")
	}
}

func TestRules_RoundTrip(t *testing.T) {
	backend := store.NewMemory()
	m := NewRuleMemory(backend, "rules:test")
	m.Remember("держи слово", "user")

	reloaded := NewRuleMemory(backend, "rules:test")
	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 rule after reload, got %d", reloaded.Len())
	}
	if got := reloaded.Digest(5); got != "Learned rules:\n- держи слово" {
		t.Fatalf("reloaded digest: %q", got)
	}
}

func TestRules_SkipsCorruptEntries(t *testing.T) {
	backend := store.NewMemory()
	backend.Append("rules:test", "rules", "{broken")
	backend.Append("rules:test", "rules", `{"text":"ок","source":"user"}`)

	m := NewRuleMemory(backend, "rules:test")
	if m.Len() != 1 {
		t.Fatalf("corrupt entries should be skipped, got %d", m.Len())
	}
}
