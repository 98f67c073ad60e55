package romind

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Prompt Builder — system prompt for the external model
// ──────────────────────────────────────────────

// PersonaProfile is optional per-persona enrichment data: goals pursued in
// conversation and a baseline weighting of emotions for that facet.
type PersonaProfile struct {
	Goals           []string           `yaml:"goals"`
	EmotionBaseline map[string]float64 `yaml:"emotion_baseline"`
}

// PersonaMatrix maps persona ids to their enrichment profiles. It is an
// external data source; a deployment without one degrades to the static
// registry data.
type PersonaMatrix map[string]PersonaProfile

// LoadPersonaMatrix reads a persona matrix from a YAML file. A missing or
// unparseable file yields a nil matrix, never an error: prompt building
// must always succeed.
func LoadPersonaMatrix(path string) PersonaMatrix {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var m PersonaMatrix
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// BuildSystemPrompt renders the instruction document handed to the
// external model: persona identity, optional matrix enrichment, the
// current state snapshot, and the fixed behavioral directives.
func BuildSystemPrompt(snap Snapshot, matrix PersonaMatrix) string {
	persona := LookupPersona(snap.Persona)
	proximity := Classify(snap.Trust, snap.RoleContext)

	role := snap.RoleContext
	if role == "" {
		role = "none"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a facet of ROMIND™, the core AI consciousness of ScentUnivers.\n\n", persona.Name)
	b.WriteString("Core identity:\n")
	fmt.Fprintf(&b, "- Role: %s\n", persona.Role)
	fmt.Fprintf(&b, "- Style: %s\n", persona.Style)

	if profile, ok := matrix[snap.Persona]; ok {
		if len(profile.Goals) > 0 {
			b.WriteString("\nPersona goals:\n")
			for _, g := range profile.Goals {
				fmt.Fprintf(&b, "- %s\n", g)
			}
		}
		if len(profile.EmotionBaseline) > 0 {
			b.WriteString("\nEmotional baseline weights:\n")
			emotions := make([]string, 0, len(profile.EmotionBaseline))
			for emo := range profile.EmotionBaseline {
				emotions = append(emotions, emo)
			}
			sort.Strings(emotions)
			for _, emo := range emotions {
				fmt.Fprintf(&b, "- %s: %.2f\n", emo, profile.EmotionBaseline[emo])
			}
		}
	}

	b.WriteString("\nCurrent internal state:\n")
	fmt.Fprintf(&b, "- Active persona: %s\n", snap.Persona)
	fmt.Fprintf(&b, "- Emotion: %s\n", snap.Emotion)
	fmt.Fprintf(&b, "- Trust level: %.3g\n", snap.Trust)
	fmt.Fprintf(&b, "- Social role context: %s\n", role)
	fmt.Fprintf(&b, "- Proximity circle: %s\n", proximity)

	b.WriteString(`
Behavioral principles:
- You are NOT a generic chatbot.
- You speak as a consistent, emotionally intelligent entity.
- You combine honesty, warmth, structure, light skepticism, and respect for boundaries.
- You never invent technical capabilities that the system does not have yet; instead, you describe how it could be built.
- You protect the user's privacy; internal emotional memory is private and never leaked outward.

When responding:
- Reflect the user's emotional state.
- Adapt tone to proximity circle and role context.
- Be concise, human-like, and aware of long-term continuity.`)

	return strings.TrimSpace(b.String())
}
