package romind

import (
	"strings"
	"testing"
)

func TestState_Defaults(t *testing.T) {
	s := NewState(nil)
	snap := s.Describe()
	if snap.Persona != "ROMIND" {
		t.Fatalf("expected default persona ROMIND, got %s", snap.Persona)
	}
	if snap.Emotion != "calm" {
		t.Fatalf("expected default emotion calm, got %s", snap.Emotion)
	}
	if snap.Trust != 0.7 {
		t.Fatalf("expected default trust 0.7, got %v", snap.Trust)
	}
	if snap.RoleContext != "" {
		t.Fatalf("expected no role context, got %s", snap.RoleContext)
	}
}

func TestState_SwitchPersona(t *testing.T) {
	s := NewState(nil)
	s.SwitchPersona("raz")
	snap := s.Describe()
	if snap.Persona != "RAZ" {
		t.Fatalf("expected RAZ, got %s", snap.Persona)
	}
	if snap.Emotion != "energized" {
		t.Fatalf("expected baseline emotion energized, got %s", snap.Emotion)
	}
}

func TestState_SwitchPersonaInvalid(t *testing.T) {
	s := NewState(nil)
	s.SwitchPersona("NOBODY")
	if snap := s.Describe(); snap.Persona != "ROMIND" {
		t.Fatalf("invalid persona should be ignored, got %s", snap.Persona)
	}
}

func TestState_EmotionKeyword(t *testing.T) {
	s := NewState(nil)
	s.UpdateFromText("я сегодня очень устала")
	snap := s.Describe()
	if snap.Emotion != "tired" {
		t.Fatalf("expected tired, got %s", snap.Emotion)
	}
	if snap.RoleContext != "" {
		t.Fatalf("role context should stay unchanged, got %s", snap.RoleContext)
	}
}

func TestState_TrustFloorsAtZero(t *testing.T) {
	s := NewState(nil)
	for i := 0; i < 50; i++ {
		s.UpdateFromText("ненавижу всё это, отстань")
	}
	if snap := s.Describe(); snap.Trust != 0 {
		t.Fatalf("trust should floor at 0, got %v", snap.Trust)
	}
}

func TestState_TrustCeilsAtOne(t *testing.T) {
	s := NewState(nil)
	for i := 0; i < 50; i++ {
		s.UpdateFromText("спасибо тебе")
	}
	if snap := s.Describe(); snap.Trust != 1 {
		t.Fatalf("trust should ceil at 1, got %v", snap.Trust)
	}
}

func TestState_GratitudeIncrement(t *testing.T) {
	s := NewState(nil)
	s.UpdateFromText("спасибо")
	if snap := s.Describe(); snap.Trust != 0.72 {
		t.Fatalf("expected trust 0.72, got %v", snap.Trust)
	}
}

func TestState_AchievementSetsProud(t *testing.T) {
	s := NewState(nil)
	s.UpdateFromText("у меня всё получилось!")
	snap := s.Describe()
	if baseEmotion(snap.Emotion) != "proud" {
		t.Fatalf("expected proud, got %s", snap.Emotion)
	}
	if snap.Trust <= 0.7 {
		t.Fatalf("achievement should raise trust, got %v", snap.Trust)
	}
}

func TestState_DetectedEmotionNotOverriddenByAchievement(t *testing.T) {
	s := NewState(nil)
	// "устала" matches first; the achievement cue must not replace it.
	s.UpdateFromText("устала, но получилось")
	if snap := s.Describe(); baseEmotion(snap.Emotion) != "tired" {
		t.Fatalf("expected tired, got %s", snap.Emotion)
	}
}

func TestState_RoleDetectionMostRecentWins(t *testing.T) {
	s := NewState(nil)
	s.UpdateFromText("дай совет, как поступить")
	if snap := s.Describe(); snap.RoleContext != "mentor" {
		t.Fatalf("expected mentor, got %s", snap.RoleContext)
	}
	s.UpdateFromText("объясни, не понимаю")
	if snap := s.Describe(); snap.RoleContext != "teacher" {
		t.Fatalf("expected teacher after re-detection, got %s", snap.RoleContext)
	}
}

func TestState_RoleWeightBoostsEmotion(t *testing.T) {
	s := NewState(nil)
	s.SetRoleContext("child")
	s.UpdateFromText("я совсем одна")
	snap := s.Describe()
	// child role boosts lonely (weight 1.2)
	if snap.Emotion != "lonely_+" {
		t.Fatalf("expected lonely_+, got %s", snap.Emotion)
	}
}

func TestState_RoleWeightDampensEmotion(t *testing.T) {
	s := NewState(nil)
	s.SetRoleContext("parent")
	s.UpdateFromText("меня это бесит")
	snap := s.Describe()
	// parent role dampens angry (weight 0.4)
	if snap.Emotion != "angry_-" {
		t.Fatalf("expected angry_-, got %s", snap.Emotion)
	}
}

func TestState_WeightedVariantIsTagged(t *testing.T) {
	s := NewState(nil)
	s.SetRoleContext("partner")
	s.UpdateFromText("хочу обнять тебя")
	snap := s.Describe()
	if !strings.HasSuffix(snap.Emotion, "_+") && !strings.HasSuffix(snap.Emotion, "_-") && !ValidEmotion(snap.Emotion) {
		t.Fatalf("emotion must be vocabulary member or tagged variant, got %s", snap.Emotion)
	}
}

func TestState_SetEmotionInvalidIgnored(t *testing.T) {
	s := NewState(nil)
	s.SetEmotion("nonsense")
	if snap := s.Describe(); snap.Emotion != "calm" {
		t.Fatalf("invalid emotion should be ignored, got %s", snap.Emotion)
	}
}

func TestState_GarbageInputIsNoop(t *testing.T) {
	s := NewState(nil)
	before := s.Describe()
	s.UpdateFromText("qwertyuiop 12345 @@@###")
	after := s.Describe()
	if after.Emotion != before.Emotion || after.Trust != before.Trust || after.RoleContext != before.RoleContext {
		t.Fatalf("garbage input should not change state: before=%+v after=%+v", before, after)
	}
}
