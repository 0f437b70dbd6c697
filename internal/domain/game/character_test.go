package game

import "testing"

func TestBreakMoraleByPersonality(t *testing.T) {
	cases := []struct {
		tag            PersonalityTag
		retreatBlocked bool
		want           CombatStatus
	}{
		{PersonalityFightToDeath, false, StatusActive},
		{PersonalityFightToDeath, true, StatusActive},
		{PersonalityFleeWhenBroken, false, StatusRetreating},
		{PersonalityFleeWhenBroken, true, StatusRetreating},
		{PersonalitySurrenderCornered, false, StatusRetreating},
		{PersonalitySurrenderCornered, true, StatusSurrendered},
	}
	for _, tc := range cases {
		c := Character{Status: StatusActive, Personality: tc.tag}
		got := c.BreakMorale(tc.retreatBlocked)
		if got != tc.want {
			t.Fatalf("%s blocked=%v: expected %s, got %s", tc.tag, tc.retreatBlocked, tc.want, got)
		}
	}
}

func TestBreakMoraleIgnoredWhenNotActive(t *testing.T) {
	c := Character{Status: StatusSurrendered, Personality: PersonalityFleeWhenBroken}
	if got := c.BreakMorale(false); got != StatusSurrendered {
		t.Fatalf("expected surrendered to stay, got %s", got)
	}
}

func TestCharacterOut(t *testing.T) {
	for _, s := range []CombatStatus{StatusDefeated, StatusSurrendered, StatusRemoved} {
		c := Character{Status: s}
		if !c.Out() {
			t.Fatalf("expected %s to be out", s)
		}
	}
	for _, s := range []CombatStatus{StatusActive, StatusRetreating} {
		c := Character{Status: s}
		if c.Out() {
			t.Fatalf("expected %s to still act", s)
		}
	}
}

func TestAttributeAndSkillDefaults(t *testing.T) {
	c := Character{Attributes: map[string]int{"agility": 4}}
	if got := c.Attribute("agility"); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := c.Attribute("willpower"); got != 1 {
		t.Fatalf("missing attribute must default to 1, got %d", got)
	}
	if got := c.Skill("melee"); got != 1 {
		t.Fatalf("unskilled must roll at 1, got %d", got)
	}
}

func TestRangeBandSteps(t *testing.T) {
	if RangeFar.Closer() != RangeNear || RangeNear.Closer() != RangeEngaged {
		t.Fatalf("closing must walk far->near->engaged")
	}
	if RangeEngaged.Closer() != RangeEngaged {
		t.Fatalf("engaged is the closest band")
	}
	if RangeEngaged.Farther() != RangeNear || RangeNear.Farther() != RangeFar {
		t.Fatalf("retreating must walk engaged->near->far")
	}
}
