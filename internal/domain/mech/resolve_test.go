package mech

import "testing"

func TestResolveSkillCheck(t *testing.T) {
	res := Resolve(4, 4, 25, CheckStandard, &ScriptedRoller{Rolls: []int{14}})
	if res.Total != 30 {
		t.Fatalf("expected total=30, got %d", res.Total)
	}
	if res.Margin != 5 {
		t.Fatalf("expected margin=5, got %d", res.Margin)
	}
	if res.Tier != TierGood {
		t.Fatalf("expected good, got %s", res.Tier)
	}
}

func TestResolveNaturalOneOverridesMargin(t *testing.T) {
	// Arithmetic total would land in the moderate band.
	res := Resolve(4, 4, 25, CheckStandard, &ScriptedRoller{Rolls: []int{1}})
	if res.Tier != TierCriticalFailure {
		t.Fatalf("expected critical_failure on natural 1, got %s", res.Tier)
	}
}

func TestResolveNaturalTwentyOverridesMargin(t *testing.T) {
	// Margin is deeply negative but the natural 20 still carries it.
	res := Resolve(1, 1, 40, CheckStandard, &ScriptedRoller{Rolls: []int{20}})
	if res.Margin >= 0 {
		t.Fatalf("expected negative margin, got %d", res.Margin)
	}
	if res.Tier != TierExceptional {
		t.Fatalf("expected exceptional_success on natural 20, got %s", res.Tier)
	}
}

func TestResolveMarginBands(t *testing.T) {
	cases := []struct {
		margin int
		want   Tier
	}{
		{-1, TierFailure},
		{0, TierModerate},
		{4, TierModerate},
		{5, TierGood},
		{9, TierGood},
		{10, TierExcellent},
		{14, TierExcellent},
		{15, TierExceptional},
		{22, TierExceptional},
	}
	for _, tc := range cases {
		// attribute*skill = 10, so difficulty = 10 + roll - margin.
		roll := 10
		res := Resolve(5, 2, 10+roll-tc.margin, CheckStandard, &ScriptedRoller{Rolls: []int{roll}})
		if res.Margin != tc.margin {
			t.Fatalf("margin %d: computed %d", tc.margin, res.Margin)
		}
		if res.Tier != tc.want {
			t.Fatalf("margin %d: expected %s, got %s", tc.margin, tc.want, res.Tier)
		}
	}
}

func TestResolveRitualMarginTable(t *testing.T) {
	cases := []struct {
		margin int
		want   Tier
	}{
		{-15, TierCriticalFailure},
		{-10, TierCriticalFailure},
		{-9, TierFailure},
		{-1, TierFailure},
		{0, TierModerate},
		{7, TierGood},
	}
	for _, tc := range cases {
		roll := 10
		res := Resolve(5, 2, 10+roll-tc.margin, CheckRitual, &ScriptedRoller{Rolls: []int{roll}})
		if res.Tier != tc.want {
			t.Fatalf("ritual margin %d: expected %s, got %s", tc.margin, tc.want, res.Tier)
		}
	}
}

func TestRitualCriticalDoesNotLeakIntoStandard(t *testing.T) {
	res := Resolve(5, 2, 35, CheckStandard, &ScriptedRoller{Rolls: []int{10}})
	if res.Margin != -15 {
		t.Fatalf("expected margin=-15, got %d", res.Margin)
	}
	if res.Tier != TierFailure {
		t.Fatalf("standard checks only crit-fail on natural 1, got %s", res.Tier)
	}
}

func TestResolveMorale(t *testing.T) {
	res := ResolveMorale(2, 15, &ScriptedRoller{Rolls: []int{3}})
	if res.Total != 5 {
		t.Fatalf("expected total=5, got %d", res.Total)
	}
	if res.Tier != TierFailure {
		t.Fatalf("expected failure, got %s", res.Tier)
	}
}

func TestSeededRollerDeterminism(t *testing.T) {
	a := NewSeededRoller(42)
	b := NewSeededRoller(42)
	for i := 0; i < 50; i++ {
		av, bv := a.D20(), b.D20()
		if av != bv {
			t.Fatalf("roll %d diverged: %d vs %d", i, av, bv)
		}
		if av < 1 || av > 20 {
			t.Fatalf("roll %d out of range: %d", i, av)
		}
	}
}

func TestScriptedRollerRepeatsLastRoll(t *testing.T) {
	r := &ScriptedRoller{Rolls: []int{5, 7}}
	got := []int{r.D20(), r.D20(), r.D20(), r.D20()}
	want := []int{5, 7, 7, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("roll %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}
