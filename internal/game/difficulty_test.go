package game

import "testing"

func TestDifficultyTuning(t *testing.T) {
	cases := []struct {
		difficulty Difficulty
		want       Settings
	}{
		{DifficultyEasy, Settings{ChaserCount: 1, ChaserSpeed: 2.0, BulletInterval: 3.0, BulletSpeed: 3.0}},
		{DifficultyMedium, Settings{ChaserCount: 2, ChaserSpeed: 1.0, BulletInterval: 2.0, BulletSpeed: 5.0}},
		{DifficultyHard, Settings{ChaserCount: 3, ChaserSpeed: 0.5, BulletInterval: 1.0, BulletSpeed: 7.0}},
	}
	for _, tc := range cases {
		if got := tc.difficulty.Tuning(); got != tc.want {
			t.Fatalf("%s tuning = %+v, want %+v", tc.difficulty, got, tc.want)
		}
	}
}

func TestDifficultyTuningFallsBackToMedium(t *testing.T) {
	if got := Difficulty(9).Tuning(); got != DifficultyMedium.Tuning() {
		t.Fatalf("unknown difficulty tuning = %+v, want medium", got)
	}
}

func TestParseDifficulty(t *testing.T) {
	if d, ok := ParseDifficulty("HARD"); !ok || d != DifficultyHard {
		t.Fatalf("ParseDifficulty(HARD) = %v, %v", d, ok)
	}
	if _, ok := ParseDifficulty("IMPOSSIBLE"); ok {
		t.Fatal("expected unknown difficulty to be rejected")
	}
}

func TestDifficultyValid(t *testing.T) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !d.Valid() {
			t.Fatalf("%s should be valid", d)
		}
	}
	if Difficulty(0).Valid() || Difficulty(4).Valid() {
		t.Fatal("out-of-range difficulties should be invalid")
	}
}
