package competition

import (
	"fmt"
	"testing"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

func TestRoundRobinGenerate_PairCoverage(t *testing.T) {
	tests := []struct {
		teams       int
		wantMatches int
	}{
		{2, 1},
		{3, 3},
		{4, 6},
		{5, 10},
		{8, 28},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_teams", tt.teams), func(t *testing.T) {
			gen := NewRoundRobinGenerator()
			fixtures, err := gen.Generate(drawParams(models.FormatRoundRobin, tt.teams, 1))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fixtures) != tt.wantMatches {
				t.Fatalf("got %d fixtures, want %d", len(fixtures), tt.wantMatches)
			}
			assertUniqueUIDs(t, fixtures)

			// Каждая пара команд встречается ровно один раз.
			pairs := make(map[[2]int]int)
			for _, fm := range fixtures {
				if fm.GroupLabel != nil {
					t.Errorf("fixture %s has a group label, round robin must not", fm.UID)
				}
				if fm.Round != 0 {
					t.Errorf("fixture %s has round %d, want 0", fm.UID, fm.Round)
				}
				if fm.HomeTeamID == nil || fm.AwayTeamID == nil {
					t.Fatalf("fixture %s has undecided teams", fm.UID)
				}
				a, b := *fm.HomeTeamID, *fm.AwayTeamID
				if a == b {
					t.Fatalf("fixture %s pairs team %d with itself", fm.UID, a)
				}
				if a > b {
					a, b = b, a
				}
				pairs[[2]int{a, b}]++
			}
			for pair, count := range pairs {
				if count != 1 {
					t.Errorf("pair %v appears %d times, want 1", pair, count)
				}
			}
		})
	}
}

func TestRoundRobinGenerate_TooFewTeams(t *testing.T) {
	gen := NewRoundRobinGenerator()
	if _, err := gen.Generate(drawParams(models.FormatRoundRobin, 1, 1)); err == nil {
		t.Fatal("expected error for a single team, got nil")
	}
}

func TestRoundRobinGenerate_DeterministicWithSeed(t *testing.T) {
	gen := NewRoundRobinGenerator()

	first, err := gen.Generate(drawParams(models.FormatRoundRobin, 6, 42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := gen.Generate(drawParams(models.FormatRoundRobin, 6, 42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("fixture counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if *first[i].HomeTeamID != *second[i].HomeTeamID || *first[i].AwayTeamID != *second[i].AwayTeamID {
			t.Fatalf("fixture %d differs between identically seeded draws", i)
		}
	}
}
