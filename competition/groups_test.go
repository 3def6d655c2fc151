package competition

import (
	"fmt"
	"testing"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

func TestGroupsGenerate_EightTeams(t *testing.T) {
	gen := NewGroupsThenKnockoutGenerator()
	fixtures, err := gen.Generate(drawParams(models.FormatGroupsThenKnockout, 8, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 группы по 4: в каждой C(4,2)=6 матчей.
	if len(fixtures) != 12 {
		t.Fatalf("got %d fixtures, want 12", len(fixtures))
	}
	assertUniqueUIDs(t, fixtures)

	byGroup := make(map[string]int)
	teamGroup := make(map[int]string)
	for _, fm := range fixtures {
		if fm.GroupLabel == nil {
			t.Fatalf("fixture %s has no group label", fm.UID)
		}
		byGroup[*fm.GroupLabel]++

		for _, teamID := range []int{*fm.HomeTeamID, *fm.AwayTeamID} {
			if prev, ok := teamGroup[teamID]; ok && prev != *fm.GroupLabel {
				t.Errorf("team %d appears in groups %s and %s", teamID, prev, *fm.GroupLabel)
			}
			teamGroup[teamID] = *fm.GroupLabel
		}
	}

	if len(byGroup) != 2 {
		t.Fatalf("got %d groups, want 2", len(byGroup))
	}
	for _, label := range []string{"A", "B"} {
		if byGroup[label] != 6 {
			t.Errorf("group %s has %d matches, want 6", label, byGroup[label])
		}
	}
	if len(teamGroup) != 8 {
		t.Errorf("%d teams assigned to groups, want 8", len(teamGroup))
	}
}

func TestGroupsGenerate_UnevenLastGroup(t *testing.T) {
	gen := NewGroupsThenKnockoutGenerator()
	fixtures, err := gen.Generate(drawParams(models.FormatGroupsThenKnockout, 9, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 4+3+2: остаток перераспределяется, групп из одной команды не бывает.
	sizes := groupSizesFromFixtures(fixtures)
	if len(fixtures) != 10 {
		t.Fatalf("got %d fixtures, want 10 (groups of 4, 3 and 2)", len(fixtures))
	}
	if len(sizes["A"]) != 4 || len(sizes["B"]) != 3 || len(sizes["C"]) != 2 {
		t.Errorf("group sizes A=%d B=%d C=%d, want 4, 3 and 2",
			len(sizes["A"]), len(sizes["B"]), len(sizes["C"]))
	}
}

func TestGroupsGenerate_EveryTeamPlays(t *testing.T) {
	gen := NewGroupsThenKnockoutGenerator()
	for _, n := range []int{5, 9, 13} {
		fixtures, err := gen.Generate(drawParams(models.FormatGroupsThenKnockout, n, 7))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}

		inFixtures := make(map[int]bool)
		for _, fm := range fixtures {
			inFixtures[*fm.HomeTeamID] = true
			inFixtures[*fm.AwayTeamID] = true
		}
		if len(inFixtures) != n {
			t.Errorf("n=%d: %d teams appear in fixtures, every team must play", n, len(inFixtures))
		}
		for _, teams := range groupSizesFromFixtures(fixtures) {
			if len(teams) < 2 {
				t.Errorf("n=%d: group of %d teams, minimum is 2", n, len(teams))
			}
		}
	}
}

func groupSizesFromFixtures(fixtures []*FixtureMatch) map[string]map[int]bool {
	sizes := make(map[string]map[int]bool)
	for _, fm := range fixtures {
		label := *fm.GroupLabel
		if sizes[label] == nil {
			sizes[label] = make(map[int]bool)
		}
		sizes[label][*fm.HomeTeamID] = true
		sizes[label][*fm.AwayTeamID] = true
	}
	return sizes
}

func TestGroupsGenerate_TooFewTeams(t *testing.T) {
	gen := NewGroupsThenKnockoutGenerator()
	if _, err := gen.Generate(drawParams(models.FormatGroupsThenKnockout, GroupSize-1, 1)); err == nil {
		t.Fatal("expected error for fewer teams than one full group, got nil")
	}
}

func TestGroupsGenerate_NoKnockoutFixtures(t *testing.T) {
	gen := NewGroupsThenKnockoutGenerator()
	fixtures, err := gen.Generate(drawParams(models.FormatGroupsThenKnockout, 16, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Плей-офф формируется после группового этапа, на жеребьёвке его нет.
	for _, fm := range fixtures {
		if fm.Round != 0 {
			t.Errorf("fixture %s has round %d, group stage must have round 0", fm.UID, fm.Round)
		}
		if fm.SourceMatch1UID != nil || fm.SourceMatch2UID != nil {
			t.Errorf("fixture %s references source matches", fm.UID)
		}
	}

	labels := make(map[string]bool)
	for _, fm := range fixtures {
		labels[*fm.GroupLabel] = true
	}
	for i := 0; i < 4; i++ {
		label := fmt.Sprintf("%c", 'A'+i)
		if !labels[label] {
			t.Errorf("expected group %s to exist", label)
		}
	}
}
