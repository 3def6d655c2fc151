package competition

import (
	"testing"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

func playedMatch(home, away, hg, ag int, group *string) *models.Match {
	return &models.Match{
		GroupLabel: group,
		HomeTeamID: &home,
		AwayTeamID: &away,
		HomeGoals:  &hg,
		AwayGoals:  &ag,
		Status:     models.MatchStatusPlayed,
	}
}

func teamsByID(n int) map[int]*models.Team {
	teams := make(map[int]*models.Team, n)
	for _, team := range makeTeams(n) {
		teams[team.ID] = team
	}
	return teams
}

func TestApply_PointsRule(t *testing.T) {
	tests := []struct {
		name       string
		gf, ga     int
		wantPoints int
		wantW      int
		wantD      int
		wantL      int
	}{
		{"win", 3, 1, PointsWin, 1, 0, 0},
		{"draw", 2, 2, PointsDraw, 0, 1, 0},
		{"loss", 0, 4, PointsLoss, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := &models.StandingRow{}
			Apply(row, tt.gf, tt.ga)

			if row.Points != tt.wantPoints {
				t.Errorf("points = %d, want %d", row.Points, tt.wantPoints)
			}
			if row.Wins != tt.wantW || row.Draws != tt.wantD || row.Losses != tt.wantL {
				t.Errorf("W/D/L = %d/%d/%d, want %d/%d/%d",
					row.Wins, row.Draws, row.Losses, tt.wantW, tt.wantD, tt.wantL)
			}
			if row.Played != 1 {
				t.Errorf("played = %d, want 1", row.Played)
			}
			if row.GoalsFor != tt.gf || row.GoalsAgainst != tt.ga {
				t.Errorf("GF/GA = %d/%d, want %d/%d", row.GoalsFor, row.GoalsAgainst, tt.gf, tt.ga)
			}
		})
	}
}

func TestComputeTables_Invariants(t *testing.T) {
	matches := []*models.Match{
		playedMatch(1, 2, 2, 0, nil),
		playedMatch(3, 4, 1, 1, nil),
		playedMatch(1, 3, 0, 1, nil),
		playedMatch(2, 4, 2, 3, nil),
	}

	tables := ComputeTables(matches, teamsByID(4))
	rows, ok := tables[OverallKey]
	if !ok {
		t.Fatal("expected overall table")
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	var totalW, totalL, totalD, totalGF, totalGA, totalPoints, totalPlayed int
	for _, row := range rows {
		totalW += row.Wins
		totalL += row.Losses
		totalD += row.Draws
		totalGF += row.GoalsFor
		totalGA += row.GoalsAgainst
		totalPoints += row.Points
		totalPlayed += row.Played

		if want := row.Wins*PointsWin + row.Draws*PointsDraw; row.Points != want {
			t.Errorf("team %d points = %d, want %d", row.TeamID, row.Points, want)
		}
		if row.Played != row.Wins+row.Draws+row.Losses {
			t.Errorf("team %d played %d != W+D+L %d", row.TeamID, row.Played, row.Wins+row.Draws+row.Losses)
		}
	}

	if totalW != totalL {
		t.Errorf("total wins %d != total losses %d", totalW, totalL)
	}
	if totalGF != totalGA {
		t.Errorf("total goals for %d != against %d", totalGF, totalGA)
	}
	if totalPlayed != 2*len(matches) {
		t.Errorf("total played %d, want %d", totalPlayed, 2*len(matches))
	}
}

func TestComputeTables_SkipsCancelledAndSeedsScheduled(t *testing.T) {
	home, away := 1, 2
	cancelled := &models.Match{
		HomeTeamID: &home,
		AwayTeamID: &away,
		Status:     models.MatchStatusCancelled,
	}
	scheduled := &models.Match{
		HomeTeamID: &home,
		AwayTeamID: &away,
		Status:     models.MatchStatusScheduled,
	}

	tables := ComputeTables([]*models.Match{cancelled, scheduled}, teamsByID(2))
	rows := tables[OverallKey]
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 zero rows from the scheduled match", len(rows))
	}
	for _, row := range rows {
		if row.Played != 0 || row.Points != 0 {
			t.Errorf("team %d has played=%d points=%d, want zeros", row.TeamID, row.Played, row.Points)
		}
	}
}

func TestComputeTables_GroupsAreSeparate(t *testing.T) {
	groupA, groupB := "A", "B"
	matches := []*models.Match{
		playedMatch(1, 2, 1, 0, &groupA),
		playedMatch(3, 4, 2, 2, &groupB),
	}

	tables := ComputeTables(matches, teamsByID(4))
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if len(tables["A"]) != 2 || len(tables["B"]) != 2 {
		t.Errorf("table sizes A=%d B=%d, want 2 and 2", len(tables["A"]), len(tables["B"]))
	}
	for _, row := range tables["A"] {
		if row.GroupLabel == nil || *row.GroupLabel != "A" {
			t.Errorf("row for team %d in table A has wrong group label", row.TeamID)
		}
	}
}

func TestSortTable_TieBreaks(t *testing.T) {
	rows := []*models.StandingRow{
		{TeamID: 1, Points: 6, GoalsFor: 5, GoalsAgainst: 3, Team: &models.Team{ID: 1, Name: "Zenith"}},
		{TeamID: 2, Points: 6, GoalsFor: 7, GoalsAgainst: 5, Team: &models.Team{ID: 2, Name: "Arsenal"}},
		{TeamID: 3, Points: 6, GoalsFor: 6, GoalsAgainst: 4, Team: &models.Team{ID: 3, Name: "Borussia"}},
		{TeamID: 4, Points: 9, GoalsFor: 1, GoalsAgainst: 0, Team: &models.Team{ID: 4, Name: "Dynamo"}},
	}

	SortTable(rows)

	// 4 лидирует по очкам; 1-2-3 равны по очкам и разнице, решают
	// забитые, затем имя.
	wantOrder := []int{4, 2, 3, 1}
	for i, want := range wantOrder {
		if rows[i].TeamID != want {
			t.Errorf("position %d: team %d, want %d", i+1, rows[i].TeamID, want)
		}
	}
}

func TestSortTable_NameIsFinalTieBreak(t *testing.T) {
	rows := []*models.StandingRow{
		{TeamID: 1, Points: 3, GoalsFor: 2, GoalsAgainst: 1, Team: &models.Team{ID: 1, Name: "Bravo"}},
		{TeamID: 2, Points: 3, GoalsFor: 2, GoalsAgainst: 1, Team: &models.Team{ID: 2, Name: "Alpha"}},
	}

	SortTable(rows)

	if rows[0].TeamID != 2 || rows[1].TeamID != 1 {
		t.Errorf("identical records must order by name: got %d then %d", rows[0].TeamID, rows[1].TeamID)
	}
}

func TestQualifiers_TopTwoPerGroup(t *testing.T) {
	groupA, groupB := "A", "B"
	matches := []*models.Match{
		// Группа A: 1 > 2 > 3 (1 бьёт обоих, 2 бьёт 3)
		playedMatch(1, 2, 2, 0, &groupA),
		playedMatch(1, 3, 3, 0, &groupA),
		playedMatch(2, 3, 1, 0, &groupA),
		// Группа B: 4 > 5 > 6
		playedMatch(4, 5, 1, 0, &groupB),
		playedMatch(4, 6, 2, 0, &groupB),
		playedMatch(5, 6, 1, 0, &groupB),
	}

	tables := ComputeTables(matches, teamsByID(6))
	qualifiers := Qualifiers(tables, QualifiersPerGroup)

	if len(qualifiers) != 4 {
		t.Fatalf("got %d qualifiers, want 4", len(qualifiers))
	}

	// Порядок: группы по алфавиту, внутри группы по месту.
	wantTeams := []int{1, 2, 4, 5}
	for i, want := range wantTeams {
		if qualifiers[i].TeamID != want {
			t.Errorf("qualifier %d: team %d, want %d", i, qualifiers[i].TeamID, want)
		}
	}
}

func TestQualifiers_SmallGroupReturnsAll(t *testing.T) {
	tables := map[string][]*models.StandingRow{
		"A": {{TeamID: 1}},
	}
	qualifiers := Qualifiers(tables, QualifiersPerGroup)
	if len(qualifiers) != 1 {
		t.Fatalf("got %d qualifiers, want 1", len(qualifiers))
	}
}
