package competition

import (
	"sort"
	"strconv"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

// OverallKey — ключ таблицы для форматов без группового этапа.
const OverallKey = ""

// Apply вносит один результат в строку таблицы: счётчики игр,
// забитые/пропущенные и очки по правилу 3/1/0.
func Apply(row *models.StandingRow, goalsFor, goalsAgainst int) {
	row.Played++
	row.GoalsFor += goalsFor
	row.GoalsAgainst += goalsAgainst
	switch {
	case goalsFor > goalsAgainst:
		row.Wins++
		row.Points += PointsWin
	case goalsFor == goalsAgainst:
		row.Draws++
		row.Points += PointsDraw
	default:
		row.Losses++
		row.Points += PointsLoss
	}
}

// ComputeTables строит таблицы с нуля из истории матчей. Чистая функция:
// безопасно вызывать в любой момент, результат не может разойтись с
// матчами-источником. Отменённые матчи игнорируются, незавершённые дают
// команде строку с нулями.
func ComputeTables(matches []*models.Match, teams map[int]*models.Team) map[string][]*models.StandingRow {
	byGroup := make(map[string]map[int]*models.StandingRow)

	ensure := func(groupKey string, teamID int) *models.StandingRow {
		group, ok := byGroup[groupKey]
		if !ok {
			group = make(map[int]*models.StandingRow)
			byGroup[groupKey] = group
		}
		row, ok := group[teamID]
		if !ok {
			row = &models.StandingRow{TeamID: teamID, Team: teams[teamID]}
			if groupKey != OverallKey {
				label := groupKey
				row.GroupLabel = &label
			}
			group[teamID] = row
		}
		return row
	}

	for _, m := range matches {
		if m.Status == models.MatchStatusCancelled {
			continue
		}

		groupKey := OverallKey
		if m.GroupLabel != nil {
			groupKey = *m.GroupLabel
		}

		var home, away *models.StandingRow
		if m.HomeTeamID != nil {
			home = ensure(groupKey, *m.HomeTeamID)
		}
		if m.AwayTeamID != nil {
			away = ensure(groupKey, *m.AwayTeamID)
		}

		if m.Status != models.MatchStatusPlayed || m.HomeGoals == nil || m.AwayGoals == nil || home == nil || away == nil {
			continue
		}

		Apply(home, *m.HomeGoals, *m.AwayGoals)
		Apply(away, *m.AwayGoals, *m.HomeGoals)
	}

	tables := make(map[string][]*models.StandingRow, len(byGroup))
	for groupKey, group := range byGroup {
		rows := make([]*models.StandingRow, 0, len(group))
		for _, row := range group {
			rows = append(rows, row)
		}
		SortTable(rows)
		tables[groupKey] = rows
	}

	return tables
}

// SortTable упорядочивает строки: очки, затем разница мячей, затем
// забитые, затем имя команды как детерминированный последний критерий.
func SortTable(rows []*models.StandingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return teamSortName(a) < teamSortName(b)
	})
}

// Qualifiers возвращает первые topN строк каждой группы в порядке
// меток групп — участников плей-офф после группового этапа.
func Qualifiers(tables map[string][]*models.StandingRow, topN int) []*models.StandingRow {
	labels := make([]string, 0, len(tables))
	for label := range tables {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	qualifiers := make([]*models.StandingRow, 0, len(labels)*topN)
	for _, label := range labels {
		rows := tables[label]
		limit := topN
		if limit > len(rows) {
			limit = len(rows)
		}
		qualifiers = append(qualifiers, rows[:limit]...)
	}
	return qualifiers
}

func teamSortName(row *models.StandingRow) string {
	if row.Team != nil && row.Team.Name != "" {
		return row.Team.Name
	}
	return strconv.Itoa(row.TeamID)
}
