package competition

import (
	"fmt"
	"math/rand"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

// Правила подсчёта очков и отбора. Фиксированы, не настраиваются на турнир.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0

	GroupSize          = 4
	QualifiersPerGroup = 2
)

// FixtureMatch — сгенерированный матч до сохранения в БД.
// Для сетки на вылет команды поздних раундов неизвестны и задаются
// ссылками на исходные матчи (SourceMatch*UID).
type FixtureMatch struct {
	UID          string
	GroupLabel   *string
	Round        int
	OrderInRound int

	HomeTeamID *int
	AwayTeamID *int

	SourceMatch1UID *string
	SourceMatch2UID *string

	// Bye-матчи в БД не сохраняются: команда сразу проходит дальше.
	IsBye     bool
	ByeTeamID *int
}

type DrawParams struct {
	Tournament *models.Tournament
	Teams      []*models.Team
	Rand       *rand.Rand
}

type DrawGenerator interface {
	Generate(params DrawParams) ([]*FixtureMatch, error)

	Name() string
}

// MinTeams возвращает минимальное число допущенных команд для формата.
func MinTeams(format models.TournamentFormat) int {
	if format == models.FormatGroupsThenKnockout {
		return GroupSize
	}
	return 2
}

// GeneratorForFormat подбирает генератор жеребьёвки по формату турнира.
func GeneratorForFormat(format models.TournamentFormat) (DrawGenerator, error) {
	switch format {
	case models.FormatGroupsThenKnockout:
		return NewGroupsThenKnockoutGenerator(), nil
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported tournament format %q", format)
	}
}

// shuffledTeams возвращает копию списка команд в случайном порядке.
func shuffledTeams(teams []*models.Team, rng *rand.Rand) []*models.Team {
	shuffled := make([]*models.Team, len(teams))
	copy(shuffled, teams)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// roundRobinFixtures генерирует круговой турнир: каждая пара встречается один раз.
func roundRobinFixtures(teams []*models.Team, groupLabel *string, uidPrefix string) []*FixtureMatch {
	fixtures := make([]*FixtureMatch, 0, len(teams)*(len(teams)-1)/2)
	order := 0

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			order++
			homeID := teams[i].ID
			awayID := teams[j].ID
			fixtures = append(fixtures, &FixtureMatch{
				UID:          fmt.Sprintf("%sM%d", uidPrefix, order),
				GroupLabel:   groupLabel,
				Round:        0,
				OrderInRound: order,
				HomeTeamID:   &homeID,
				AwayTeamID:   &awayID,
			})
		}
	}

	return fixtures
}
