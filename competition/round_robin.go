package competition

import "fmt"

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() DrawGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate строит единый круговой турнир по всем допущенным командам.
// Перемешивание влияет только на порядок матчей в календаре: итоговая
// таблица от порядка не зависит.
func (g *RoundRobinGenerator) Generate(params DrawParams) ([]*FixtureMatch, error) {
	teams := params.Teams
	if len(teams) < 2 {
		return nil, fmt.Errorf("round robin draw requires at least 2 teams, got %d", len(teams))
	}

	shuffled := shuffledTeams(teams, params.Rand)
	return roundRobinFixtures(shuffled, nil, fmt.Sprintf("T%d_RR", params.Tournament.ID)), nil
}
