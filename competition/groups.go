package competition

import (
	"fmt"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

type GroupsThenKnockoutGenerator struct{}

func NewGroupsThenKnockoutGenerator() DrawGenerator {
	return &GroupsThenKnockoutGenerator{}
}

func (g *GroupsThenKnockoutGenerator) Name() string {
	return "GroupsThenKnockout"
}

// Generate перемешивает команды и делит их на группы по GroupSize
// (последняя группа может быть меньше, но не меньше двух команд),
// метки "A", "B", … Внутри каждой
// группы — полный круговой турнир. Матчи плей-офф здесь не создаются:
// они формируются из отобравшихся команд после группового этапа.
func (g *GroupsThenKnockoutGenerator) Generate(params DrawParams) ([]*FixtureMatch, error) {
	teams := params.Teams
	if len(teams) < GroupSize {
		return nil, fmt.Errorf("groups draw requires at least %d teams, got %d", GroupSize, len(teams))
	}

	shuffled := shuffledTeams(teams, params.Rand)
	groups := splitIntoGroups(shuffled, GroupSize)

	fixtures := make([]*FixtureMatch, 0)
	for i, groupTeams := range groups {
		label := groupLabel(i)
		prefix := fmt.Sprintf("T%d_G%s", params.Tournament.ID, label)
		for _, fm := range roundRobinFixtures(groupTeams, &label, prefix) {
			fixtures = append(fixtures, fm)
		}
	}

	return fixtures, nil
}

// splitIntoGroups нарезает перемешанный список на группы целевого размера.
// Группа из одной команды не сыграла бы ни одного матча, поэтому при
// остатке 1 последняя пара групп получает размеры size-1 и 2.
func splitIntoGroups(teams []*models.Team, size int) [][]*models.Team {
	count := (len(teams) + size - 1) / size
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = size
	}
	if rem := len(teams) % size; rem != 0 {
		sizes[count-1] = rem
	}
	if count > 1 && sizes[count-1] == 1 {
		sizes[count-2]--
		sizes[count-1]++
	}

	groups := make([][]*models.Team, 0, count)
	start := 0
	for _, n := range sizes {
		groups = append(groups, teams[start:start+n])
		start += n
	}
	return groups
}

func groupLabel(index int) string {
	return string(rune('A' + index))
}
