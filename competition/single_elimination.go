package competition

import (
	"fmt"
	"math/bits"
)

// node — слот сетки: либо известная команда, либо победитель матча-источника,
// либо bye-заглушка.
type node struct {
	teamID         *int
	sourceMatchUID *string
	isBye          bool
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() DrawGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate строит полную сетку на вылет. Если число команд не является
// степенью двойки, первые команды перемешанного списка получают bye в
// первом раунде и сразу попадают во второй. Bye-записи возвращаются с
// IsBye=true и в БД не сохраняются.
func (g *SingleEliminationGenerator) Generate(params DrawParams) ([]*FixtureMatch, error) {
	teams := params.Teams
	n := len(teams)
	if n < 2 {
		return nil, fmt.Errorf("single elimination draw requires at least 2 teams, got %d", n)
	}

	shuffled := shuffledTeams(teams, params.Rand)

	numRounds := bits.Len(uint(n - 1)) // ceil(log2(n))
	bracketSize := 1 << numRounds
	numByes := bracketSize - n

	// Первые numByes команд перемешанного списка встают в пары с bye-заглушкой.
	current := make([]*node, 0, bracketSize)
	idx := 0
	for b := 0; b < numByes; b++ {
		id := shuffled[idx].ID
		current = append(current, &node{teamID: &id}, &node{isBye: true})
		idx++
	}
	for ; idx < n; idx++ {
		id := shuffled[idx].ID
		current = append(current, &node{teamID: &id})
	}

	fixtures := make([]*FixtureMatch, 0, bracketSize-1)

	for r := 1; r <= numRounds; r++ {
		next := make([]*node, 0, len(current)/2)
		order := 0

		for i := 0; i < len(current); i += 2 {
			n1, n2 := current[i], current[i+1]
			order++
			uid := fmt.Sprintf("T%d_R%dM%d", params.Tournament.ID, r, order)

			fm := &FixtureMatch{UID: uid, Round: r, OrderInRound: order}

			if n1.isBye || n2.isBye {
				// Bye-заглушки встречаются только в первом раунде и только
				// парой с реальной командой.
				advancing := n1
				if n1.isBye {
					advancing = n2
				}
				if advancing.teamID == nil {
					return nil, fmt.Errorf("bye slot paired with unknown team in round %d, match %d", r, order)
				}
				fm.IsBye = true
				fm.ByeTeamID = advancing.teamID
				fm.HomeTeamID = advancing.teamID
				next = append(next, &node{teamID: advancing.teamID})
			} else {
				if n1.teamID != nil {
					fm.HomeTeamID = n1.teamID
				} else {
					fm.SourceMatch1UID = n1.sourceMatchUID
				}
				if n2.teamID != nil {
					fm.AwayTeamID = n2.teamID
				} else {
					fm.SourceMatch2UID = n2.sourceMatchUID
				}
				uidCopy := uid
				next = append(next, &node{sourceMatchUID: &uidCopy})
			}

			fixtures = append(fixtures, fm)
		}

		current = next
	}

	if len(current) != 1 {
		return nil, fmt.Errorf("internal error: bracket did not converge to a single winner slot (got %d)", len(current))
	}

	return fixtures, nil
}
