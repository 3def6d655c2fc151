package services

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

// testEnv собирает фейковые зависимости и сервисы для юнит-тестов.
type testEnv struct {
	tournaments    *fakeTournamentRepo
	participations *fakeParticipationRepo
	matches        *fakeMatchRepo
	standings      *fakeStandingRepo
	teams          *fakeTeamRepo
	fields         *fakeFieldRepo
	hub            *fakeHub

	tournamentSvc    TournamentService
	participationSvc ParticipationService
	drawSvc          *drawService
	matchSvc         MatchService
	standingsSvc     StandingsService
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	txm := &fakeTxManager{}

	teams := newFakeTeamRepo()
	env := &testEnv{
		tournaments:    newFakeTournamentRepo(),
		participations: newFakeParticipationRepo(teams),
		matches:        newFakeMatchRepo(),
		standings:      newFakeStandingRepo(),
		teams:          teams,
		fields:         newFakeFieldRepo(),
		hub:            &fakeHub{},
	}

	env.fields.fields[1] = &models.Field{ID: 1, Name: "Main Field"}

	env.tournamentSvc = NewTournamentService(
		txm, env.tournaments, env.fields, env.participations, env.matches, env.standings, env.hub, logger)
	env.participationSvc = NewParticipationService(
		txm, env.tournaments, env.participations, env.teams, logger)
	env.drawSvc = NewDrawService(
		txm, env.tournaments, env.participations, env.matches, env.standings, env.hub, logger).(*drawService)
	env.matchSvc = NewMatchService(
		txm, env.tournaments, env.matches, env.standings, env.hub, logger)
	env.standingsSvc = NewStandingsService(env.tournaments, env.matches, env.teams)

	// Детерминированная жеребьёвка в тестах.
	env.drawSvc.newRand = func() *rand.Rand { return rand.New(rand.NewSource(1)) }

	return env
}

// seedTournament создаёт турнир в заданном статусе с создателем-админом 10.
func (e *testEnv) seedTournament(format models.TournamentFormat, status models.TournamentStatus) *models.Tournament {
	now := time.Now()
	t := &models.Tournament{
		Name:                 fmt.Sprintf("Cup %d", e.tournaments.nextID),
		FieldID:              1,
		CreatorID:            10,
		RegistrationDeadline: now.Add(24 * time.Hour),
		StartDate:            now.Add(48 * time.Hour),
		EndDate:              now.Add(96 * time.Hour),
		Format:               format,
		MaxTeams:             16,
		Status:               status,
		CreatedAt:            now,
	}
	return e.tournaments.put(t)
}

// seedApprovedTeams регистрирует n команд и одобряет их заявки.
func (e *testEnv) seedApprovedTeams(tournamentID, n int) []*models.Team {
	teams := make([]*models.Team, 0, n)
	for i := 1; i <= n; i++ {
		team := &models.Team{ID: i, Name: fmt.Sprintf("Team %02d", i), CaptainID: 200 + i}
		e.teams.teams[team.ID] = team
		teams = append(teams, team)

		p := &models.Participation{
			TournamentID: tournamentID,
			TeamID:       team.ID,
			Status:       models.ParticipationApproved,
		}
		p.ID = e.participations.nextID
		e.participations.nextID++
		e.participations.participations[p.ID] = p
	}
	return teams
}

var adminPrincipal = models.Principal{UserID: 10, Role: models.RoleAdmin}
var superAdminPrincipal = models.Principal{UserID: 99, Role: models.RoleSuperAdmin}
var captainPrincipal = models.Principal{UserID: 201, Role: models.RoleCaptain}
