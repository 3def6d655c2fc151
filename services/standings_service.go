package services

import (
	"context"
	"errors"

	"github.com/Mas2205/UrbanFootCenter-sub000/competition"
	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/Mas2205/UrbanFootCenter-sub000/repositories"
)

type StandingsService interface {
	// GetStandings пересчитывает таблицы с нуля по истории матчей.
	// Ключ карты — метка группы, пустая строка для общей таблицы.
	GetStandings(ctx context.Context, tournamentID int) (map[string][]*models.StandingRow, error)
	// GetQualifiers возвращает выходящие из групп команды (топ-2 каждой
	// группы). Только для формата groups_then_knockout.
	GetQualifiers(ctx context.Context, tournamentID int) ([]*models.StandingRow, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) (map[string][]*models.StandingRow, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.ListMatchesFilter{})
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByIDs(ctx, nil, collectTeamIDs(matches))
	if err != nil {
		return nil, err
	}

	return competition.ComputeTables(matches, teams), nil
}

func (s *standingsService) GetQualifiers(ctx context.Context, tournamentID int) ([]*models.StandingRow, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Format != models.FormatGroupsThenKnockout {
		return nil, ErrQualifiersNotAvailable
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.ListMatchesFilter{})
	if err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByIDs(ctx, nil, collectTeamIDs(matches))
	if err != nil {
		return nil, err
	}

	tables := competition.ComputeTables(matches, teams)
	// Общая таблица (если есть) к группам не относится.
	delete(tables, competition.OverallKey)

	return competition.Qualifiers(tables, competition.QualifiersPerGroup), nil
}

func collectTeamIDs(matches []*models.Match) []int {
	seen := make(map[int]bool)
	ids := make([]int, 0)
	for _, m := range matches {
		for _, teamID := range []*int{m.HomeTeamID, m.AwayTeamID} {
			if teamID != nil && !seen[*teamID] {
				seen[*teamID] = true
				ids = append(ids, *teamID)
			}
		}
	}
	return ids
}
