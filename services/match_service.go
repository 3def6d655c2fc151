package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Mas2205/UrbanFootCenter-sub000/competition"
	"github.com/Mas2205/UrbanFootCenter-sub000/live"
	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/Mas2205/UrbanFootCenter-sub000/repositories"
)

type RecordResultInput struct {
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

type MatchService interface {
	// RecordResult фиксирует счёт матча, обновляет таблицу и двигает
	// победителя по сетке на вылет. Результат финала назначает чемпиона
	// и завершает турнир.
	RecordResult(ctx context.Context, matchID int, principal models.Principal, input RecordResultInput) (*models.Match, error)
	GetByID(ctx context.Context, matchID int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter repositories.ListMatchesFilter) ([]*models.Match, error)
}

type matchService struct {
	txm            repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	hub            EventBroadcaster
	logger         *slog.Logger
}

func NewMatchService(
	txm repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	hub EventBroadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txm:            txm,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, principal models.Principal, input RecordResultInput) (*models.Match, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}
	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return nil, ErrInvalidScore
	}

	// Первое чтение без блокировки нужно только ради tournament_id.
	peek, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var (
		recorded  *models.Match
		finished  bool
		champion  *int
		roomID    = strconv.Itoa(peek.TournamentID)
	)

	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, peek.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		if tournament.CreatorID != principal.UserID && principal.Role != models.RoleSuperAdmin {
			return ErrForbiddenOperation
		}
		if tournament.Status != models.StatusInProgress {
			return fmt.Errorf("%w: tournament is %s", ErrInvalidStatusTransition, tournament.Status)
		}

		// Перечитываем под блокировкой: параллельная запись могла успеть раньше.
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.Status != models.MatchStatusScheduled {
			return fmt.Errorf("%w: status is %s", ErrMatchAlreadyPlayed, match.Status)
		}
		if match.HomeTeamID == nil || match.AwayTeamID == nil {
			return ErrMatchTeamsNotDecided
		}

		var winnerTeamID *int
		switch {
		case input.HomeGoals > input.AwayGoals:
			winnerTeamID = match.HomeTeamID
		case input.AwayGoals > input.HomeGoals:
			winnerTeamID = match.AwayTeamID
		default:
			if match.IsKnockout() {
				return ErrKnockoutDrawNotAllowed
			}
		}

		if err := s.matchRepo.UpdateResult(ctx, exec, matchID,
			input.HomeGoals, input.AwayGoals, models.MatchStatusPlayed, winnerTeamID, principal.UserID); err != nil {
			return err
		}

		if err := s.applyToStandings(ctx, exec, tournament.ID, *match.HomeTeamID, input.HomeGoals, input.AwayGoals); err != nil {
			return err
		}
		if err := s.applyToStandings(ctx, exec, tournament.ID, *match.AwayTeamID, input.AwayGoals, input.HomeGoals); err != nil {
			return err
		}

		if match.IsKnockout() {
			if match.NextMatchID != nil && match.NextMatchSlot != nil {
				if err := s.matchRepo.SetTeamIntoSlot(ctx, exec, *match.NextMatchID, *match.NextMatchSlot, *winnerTeamID); err != nil {
					return err
				}
			} else {
				// Финал: назначаем чемпиона и закрываем турнир.
				if err := s.tournamentRepo.UpdateChampion(ctx, exec, tournament.ID, winnerTeamID); err != nil {
					return err
				}
				if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusFinished); err != nil {
					return err
				}
				finished = true
				champion = winnerTeamID
			}
		}

		hg, ag := input.HomeGoals, input.AwayGoals
		match.HomeGoals = &hg
		match.AwayGoals = &ag
		match.Status = models.MatchStatusPlayed
		match.WinnerTeamID = winnerTeamID
		match.RecordedBy = &principal.UserID
		recorded = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomID, live.Event{Type: live.EventMatchResult, Payload: recorded})
	s.hub.BroadcastToRoom(roomID, live.Event{
		Type: live.EventStandingsUpdated,
		Payload: map[string]interface{}{
			"tournament_id": recorded.TournamentID,
			"match_id":      recorded.ID,
		},
	})
	if finished {
		s.hub.BroadcastToRoom(roomID, live.Event{
			Type: live.EventStatusChanged,
			Payload: map[string]interface{}{
				"tournament_id":    recorded.TournamentID,
				"status":           models.StatusFinished,
				"champion_team_id": champion,
			},
		})
	}

	s.logger.Info("match result recorded",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", recorded.TournamentID),
		slog.String("score", fmt.Sprintf("%d:%d", input.HomeGoals, input.AwayGoals)),
		slog.Int("recorded_by", principal.UserID))

	return recorded, nil
}

// applyToStandings инкрементально вносит результат в строку команды.
// Инвариант сходимости с ComputeTables покрыт тестами.
func (s *matchService) applyToStandings(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID, goalsFor, goalsAgainst int) error {
	row, err := s.standingRepo.GetByTournamentAndTeam(ctx, exec, tournamentID, teamID)
	if err != nil {
		return fmt.Errorf("failed to load standing row for team %d: %w", teamID, err)
	}
	competition.Apply(row, goalsFor, goalsAgainst)
	return s.standingRepo.Update(ctx, exec, row)
}

func (s *matchService) GetByID(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, filter repositories.ListMatchesFilter) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID, filter)
}
