package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mas2205/UrbanFootCenter-sub000/live"
	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/Mas2205/UrbanFootCenter-sub000/repositories"
)

// EventBroadcaster — то, что сервисам нужно от websocket-хаба.
type EventBroadcaster interface {
	BroadcastToRoom(roomID string, event live.Event)
}

// allowedTransitions задаёт машину состояний жизненного цикла турнира.
// Терминальные статусы (finished, cancelled) переходов не имеют.
var allowedTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.StatusPreparation:        {models.StatusRegistrationOpen, models.StatusCancelled},
	models.StatusRegistrationOpen:   {models.StatusRegistrationClosed, models.StatusCancelled},
	models.StatusRegistrationClosed: {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress:         {models.StatusFinished, models.StatusCancelled},
	models.StatusFinished:           {},
	models.StatusCancelled:          {},
}

// ValidateStatusTransition проверяет допустимость перехода статуса.
func ValidateStatusTransition(from, to models.TournamentStatus) error {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}

type CreateTournamentInput struct {
	Name                 string                  `json:"name"`
	Description          *string                 `json:"description"`
	FieldID              int                     `json:"field_id"`
	RegistrationDeadline time.Time               `json:"registration_deadline"`
	StartDate            time.Time               `json:"start_date"`
	EndDate              time.Time               `json:"end_date"`
	EntryFee             float64                 `json:"entry_fee"`
	TotalPrize           float64                 `json:"total_prize"`
	RewardDescription    *string                 `json:"reward_description"`
	Format               models.TournamentFormat `json:"format"`
	MaxTeams             int                     `json:"max_teams"`
	Ruleset              *string                 `json:"ruleset"`
}

// UpdateTournamentDetailsInput — частичное обновление: nil-поля не трогаются.
type UpdateTournamentDetailsInput struct {
	Name                 *string    `json:"name"`
	Description          *string    `json:"description"`
	FieldID              *int       `json:"field_id"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	EntryFee             *float64   `json:"entry_fee"`
	TotalPrize           *float64   `json:"total_prize"`
	RewardDescription    *string    `json:"reward_description"`
	MaxTeams             *int       `json:"max_teams"`
	Ruleset              *string    `json:"ruleset"`
}

type TournamentService interface {
	Create(ctx context.Context, principal models.Principal, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateDetails(ctx context.Context, id int, principal models.Principal, input UpdateTournamentDetailsInput) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, principal models.Principal, newStatus models.TournamentStatus) (*models.Tournament, error)
	Delete(ctx context.Context, id int, principal models.Principal) error
	// AutoCloseExpiredRegistrations закрывает регистрацию турнирам с
	// истёкшим дедлайном. Вызывается планировщиком.
	AutoCloseExpiredRegistrations(ctx context.Context) error
}

type tournamentService struct {
	txm               repositories.TxManager
	tournamentRepo    repositories.TournamentRepository
	fieldRepo         repositories.FieldRepository
	participationRepo repositories.ParticipationRepository
	matchRepo         repositories.MatchRepository
	standingRepo      repositories.StandingRepository
	hub               EventBroadcaster
	logger            *slog.Logger
	now               func() time.Time
}

func NewTournamentService(
	txm repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	fieldRepo repositories.FieldRepository,
	participationRepo repositories.ParticipationRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	hub EventBroadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		txm:               txm,
		tournamentRepo:    tournamentRepo,
		fieldRepo:         fieldRepo,
		participationRepo: participationRepo,
		matchRepo:         matchRepo,
		standingRepo:      standingRepo,
		hub:               hub,
		logger:            logger,
		now:               time.Now,
	}
}

func (s *tournamentService) Create(ctx context.Context, principal models.Principal, input CreateTournamentInput) (*models.Tournament, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}
	if err := validateTournamentCore(input.Name, input.RegistrationDeadline, input.StartDate, input.EndDate, input.MaxTeams); err != nil {
		return nil, err
	}
	switch input.Format {
	case models.FormatGroupsThenKnockout, models.FormatSingleElimination, models.FormatRoundRobin:
	default:
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidFormat, input.Format)
	}

	if _, err := s.fieldRepo.GetByID(ctx, input.FieldID); err != nil {
		if errors.Is(err, repositories.ErrFieldNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}

	tournament := &models.Tournament{
		Name:                 input.Name,
		Description:          input.Description,
		FieldID:              input.FieldID,
		CreatorID:            principal.UserID,
		RegistrationDeadline: input.RegistrationDeadline,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		EntryFee:             input.EntryFee,
		TotalPrize:           input.TotalPrize,
		RewardDescription:    input.RewardDescription,
		Format:               input.Format,
		MaxTeams:             input.MaxTeams,
		Ruleset:              input.Ruleset,
		Status:               models.StatusPreparation,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, s.mapRepoError(err)
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(tournament.Format)),
		slog.Int("creator_id", principal.UserID))

	return tournament, nil
}

// GetByID возвращает турнир вместе с заявками, матчами, таблицей и площадкой.
// Связанные сущности грузятся параллельно.
func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		field, fieldErr := s.fieldRepo.GetByID(gCtx, tournament.FieldID)
		if fieldErr != nil {
			return fieldErr
		}
		tournament.Field = field
		return nil
	})

	g.Go(func() error {
		participations, pErr := s.participationRepo.ListByTournament(gCtx, id, nil, true)
		if pErr != nil {
			return pErr
		}
		tournament.Participations = make([]models.Participation, 0, len(participations))
		for _, p := range participations {
			tournament.Participations = append(tournament.Participations, *p)
		}
		return nil
	})

	g.Go(func() error {
		matches, mErr := s.matchRepo.ListByTournament(gCtx, nil, id, repositories.ListMatchesFilter{})
		if mErr != nil {
			return mErr
		}
		tournament.Matches = make([]models.Match, 0, len(matches))
		for _, m := range matches {
			tournament.Matches = append(tournament.Matches, *m)
		}
		return nil
	})

	g.Go(func() error {
		standings, sErr := s.standingRepo.ListByTournament(gCtx, nil, id, true)
		if sErr != nil {
			return sErr
		}
		tournament.Standings = make([]models.StandingRow, 0, len(standings))
		for _, row := range standings {
			tournament.Standings = append(tournament.Standings, *row)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %d details: %w", id, err)
	}

	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) UpdateDetails(ctx context.Context, id int, principal models.Principal, input UpdateTournamentDetailsInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	if err := s.requireOwnership(principal, tournament); err != nil {
		return nil, err
	}
	if tournament.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: tournament is %s", ErrInvalidStatusTransition, tournament.Status)
	}

	if input.Name != nil {
		tournament.Name = *input.Name
	}
	if input.Description != nil {
		tournament.Description = input.Description
	}
	if input.FieldID != nil {
		tournament.FieldID = *input.FieldID
	}
	if input.RegistrationDeadline != nil {
		tournament.RegistrationDeadline = *input.RegistrationDeadline
	}
	if input.StartDate != nil {
		tournament.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		tournament.EndDate = *input.EndDate
	}
	if input.EntryFee != nil {
		tournament.EntryFee = *input.EntryFee
	}
	if input.TotalPrize != nil {
		tournament.TotalPrize = *input.TotalPrize
	}
	if input.RewardDescription != nil {
		tournament.RewardDescription = input.RewardDescription
	}
	if input.MaxTeams != nil {
		tournament.MaxTeams = *input.MaxTeams
	}
	if input.Ruleset != nil {
		tournament.Ruleset = input.Ruleset
	}

	if err := validateTournamentCore(tournament.Name, tournament.RegistrationDeadline, tournament.StartDate, tournament.EndDate, tournament.MaxTeams); err != nil {
		return nil, err
	}

	// После старта вместимость не уменьшается ниже числа допущенных команд.
	if input.MaxTeams != nil {
		approved, countErr := s.participationRepo.CountApproved(ctx, nil, id)
		if countErr != nil {
			return nil, countErr
		}
		if *input.MaxTeams < approved {
			return nil, fmt.Errorf("%w: %d teams already approved", ErrTournamentInvalidCap, approved)
		}
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, s.mapRepoError(err)
	}

	return tournament, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, principal models.Principal, newStatus models.TournamentStatus) (*models.Tournament, error) {
	var updated *models.Tournament

	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, id)
		if err != nil {
			return s.mapRepoError(err)
		}
		if err := s.requireOwnership(principal, tournament); err != nil {
			return err
		}
		if err := ValidateStatusTransition(tournament.Status, newStatus); err != nil {
			return err
		}

		// Ручной переход in_progress требует готовой сетки (жеребьёвка
		// сама переводит турнир в in_progress).
		if newStatus == models.StatusInProgress {
			matchCount, countErr := s.matchRepo.CountByTournament(ctx, exec, id)
			if countErr != nil {
				return countErr
			}
			if matchCount == 0 {
				return ErrNoDrawGenerated
			}
		}

		if err := s.tournamentRepo.UpdateStatus(ctx, exec, id, newStatus); err != nil {
			return s.mapRepoError(err)
		}

		tournament.Status = newStatus
		updated = tournament
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStatusChange(updated)
	s.logger.Info("tournament status changed",
		slog.Int("tournament_id", id),
		slog.String("status", string(newStatus)),
		slog.Int("user_id", principal.UserID))

	return updated, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int, principal models.Principal) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return s.mapRepoError(err)
	}
	if err := s.requireOwnership(principal, tournament); err != nil {
		return err
	}
	if tournament.Status != models.StatusPreparation && tournament.Status != models.StatusCancelled {
		return ErrTournamentNotDeletable
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err)
	}

	s.logger.Info("tournament deleted", slog.Int("tournament_id", id), slog.Int("user_id", principal.UserID))
	return nil
}

func (s *tournamentService) AutoCloseExpiredRegistrations(ctx context.Context) error {
	var closed []*models.Tournament

	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		expired, err := s.tournamentRepo.ListWithExpiredRegistration(ctx, exec, s.now())
		if err != nil {
			return err
		}
		for _, t := range expired {
			// Условный UPDATE: турнир могли отменить или закрыть вручную
			// между выборкой и записью, тогда строку не трогаем.
			updated, err := s.tournamentRepo.UpdateStatusIfCurrent(ctx, exec, t.ID,
				models.StatusRegistrationOpen, models.StatusRegistrationClosed)
			if err != nil {
				return fmt.Errorf("failed to auto-close registration for tournament %d: %w", t.ID, err)
			}
			if !updated {
				continue
			}
			t.Status = models.StatusRegistrationClosed
			closed = append(closed, t)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, t := range closed {
		s.broadcastStatusChange(t)
		s.logger.Info("registration auto-closed",
			slog.Int("tournament_id", t.ID),
			slog.Time("deadline", t.RegistrationDeadline))
	}
	return nil
}

// requireOwnership: менять турнир может его создатель либо super_admin.
func (s *tournamentService) requireOwnership(principal models.Principal, tournament *models.Tournament) error {
	if !principal.IsAdmin() {
		return ErrAdminRoleRequired
	}
	if tournament.CreatorID != principal.UserID && principal.Role != models.RoleSuperAdmin {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *tournamentService) broadcastStatusChange(t *models.Tournament) {
	if t == nil {
		return
	}
	s.hub.BroadcastToRoom(fmt.Sprintf("%d", t.ID), live.Event{
		Type: live.EventStatusChanged,
		Payload: map[string]interface{}{
			"tournament_id": t.ID,
			"status":        t.Status,
		},
	})
}

func (s *tournamentService) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTournamentInUse):
		return ErrTournamentInUse
	case errors.Is(err, repositories.ErrTournamentInvalidField):
		return ErrFieldNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidDates):
		return ErrTournamentInvalidDates
	case errors.Is(err, repositories.ErrTournamentInvalidFormat):
		return ErrTournamentInvalidFormat
	default:
		return err
	}
}

func validateTournamentCore(name string, deadline, start, end time.Time, maxTeams int) error {
	if name == "" {
		return ErrTournamentNameRequired
	}
	if deadline.After(start) || start.After(end) {
		return ErrTournamentInvalidDates
	}
	if maxTeams < 2 {
		return ErrTournamentInvalidCap
	}
	return nil
}
