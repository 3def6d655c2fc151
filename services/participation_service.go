package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/Mas2205/UrbanFootCenter-sub000/repositories"
)

// Решения по заявке.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type ReviewParticipationInput struct {
	Decision string  `json:"decision"`
	Reason   *string `json:"reason"`
}

type ParticipationService interface {
	// Request создаёт pending-заявку команды на турнир. Pending-заявок
	// может быть больше, чем мест: вместимость проверяется при одобрении.
	Request(ctx context.Context, tournamentID, teamID int, principal models.Principal) (*models.Participation, error)
	Review(ctx context.Context, participationID int, principal models.Principal, input ReviewParticipationInput) (*models.Participation, error)
	ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipationStatus) ([]*models.Participation, error)
}

type participationService struct {
	txm               repositories.TxManager
	tournamentRepo    repositories.TournamentRepository
	participationRepo repositories.ParticipationRepository
	teamRepo          repositories.TeamRepository
	logger            *slog.Logger
	now               func() time.Time
}

func NewParticipationService(
	txm repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	participationRepo repositories.ParticipationRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) ParticipationService {
	return &participationService{
		txm:               txm,
		tournamentRepo:    tournamentRepo,
		participationRepo: participationRepo,
		teamRepo:          teamRepo,
		logger:            logger,
		now:               time.Now,
	}
}

func (s *participationService) Request(ctx context.Context, tournamentID, teamID int, principal models.Principal) (*models.Participation, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	// Заявку подаёт капитан команды; администраторы могут подать за любую.
	if team.CaptainID != principal.UserID && !principal.IsAdmin() {
		return nil, ErrCaptainActionForbidden
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.StatusRegistrationOpen {
		return nil, fmt.Errorf("%w: tournament is %s", ErrRegistrationNotOpen, tournament.Status)
	}

	existing, err := s.participationRepo.FindActiveByTeamAndTournament(ctx, nil, teamID, tournamentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateParticipation
	}

	participation := &models.Participation{
		TournamentID: tournamentID,
		TeamID:       teamID,
		Status:       models.ParticipationPending,
	}

	// Частичный уникальный индекс в БД закрывает гонку двух одновременных заявок.
	if err := s.participationRepo.Create(ctx, nil, participation); err != nil {
		if errors.Is(err, repositories.ErrParticipationConflict) {
			return nil, ErrDuplicateParticipation
		}
		return nil, err
	}

	s.logger.Info("participation requested",
		slog.Int("tournament_id", tournamentID),
		slog.Int("team_id", teamID),
		slog.Int("participation_id", participation.ID))

	return participation, nil
}

func (s *participationService) Review(ctx context.Context, participationID int, principal models.Principal, input ReviewParticipationInput) (*models.Participation, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}

	var newStatus models.ParticipationStatus
	switch input.Decision {
	case DecisionApprove:
		newStatus = models.ParticipationApproved
	case DecisionReject:
		newStatus = models.ParticipationRejected
		if input.Reason == nil || *input.Reason == "" {
			return nil, ErrRejectionReasonRequired
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReviewDecision, input.Decision)
	}

	var reviewed *models.Participation

	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		participation, err := s.participationRepo.GetByID(ctx, exec, participationID)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipationNotFound) {
				return ErrParticipationNotFound
			}
			return err
		}

		// Блокировка строки турнира сериализует конкурирующие одобрения:
		// иначе два ревью могли бы вместе превысить вместимость.
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, participation.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		if participation.Status != models.ParticipationPending {
			return fmt.Errorf("%w: status is %s", ErrParticipationAlreadyReviewed, participation.Status)
		}

		if newStatus == models.ParticipationApproved {
			approved, countErr := s.participationRepo.CountApproved(ctx, exec, tournament.ID)
			if countErr != nil {
				return countErr
			}
			if approved >= tournament.MaxTeams {
				return fmt.Errorf("%w: %d of %d slots taken", ErrTournamentFull, approved, tournament.MaxTeams)
			}
		}

		reviewedAt := s.now()
		var reason *string
		if newStatus == models.ParticipationRejected {
			reason = input.Reason
		}

		if err := s.participationRepo.UpdateReview(ctx, exec, participationID, newStatus, reason, principal.UserID, reviewedAt); err != nil {
			return err
		}

		participation.Status = newStatus
		participation.RejectionReason = reason
		participation.ReviewedBy = &principal.UserID
		participation.ReviewedAt = &reviewedAt
		reviewed = participation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("participation reviewed",
		slog.Int("participation_id", participationID),
		slog.String("decision", input.Decision),
		slog.Int("reviewer_id", principal.UserID))

	return reviewed, nil
}

func (s *participationService) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipationStatus) ([]*models.Participation, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.participationRepo.ListByTournament(ctx, tournamentID, statusFilter, true)
}
