package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mas2205/UrbanFootCenter-sub000/competition"
	"github.com/Mas2205/UrbanFootCenter-sub000/live"
	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/Mas2205/UrbanFootCenter-sub000/repositories"
)

// Окно, в течение которого действует токен подтверждения пережеребьёвки.
const redrawTokenTTL = 5 * time.Minute

type DrawResult struct {
	Tournament *models.Tournament `json:"tournament"`
	Matches    []*models.Match    `json:"matches"`
}

// RedrawTicket — одноразовый токен подтверждения. Сам токен отдаётся
// только в этом ответе, в БД хранится bcrypt-хэш.
type RedrawTicket struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DrawService interface {
	// GenerateDraw проводит первую жеребьёвку турнира в статусе
	// registration_closed и переводит его в in_progress.
	GenerateDraw(ctx context.Context, tournamentID int, principal models.Principal) (*DrawResult, error)
	// RequestRedraw выдаёт токен подтверждения для повторной жеребьёвки.
	// Пережеребьёвка уничтожает все матчи и результаты, поэтому требует
	// двухшагового подтверждения.
	RequestRedraw(ctx context.Context, tournamentID int, principal models.Principal) (*RedrawTicket, error)
	ConfirmRedraw(ctx context.Context, tournamentID int, token string, principal models.Principal) (*DrawResult, error)
}

type drawService struct {
	txm               repositories.TxManager
	tournamentRepo    repositories.TournamentRepository
	participationRepo repositories.ParticipationRepository
	matchRepo         repositories.MatchRepository
	standingRepo      repositories.StandingRepository
	hub               EventBroadcaster
	logger            *slog.Logger
	now               func() time.Time
	newRand           func() *rand.Rand
}

func NewDrawService(
	txm repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	participationRepo repositories.ParticipationRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	hub EventBroadcaster,
	logger *slog.Logger,
) DrawService {
	return &drawService{
		txm:               txm,
		tournamentRepo:    tournamentRepo,
		participationRepo: participationRepo,
		matchRepo:         matchRepo,
		standingRepo:      standingRepo,
		hub:               hub,
		logger:            logger,
		now:               time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (s *drawService) GenerateDraw(ctx context.Context, tournamentID int, principal models.Principal) (*DrawResult, error) {
	var result *DrawResult

	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.lockTournament(ctx, exec, tournamentID, principal)
		if err != nil {
			return err
		}
		if tournament.Status != models.StatusRegistrationClosed {
			return fmt.Errorf("%w: tournament is %s, want %s",
				ErrDrawNotAllowed, tournament.Status, models.StatusRegistrationClosed)
		}

		result, err = s.generate(ctx, exec, tournament)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcastDraw(result)
	s.logger.Info("draw generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(result.Matches)),
		slog.Int("user_id", principal.UserID))

	return result, nil
}

func (s *drawService) RequestRedraw(ctx context.Context, tournamentID int, principal models.Principal) (*RedrawTicket, error) {
	var ticket *RedrawTicket

	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.lockTournament(ctx, exec, tournamentID, principal)
		if err != nil {
			return err
		}
		if tournament.Status != models.StatusInProgress {
			return fmt.Errorf("%w: redraw requires an in_progress tournament, got %s",
				ErrDrawNotAllowed, tournament.Status)
		}

		token := uuid.NewString()
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
		if hashErr != nil {
			return fmt.Errorf("failed to hash redraw token: %w", hashErr)
		}

		expiresAt := s.now().Add(redrawTokenTTL)
		if err := s.tournamentRepo.SetRedrawToken(ctx, exec, tournamentID, string(hash), expiresAt); err != nil {
			return err
		}

		ticket = &RedrawTicket{Token: token, ExpiresAt: expiresAt}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("redraw requested",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", principal.UserID),
		slog.Time("expires_at", ticket.ExpiresAt))

	return ticket, nil
}

func (s *drawService) ConfirmRedraw(ctx context.Context, tournamentID int, token string, principal models.Principal) (*DrawResult, error) {
	var result *DrawResult

	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.lockTournament(ctx, exec, tournamentID, principal)
		if err != nil {
			return err
		}
		if tournament.Status != models.StatusInProgress {
			return fmt.Errorf("%w: redraw requires an in_progress tournament, got %s",
				ErrDrawNotAllowed, tournament.Status)
		}
		if tournament.RedrawTokenHash == nil || tournament.RedrawTokenExpiresAt == nil {
			return ErrRedrawTokenInvalid
		}
		if s.now().After(*tournament.RedrawTokenExpiresAt) {
			return ErrRedrawTokenExpired
		}
		if bcrypt.CompareHashAndPassword([]byte(*tournament.RedrawTokenHash), []byte(token)) != nil {
			return ErrRedrawTokenInvalid
		}

		// Токен одноразовый: гасим до выполнения, повторный confirm не пройдёт.
		if err := s.tournamentRepo.ClearRedrawToken(ctx, exec, tournamentID); err != nil {
			return err
		}

		result, err = s.generate(ctx, exec, tournament)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcastDraw(result)
	s.logger.Info("redraw confirmed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(result.Matches)),
		slog.Int("user_id", principal.UserID))

	return result, nil
}

// generate — общее тело жеребьёвки. Вызывается с уже взятой блокировкой
// строки турнира. Сносит прежнюю сетку, генерирует новую, создаёт нулевые
// строки таблицы и при необходимости переводит турнир в in_progress.
func (s *drawService) generate(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) (*DrawResult, error) {
	if err := s.matchRepo.DeleteByTournament(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	if err := s.standingRepo.DeleteByTournament(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	if tournament.ChampionTeamID != nil {
		if err := s.tournamentRepo.UpdateChampion(ctx, exec, tournament.ID, nil); err != nil {
			return nil, err
		}
		tournament.ChampionTeamID = nil
	}

	teams, err := s.participationRepo.ListApprovedTeams(ctx, exec, tournament.ID)
	if err != nil {
		return nil, err
	}
	if minTeams := competition.MinTeams(tournament.Format); len(teams) < minTeams {
		return nil, fmt.Errorf("%w: have %d, need at least %d for %s",
			ErrInsufficientTeams, len(teams), minTeams, tournament.Format)
	}

	generator, err := competition.GeneratorForFormat(tournament.Format)
	if err != nil {
		return nil, err
	}

	fixtures, err := generator.Generate(competition.DrawParams{
		Tournament: tournament,
		Teams:      teams,
		Rand:       s.newRand(),
	})
	if err != nil {
		return nil, fmt.Errorf("draw generation failed for tournament %d: %w", tournament.ID, err)
	}

	defaultKickoff := tournament.StartDate
	if now := s.now(); defaultKickoff.Before(now) {
		defaultKickoff = now.Add(15 * time.Minute)
	}

	// Первый проход: сохраняем матчи (bye-записи пропускаем), запоминаем ID по UID.
	idByUID := make(map[string]int, len(fixtures))
	for _, fm := range fixtures {
		if fm.IsBye {
			continue
		}
		uid := fm.UID
		match := &models.Match{
			TournamentID: tournament.ID,
			GroupLabel:   fm.GroupLabel,
			BracketUID:   &uid,
			HomeTeamID:   fm.HomeTeamID,
			AwayTeamID:   fm.AwayTeamID,
			ScheduledAt:  defaultKickoff,
			Status:       models.MatchStatusScheduled,
		}
		if fm.Round > 0 {
			round := fm.Round
			match.Round = &round
		}
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return nil, fmt.Errorf("failed to persist fixture %s: %w", uid, err)
		}
		idByUID[uid] = match.ID
	}

	// Второй проход: связываем сетку на вылет ссылками "победитель идёт в".
	for _, fm := range fixtures {
		if fm.IsBye {
			continue
		}
		targetID := idByUID[fm.UID]
		if fm.SourceMatch1UID != nil {
			if err := s.linkWinner(ctx, exec, idByUID, *fm.SourceMatch1UID, targetID, 1); err != nil {
				return nil, err
			}
		}
		if fm.SourceMatch2UID != nil {
			if err := s.linkWinner(ctx, exec, idByUID, *fm.SourceMatch2UID, targetID, 2); err != nil {
				return nil, err
			}
		}
	}

	// Нулевые строки таблицы для всех допущенных команд.
	groupByTeam := make(map[int]*string)
	for _, fm := range fixtures {
		if fm.GroupLabel == nil {
			continue
		}
		if fm.HomeTeamID != nil {
			groupByTeam[*fm.HomeTeamID] = fm.GroupLabel
		}
		if fm.AwayTeamID != nil {
			groupByTeam[*fm.AwayTeamID] = fm.GroupLabel
		}
	}
	rows := make([]*models.StandingRow, 0, len(teams))
	for _, team := range teams {
		rows = append(rows, &models.StandingRow{
			TournamentID: tournament.ID,
			GroupLabel:   groupByTeam[team.ID],
			TeamID:       team.ID,
		})
	}
	if err := s.standingRepo.BatchCreate(ctx, exec, rows); err != nil {
		return nil, err
	}

	if tournament.Status != models.StatusInProgress {
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusInProgress); err != nil {
			return nil, err
		}
		tournament.Status = models.StatusInProgress
	}

	matches, err := s.matchRepo.ListByTournament(ctx, exec, tournament.ID, repositories.ListMatchesFilter{})
	if err != nil {
		return nil, err
	}

	return &DrawResult{Tournament: tournament, Matches: matches}, nil
}

func (s *drawService) linkWinner(ctx context.Context, exec repositories.SQLExecutor, idByUID map[string]int, sourceUID string, targetID, slot int) error {
	sourceID, ok := idByUID[sourceUID]
	if !ok {
		return fmt.Errorf("internal error: bracket references unknown fixture %s", sourceUID)
	}
	return s.matchRepo.UpdateNextMatchInfo(ctx, exec, sourceID, &targetID, &slot)
}

func (s *drawService) lockTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, principal models.Principal) (*models.Tournament, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}
	tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, exec, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.CreatorID != principal.UserID && principal.Role != models.RoleSuperAdmin {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}

func (s *drawService) broadcastDraw(result *DrawResult) {
	if result == nil {
		return
	}
	s.hub.BroadcastToRoom(strconv.Itoa(result.Tournament.ID), live.Event{
		Type: live.EventDrawGenerated,
		Payload: map[string]interface{}{
			"tournament_id": result.Tournament.ID,
			"format":        result.Tournament.Format,
			"matches":       result.Matches,
		},
	})
}
