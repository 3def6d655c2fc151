package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
	ErrMatchInvalidSlot       = errors.New("match slot must be 1 (home) or 2 (away)")
)

const matchColumns = `
	id, tournament_id, group_label, round, bracket_uid,
	home_team_id, away_team_id, scheduled_at,
	home_goals, away_goals, status, winner_team_id, recorded_by,
	next_match_id, next_match_slot, created_at`

type ListMatchesFilter struct {
	GroupLabel *string
	Round      *int
	Status     *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, homeGoals, awayGoals int, status models.MatchStatus, winnerTeamID *int, recordedBy int) error
	UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID *int, nextMatchSlot *int) error
	// SetTeamIntoSlot подставляет команду в домашний (1) или гостевой (2)
	// слот матча следующего раунда.
	SetTeamIntoSlot(ctx context.Context, exec SQLExecutor, matchID, slot, teamID int) error
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, group_label, round, bracket_uid, home_team_id, away_team_id, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		m.TournamentID,
		m.GroupLabel,
		m.Round,
		m.BracketUID,
		m.HomeTeamID,
		m.AwayTeamID,
		m.ScheduledAt,
		m.Status,
	).Scan(&m.ID, &m.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) scanMatch(row *sql.Row) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.GroupLabel, &m.Round, &m.BracketUID,
		&m.HomeTeamID, &m.AwayTeamID, &m.ScheduledAt,
		&m.HomeGoals, &m.AwayGoals, &m.Status, &m.WinnerTeamID, &m.RecordedBy,
		&m.NextMatchID, &m.NextMatchSlot, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if filter.GroupLabel != nil {
		queryBuilder.WriteString(" AND group_label = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.GroupLabel)
		placeholderIndex++
	}
	if filter.Round != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Round)
		placeholderIndex++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY round ASC NULLS FIRST, group_label ASC NULLS LAST, id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.TournamentID, &m.GroupLabel, &m.Round, &m.BracketUID,
			&m.HomeTeamID, &m.AwayTeamID, &m.ScheduledAt,
			&m.HomeGoals, &m.AwayGoals, &m.Status, &m.WinnerTeamID, &m.RecordedBy,
			&m.NextMatchID, &m.NextMatchSlot, &m.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, &m)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, homeGoals, awayGoals int, status models.MatchStatus, winnerTeamID *int, recordedBy int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET home_goals = $1, away_goals = $2, status = $3, winner_team_id = $4, recorded_by = $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query, homeGoals, awayGoals, status, winnerTeamID, recordedBy, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID *int, nextMatchSlot *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET next_match_id = $1, next_match_slot = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, nextMatchID, nextMatchSlot, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetTeamIntoSlot(ctx context.Context, exec SQLExecutor, matchID, slot, teamID int) error {
	executor := r.getExecutor(exec)

	var query string
	switch slot {
	case 1:
		query = `UPDATE matches SET home_team_id = $1 WHERE id = $2`
	case 2:
		query = `UPDATE matches SET away_team_id = $1 WHERE id = $2`
	default:
		return ErrMatchInvalidSlot
	}

	result, err := executor.ExecContext(ctx, query, teamID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1`

	var count int
	if err := executor.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	// Сначала рвём ссылки next_match_id, иначе FK мешает удалению.
	if _, err := executor.ExecContext(ctx, `UPDATE matches SET next_match_id = NULL WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to unlink matches for tournament %d: %w", tournamentID, err)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_tournament_id_fkey":
				return ErrMatchTournamentInvalid
			case "matches_home_team_id_fkey", "matches_away_team_id_fkey", "matches_winner_team_id_fkey":
				return ErrMatchTeamInvalid
			}
		}
	}
	return err
}
