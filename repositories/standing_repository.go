package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

var (
	ErrStandingNotFound = errors.New("standing row not found")
)

type StandingRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, rows []*models.StandingRow) error
	GetByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.StandingRow, error)
	Update(ctx context.Context, exec SQLExecutor, row *models.StandingRow) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, includeTeam bool) ([]*models.StandingRow, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) BatchCreate(ctx context.Context, exec SQLExecutor, rows []*models.StandingRow) error {
	executor := r.getExecutor(exec)
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO standings
			(tournament_id, group_label, team_id, played, wins, draws, losses, goals_for, goals_against, points, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	for _, row := range rows {
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = time.Now()
		}
		err := executor.QueryRowContext(ctx, query,
			row.TournamentID, row.GroupLabel, row.TeamID,
			row.Played, row.Wins, row.Draws, row.Losses,
			row.GoalsFor, row.GoalsAgainst, row.Points, row.UpdatedAt,
		).Scan(&row.ID)
		if err != nil {
			return fmt.Errorf("failed to create standing row for team %d: %w", row.TeamID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) GetByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.StandingRow, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, group_label, team_id, played, wins, draws, losses,
		       goals_for, goals_against, points, updated_at
		FROM standings
		WHERE tournament_id = $1 AND team_id = $2`

	s := &models.StandingRow{}
	err := executor.QueryRowContext(ctx, query, tournamentID, teamID).Scan(
		&s.ID, &s.TournamentID, &s.GroupLabel, &s.TeamID,
		&s.Played, &s.Wins, &s.Draws, &s.Losses,
		&s.GoalsFor, &s.GoalsAgainst, &s.Points, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresStandingRepository) Update(ctx context.Context, exec SQLExecutor, row *models.StandingRow) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE standings SET
			played = $1, wins = $2, draws = $3, losses = $4,
			goals_for = $5, goals_against = $6, points = $7, updated_at = NOW()
		WHERE id = $8`

	result, err := executor.ExecContext(ctx, query,
		row.Played, row.Wins, row.Draws, row.Losses,
		row.GoalsFor, row.GoalsAgainst, row.Points,
		row.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, includeTeam bool) ([]*models.StandingRow, error) {
	executor := r.getExecutor(exec)

	query := `
		SELECT s.id, s.tournament_id, s.group_label, s.team_id, s.played, s.wins, s.draws, s.losses,
		       s.goals_for, s.goals_against, s.points, s.updated_at`
	if includeTeam {
		query += `, t.id, t.name, t.captain_id, t.color, t.created_at`
	}
	query += ` FROM standings s`
	if includeTeam {
		query += ` JOIN teams t ON s.team_id = t.id`
	}
	// Порядок согласован с idx_standings_ranking.
	query += ` WHERE s.tournament_id = $1
		ORDER BY s.group_label ASC NULLS FIRST, s.points DESC, (s.goals_for - s.goals_against) DESC, s.goals_for DESC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.StandingRow, 0)
	for rows.Next() {
		var s models.StandingRow
		dest := []interface{}{
			&s.ID, &s.TournamentID, &s.GroupLabel, &s.TeamID,
			&s.Played, &s.Wins, &s.Draws, &s.Losses,
			&s.GoalsFor, &s.GoalsAgainst, &s.Points, &s.UpdatedAt,
		}
		var team models.Team
		if includeTeam {
			dest = append(dest, &team.ID, &team.Name, &team.CaptainID, &team.Color, &team.CreatedAt)
		}
		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, scanErr
		}
		if includeTeam {
			s.Team = &team
		}
		standings = append(standings, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return standings, nil
}

func (r *postgresStandingRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM standings WHERE tournament_id = $1`, tournamentID)
	return err
}
