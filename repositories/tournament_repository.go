package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentNameConflict  = errors.New("tournament name conflict for this creator")
	ErrTournamentInUse         = errors.New("tournament is in use (participations/matches exist)")
	ErrTournamentInvalidField  = errors.New("invalid field reference")
	ErrTournamentInvalidDates  = errors.New("tournament dates violate registration_deadline <= start_date <= end_date")
	ErrTournamentInvalidFormat = errors.New("invalid tournament format value")
)

const tournamentColumns = `
	id, name, description, field_id, creator_id,
	registration_deadline, start_date, end_date,
	entry_fee, total_prize, reward_description,
	format, max_teams, ruleset, status, champion_team_id,
	redraw_token_hash, redraw_token_expires_at, created_at`

type ListTournamentsFilter struct {
	FieldID   *int
	CreatorID *int
	Format    *models.TournamentFormat
	Status    *models.TournamentStatus
	Limit     int
	Offset    int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// GetByIDForUpdate берёт строку турнира с блокировкой FOR UPDATE —
	// взаимное исключение для жеребьёвки, допуска и записи результатов.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	// UpdateStatusIfCurrent переводит статус только из ожидаемого текущего.
	// Возвращает false, если строка уже в другом статусе.
	UpdateStatusIfCurrent(ctx context.Context, exec SQLExecutor, id int, from, to models.TournamentStatus) (bool, error)
	UpdateChampion(ctx context.Context, exec SQLExecutor, id int, championTeamID *int) error
	SetRedrawToken(ctx context.Context, exec SQLExecutor, id int, tokenHash string, expiresAt time.Time) error
	ClearRedrawToken(ctx context.Context, exec SQLExecutor, id int) error
	Delete(ctx context.Context, id int) error
	ListWithExpiredRegistration(ctx context.Context, exec SQLExecutor, now time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, description, field_id, creator_id,
			registration_deadline, start_date, end_date,
			entry_fee, total_prize, reward_description,
			format, max_teams, ruleset, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.FieldID, t.CreatorID,
		t.RegistrationDeadline, t.StartDate, t.EndDate,
		t.EntryFee, t.TotalPrize, t.RewardDescription,
		t.Format, t.MaxTeams, t.Ruleset, t.Status,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) scanTournament(row *sql.Row) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.FieldID, &t.CreatorID,
		&t.RegistrationDeadline, &t.StartDate, &t.EndDate,
		&t.EntryFee, &t.TotalPrize, &t.RewardDescription,
		&t.Format, &t.MaxTeams, &t.Ruleset, &t.Status, &t.ChampionTeamID,
		&t.RedrawTokenHash, &t.RedrawTokenExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.FieldID != nil {
		query += fmt.Sprintf(" AND field_id = $%d", argID)
		args = append(args, *filter.FieldID)
		argID++
	}
	if filter.CreatorID != nil {
		query += fmt.Sprintf(" AND creator_id = $%d", argID)
		args = append(args, *filter.CreatorID)
		argID++
	}
	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argID)
		args = append(args, *filter.Format)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.FieldID, &t.CreatorID,
			&t.RegistrationDeadline, &t.StartDate, &t.EndDate,
			&t.EntryFee, &t.TotalPrize, &t.RewardDescription,
			&t.Format, &t.MaxTeams, &t.Ruleset, &t.Status, &t.ChampionTeamID,
			&t.RedrawTokenHash, &t.RedrawTokenExpiresAt, &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			field_id = $3,
			registration_deadline = $4,
			start_date = $5,
			end_date = $6,
			entry_fee = $7,
			total_prize = $8,
			reward_description = $9,
			max_teams = $10,
			ruleset = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.FieldID,
		t.RegistrationDeadline, t.StartDate, t.EndDate,
		t.EntryFee, t.TotalPrize, t.RewardDescription,
		t.MaxTeams, t.Ruleset,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}

	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatusIfCurrent(ctx context.Context, exec SQLExecutor, id int, from, to models.TournamentStatus) (bool, error) {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1 WHERE id = $2 AND status = $3`
	result, err := executor.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, r.handleTournamentError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *postgresTournamentRepository) UpdateChampion(ctx context.Context, exec SQLExecutor, id int, championTeamID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET champion_team_id = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, championTeamID, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament champion for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetRedrawToken(ctx context.Context, exec SQLExecutor, id int, tokenHash string, expiresAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET redraw_token_hash = $1, redraw_token_expires_at = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, tokenHash, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to set redraw token for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ClearRedrawToken(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET redraw_token_hash = NULL, redraw_token_expires_at = NULL WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear redraw token for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ListWithExpiredRegistration(ctx context.Context, exec SQLExecutor, now time.Time) ([]*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE status = $1 AND registration_deadline <= $2
		FOR UPDATE SKIP LOCKED`

	rows, err := executor.QueryContext(ctx, query, models.StatusRegistrationOpen, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments with expired registration: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.FieldID, &t.CreatorID,
			&t.RegistrationDeadline, &t.StartDate, &t.EndDate,
			&t.EntryFee, &t.TotalPrize, &t.RewardDescription,
			&t.Format, &t.MaxTeams, &t.Ruleset, &t.Status, &t.ChampionTeamID,
			&t.RedrawTokenHash, &t.RedrawTokenExpiresAt, &t.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament with expired registration: %w", scanErr)
		}
		tournaments = append(tournaments, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_creator_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "tournaments_field_id_fkey":
				return ErrTournamentInvalidField
			case "fk_tournaments_champion":
				return ErrTeamNotFound
			default:
				// FK со стороны participations/matches: турнир используется.
				return ErrTournamentInUse
			}
		case "23514":
			switch pqErr.Constraint {
			case "chk_tournament_dates":
				return ErrTournamentInvalidDates
			case "chk_tournament_format":
				return ErrTournamentInvalidFormat
			}
		}
	}
	return err
}
