package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

// TeamRepository — read-only адаптер к реестру команд платформы.
// Состав и жизненный цикл команд ведёт внешний сервис.
type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, name, captain_id, color, created_at FROM teams WHERE id = $1`

	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.CaptainID, &t.Color, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.Team, error) {
	teams := make(map[int]*models.Team, len(ids))
	if len(ids) == 0 {
		return teams, nil
	}

	executor := r.getExecutor(exec)
	query := `SELECT id, name, captain_id, color, created_at FROM teams WHERE id = ANY($1)`

	rows, err := executor.QueryContext(ctx, query, intArray(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.Name, &t.CaptainID, &t.Color, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		teams[t.ID] = &t
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

// intArray конвертирует срез идентификаторов в параметр pq.
func intArray(ids []int) interface{} {
	arr := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	return arr
}
