package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

var ErrFieldNotFound = errors.New("field not found")

// FieldRepository — read-only адаптер к реестру площадок.
// Конфликты расписания площадок этот сервис не проверяет.
type FieldRepository interface {
	GetByID(ctx context.Context, id int) (*models.Field, error)
}

type postgresFieldRepository struct {
	db *sql.DB
}

func NewPostgresFieldRepository(db *sql.DB) FieldRepository {
	return &postgresFieldRepository{db: db}
}

func (r *postgresFieldRepository) GetByID(ctx context.Context, id int) (*models.Field, error) {
	query := `SELECT id, name, city, region, created_at FROM fields WHERE id = $1`

	f := &models.Field{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Name, &f.City, &f.Region, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return f, nil
}
