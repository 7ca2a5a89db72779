package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type TrainRepository interface {
	List(ctx context.Context) ([]domain.Train, error)
	GetByID(ctx context.Context, id int64) (*domain.Train, error)
	Create(ctx context.Context, train *domain.Train) error
	Update(ctx context.Context, train *domain.Train) error
	Delete(ctx context.Context, id int64) error
}

type PGTrainRepository struct {
	db DB
}

func NewTrainRepository(db DB) TrainRepository {
	return &PGTrainRepository{db: db}
}

func (r *PGTrainRepository) List(ctx context.Context) ([]domain.Train, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, source, destination, base_price, discount_percentage, created_at, updated_at FROM trains ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trains := make([]domain.Train, 0)
	for rows.Next() {
		var t domain.Train
		if err := rows.Scan(&t.ID, &t.Name, &t.Source, &t.Destination, &t.BasePrice, &t.DiscountPercentage, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

// GetByID returns nil, nil when no train has the id.
func (r *PGTrainRepository) GetByID(ctx context.Context, id int64) (*domain.Train, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, source, destination, base_price, discount_percentage, created_at, updated_at FROM trains WHERE id=$1`, id)
	var t domain.Train
	if err := row.Scan(&t.ID, &t.Name, &t.Source, &t.Destination, &t.BasePrice, &t.DiscountPercentage, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTrainRepository) Create(ctx context.Context, train *domain.Train) error {
	return r.db.QueryRow(ctx, `INSERT INTO trains (name, source, destination, base_price, discount_percentage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`, train.Name, train.Source, train.Destination, train.BasePrice, train.DiscountPercentage).
		Scan(&train.ID, &train.CreatedAt, &train.UpdatedAt)
}

func (r *PGTrainRepository) Update(ctx context.Context, train *domain.Train) error {
	err := r.db.QueryRow(ctx, `UPDATE trains SET name=$1, source=$2, destination=$3, base_price=$4, discount_percentage=$5, updated_at=now()
		WHERE id=$6
		RETURNING created_at, updated_at`, train.Name, train.Source, train.Destination, train.BasePrice, train.DiscountPercentage, train.ID).
		Scan(&train.CreatedAt, &train.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *PGTrainRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM trains WHERE id=$1`, id)
	return translateError(err)
}

var _ TrainRepository = (*PGTrainRepository)(nil)
