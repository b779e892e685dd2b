package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации салонов (часы работы и кресла).
// Сервис только читает эти данные, редактирует их владелец через другой сервис.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория салонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает салон по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"business_hours",
		"created_at",
		"updated_at",
	).
		From("barber_shops").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var shop domain.Shop
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shop.ID,
		&shop.OwnerID,
		&shop.Name,
		&shop.BusinessHours,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan shop: %w", ErrScanRow, err)
	}

	return &shop, nil
}

// GetChair получает кресло салона по ID (в том числе неактивное)
func (r *Repository) GetChair(ctx context.Context, shopID, chairID uuid.UUID) (*domain.Chair, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "shop_id", "name", "is_active").
		From("stations").
		Where(squirrel.Eq{"id": chairID, "shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetChair - build select query: %v", ErrBuildQuery, err)
	}

	var chair domain.Chair
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&chair.ID,
		&chair.ShopID,
		&chair.Name,
		&chair.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChairNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetChair - scan chair: %w", ErrScanRow, err)
	}

	return &chair, nil
}

// ListActiveChairs получает активные кресла салона в порядке названия
func (r *Repository) ListActiveChairs(ctx context.Context, shopID uuid.UUID) ([]*domain.Chair, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "shop_id", "name", "is_active").
		From("stations").
		Where(squirrel.Eq{"shop_id": shopID, "is_active": true}).
		OrderBy("name ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveChairs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveChairs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	chairs := make([]*domain.Chair, 0)
	for rows.Next() {
		var chair domain.Chair
		if err := rows.Scan(&chair.ID, &chair.ShopID, &chair.Name, &chair.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListActiveChairs - scan row: %v", ErrScanRow, err)
		}
		chairs = append(chairs, &chair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveChairs - rows error: %v", ErrScanRow, err)
	}

	return chairs, nil
}
