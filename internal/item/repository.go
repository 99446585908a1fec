package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing item data from storage.
type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error)
	Search(ctx context.Context, text string) ([]*Item, error)
	Update(ctx context.Context, i *Item) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, i *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "available", "owner_id").
		Values(i.Name, i.Description, i.Available, i.OwnerID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&i.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "description", "available", "owner_id").
		From("public.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	var i Item
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return &i, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "description", "available", "owner_id").
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	return r.queryItems(ctx, query, args)
}

func (r *pgxRepository) Search(ctx context.Context, text string) ([]*Item, error) {
	pattern := "%" + text + "%"

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "description", "available", "owner_id").
		From("public.items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search items query failed: %w", err)
	}

	return r.queryItems(ctx, query, args)
}

func (r *pgxRepository) Update(ctx context.Context, i *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.items").
		Set("name", i.Name).
		Set("description", i.Description).
		Set("available", i.Available).
		Where(squirrel.Eq{"id": i.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) queryItems(ctx context.Context, query string, args []any) ([]*Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &i)
	}

	return items, rows.Err()
}
