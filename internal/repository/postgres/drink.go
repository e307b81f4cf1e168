package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/database"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/pagination"
)

const drinkColumns = `id, name, image_url, type, avg_rating, num_of_reviews, num_of_wish, created_at, updated_at`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// DrinkRepository implements repository.DrinkRepository using PostgreSQL.
type DrinkRepository struct {
	pool database.DBTX
}

// NewDrinkRepository creates a new PostgreSQL-backed drink repository.
func NewDrinkRepository(pool database.DBTX) *DrinkRepository {
	return &DrinkRepository{pool: pool}
}

// FindByID retrieves a drink by its ID.
func (r *DrinkRepository) FindByID(ctx context.Context, id string) (_ *domain.Drink, err error) {
	query := `SELECT ` + drinkColumns + ` FROM drinks WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "FindDrink", query)
	defer func() { end(err) }()

	d, err := scanDrink(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("drink", id)
		}
		return nil, fmt.Errorf("scan drink: %w", err)
	}
	return d, nil
}

// likeEscaper makes LIKE metacharacters in a name filter match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindAll returns drinks matching the query with the total count.
func (r *DrinkRepository) FindAll(ctx context.Context, q repository.DrinkQuery) (_ []domain.Drink, _ int, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if q.Name != nil {
		conditions = append(conditions, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, argIndex))
		args = append(args, "%"+likeEscaper.Replace(*q.Name)+"%")
		argIndex++
	}

	if q.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, string(*q.Type))
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s,
		       count(*) OVER() AS total_count
		FROM drinks
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		drinkColumns, whereClause, drinkOrderBy(q.Order), argIndex, argIndex+1,
	)

	page := pagination.Params{Page: q.Page, PerPage: q.PerPage}.Normalize()
	args = append(args, page.PerPage, page.Offset())

	ctx, end := database.TraceQuery(ctx, "FindDrinks", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list drinks: %w", err)
	}
	defer rows.Close()

	var (
		drinks     []domain.Drink
		totalCount int
	)

	for rows.Next() {
		d, err := scanDrink(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("scan drink row: %w", err)
		}
		drinks = append(drinks, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate drink rows: %w", err)
	}

	if drinks == nil {
		drinks = []domain.Drink{}
	}

	return drinks, totalCount, nil
}

// Add inserts a new drink.
func (r *DrinkRepository) Add(ctx context.Context, d *domain.Drink) (err error) {
	query := `
		INSERT INTO drinks (` + drinkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "AddDrink", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		d.ID,
		d.Name,
		d.ImageURL,
		string(d.Type),
		float64(d.AvgRating),
		d.NumOfReviews,
		d.NumOfWish,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("drink", "id", d.ID)
		}
		return fmt.Errorf("insert drink: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing drink.
func (r *DrinkRepository) Update(ctx context.Context, d *domain.Drink) (err error) {
	query := `
		UPDATE drinks
		SET name = $1, image_url = $2, type = $3, avg_rating = $4,
		    num_of_reviews = $5, num_of_wish = $6, updated_at = $7
		WHERE id = $8`

	ctx, end := database.TraceQuery(ctx, "UpdateDrink", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query,
		d.Name,
		d.ImageURL,
		string(d.Type),
		float64(d.AvgRating),
		d.NumOfReviews,
		d.NumOfWish,
		d.UpdatedAt,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("update drink: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("drink", d.ID)
	}

	return nil
}

// DeleteByID removes a drink.
func (r *DrinkRepository) DeleteByID(ctx context.Context, id string) (err error) {
	query := `DELETE FROM drinks WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteDrink", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete drink: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("drink", id)
	}

	return nil
}

func drinkOrderBy(o domain.OrderType) string {
	switch o {
	case domain.OrderLikeDesc:
		return "avg_rating DESC, created_at DESC, id"
	case domain.OrderLikeAsc:
		return "avg_rating ASC, created_at DESC, id"
	default:
		return "created_at DESC, id"
	}
}

// scanDrink reads one drink row. extra receives any trailing columns.
func scanDrink(row rowScanner, extra ...any) (*domain.Drink, error) {
	var (
		d         domain.Drink
		drinkType string
		avgRating float64
	)

	dest := append([]any{
		&d.ID,
		&d.Name,
		&d.ImageURL,
		&drinkType,
		&avgRating,
		&d.NumOfReviews,
		&d.NumOfWish,
		&d.CreatedAt,
		&d.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	d.Type = domain.DrinkType(drinkType)
	d.AvgRating = domain.DrinkRating(avgRating)
	return &d, nil
}
