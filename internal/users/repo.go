package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

type ListParams struct {
	Search string
	Page   int
	Size   int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO users
				(id, name, email, password_hash, image, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Image, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return &user, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, password_hash, image, created_at, updated_at
			FROM users WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	users, err := r.rows2users(rows)
	if err != nil {
		return nil, err
	}

	if len(users) != 1 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, password_hash, image, created_at, updated_at
			FROM users WHERE email = $1;`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	users, err := r.rows2users(rows)
	if err != nil {
		return nil, err
	}

	if len(users) != 1 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}

// List returns one page of users, optionally filtered by a name or
// email substring, together with the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []User, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.String("search", params.Search))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countRows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM users
			WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%');`,
		params.Search,
	)
	if err != nil {
		return nil, -1, err
	}
	defer countRows.Close()

	if !countRows.Next() {
		return nil, -1, errors.New("unexpected error, failed to get users count")
	}
	if err := countRows.Scan(&total); err != nil {
		return nil, -1, fmt.Errorf("scan users count: %w", err)
	}
	countRows.Close()

	limit := params.Size
	offset := (params.Page - 1) * params.Size

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, password_hash, image, created_at, updated_at
			FROM users
			WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
			ORDER BY created_at DESC
			LIMIT $2
			OFFSET $3;`,
		params.Search, limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	users, err := r.rows2users(rows)
	if err != nil {
		return nil, -1, err
	}
	return users, total, nil
}

func (r *Repo) rows2users(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var u User
		var image *string
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &image, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if image != nil {
			u.Image = *image
		}
		users = append(users, u)
	}

	if users == nil {
		users = make([]User, 0)
	}

	return users, nil
}
