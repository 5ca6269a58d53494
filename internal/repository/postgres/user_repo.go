package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/repository"
)

const userColumns = `u.id, u.email, u.full_name, u.password_hash, u.account_status, u.created_at, u.updated_at,
	COALESCE(array_agg(ur.role ORDER BY ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, account_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.FullName, user.PasswordHash,
		user.AccountStatus, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}

	for _, role := range user.Roles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			user.ID, role,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE lower(u.email) = lower($1)
		GROUP BY u.id`, email)
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, full_name = $3, account_status = $4, updated_at = $5
		WHERE id = $1`,
		user.ID, user.Email, user.FullName, user.AccountStatus, user.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	where := "TRUE"
	args := []any{}

	if filter.Role != "" {
		args = append(args, string(filter.Role))
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM user_roles fr WHERE fr.user_id = u.id AND lower(fr.role) = lower($%d))`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND (u.full_name ILIKE $%d OR u.email ILIKE $%d)`, len(args), len(args))
	}

	var total int
	countQuery := `SELECT count(*) FROM users u WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE ` + where + `
		GROUP BY u.id
		ORDER BY u.full_name ASC, u.email ASC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM user_roles WHERE lower(role) = lower($1)`, string(role),
	).Scan(&count)
	return count, err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanUserRow(rows)
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var roles []string
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AccountStatus, &u.CreatedAt, &u.UpdatedAt, &roles,
	)
	if err != nil {
		return nil, err
	}
	u.Roles = make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		u.Roles = append(u.Roles, domain.Role(r))
	}
	return &u, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrDuplicateEmail
	}
	return err
}
