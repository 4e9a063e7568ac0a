package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"habita/auth/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already taken")
)

const uniqueViolation = "23505"

// UserUpdate is a partial update; nil fields are left untouched.
// An empty InmobiliariaID clears the tenant.
type UserUpdate struct {
	Username       *string
	Email          *string
	PasswordHash   []byte
	Role           *models.Role
	InmobiliariaID *string
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, id_inmobiliaria, created_at, updated_at`

// Create inserts a new record. Username and email uniqueness is
// enforced by the table's unique indexes, not by a prior lookup, so
// concurrent creates cannot both slip through.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, username, email, password_hash, role, id_inmobiliaria, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.InmobiliariaID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}

// Update applies a partial update. updated_at is always touched so a
// matching row is always reported, distinguishing NotFound from a
// field-level no-op.
func (r *UserRepository) Update(ctx context.Context, id string, upd UserUpdate) error {
	set := []string{"updated_at = NOW()"}
	args := []any{id}

	add := func(clause string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf(clause, len(args)))
	}

	if upd.Username != nil {
		add("username = $%d", *upd.Username)
	}
	if upd.Email != nil {
		add("email = $%d", *upd.Email)
	}
	if upd.PasswordHash != nil {
		add("password_hash = $%d", upd.PasswordHash)
	}
	if upd.Role != nil {
		add("role = $%d", *upd.Role)
	}
	if upd.InmobiliariaID != nil {
		add("id_inmobiliaria = NULLIF($%d, '')", *upd.InmobiliariaID)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1`, strings.Join(set, ", "))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
}

func (r *UserRepository) ListByInmobiliaria(ctx context.Context, inmobiliariaID string) ([]models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE id_inmobiliaria = $1 ORDER BY created_at`, inmobiliariaID)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (models.User, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.InmobiliariaID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
