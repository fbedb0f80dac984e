package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goserg/technotes/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

func (s *Storage) ListUsers(ctx context.Context) ([]domain.User, error) {
	query, args, err := sq.
		Select("id", "username", "active", "created_at", "updated_at").
		From("users").
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roles, err := s.listRoles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Roles = roles[users[i].ID]
	}
	return users, nil
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id.String()})
}

func (s *Storage) GetUserByName(ctx context.Context, username string) (domain.User, error) {
	return s.getUser(ctx, sq.Eq{"username": username})
}

func (s *Storage) getUser(ctx context.Context, where sq.Eq) (domain.User, error) {
	query, args, err := sq.
		Select("id", "username", "active", "created_at", "updated_at").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return domain.User{}, err
	}
	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	user.Roles, err = s.userRoles(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Storage) GetPasswordHash(ctx context.Context, username string) (string, error) {
	query, args, err := sq.
		Select("password_hash").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return "", err
	}
	var hash string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	return hash, nil
}

func (s *Storage) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	query, args, err := sq.
		Insert("users").
		Columns("id", "username", "password_hash", "active", "created_at", "updated_at").
		Values(user.ID.String(), user.Username, passwordHash, user.Active, now, now).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translateUserErr(err)
	}
	if err := insertRoles(ctx, tx, user.ID, user.Roles); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Storage) UpdateUser(ctx context.Context, user domain.User, passwordHash string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	update := sq.
		Update("users").
		Set("username", user.Username).
		Set("active", user.Active).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": user.ID.String()})
	if passwordHash != "" {
		update = update.Set("password_hash", passwordHash)
	}
	query, args, err := update.ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return translateUserErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}

	query, args, err = sq.
		Delete("user_roles").
		Where(sq.Eq{"user_id": user.ID.String()}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	if err := insertRoles(ctx, tx, user.ID, user.Roles); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := sq.
		Delete("user_roles").
		Where(sq.Eq{"user_id": id.String()}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	query, args, err = sq.
		Delete("users").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return tx.Commit()
}

func (s *Storage) listRoles(ctx context.Context) (map[uuid.UUID][]domain.Role, error) {
	query, args, err := sq.
		Select("user_id", "role").
		From("user_roles").
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make(map[uuid.UUID][]domain.Role)
	for rows.Next() {
		var (
			rawID string
			role  string
		)
		if err := rows.Scan(&rawID, &role); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, err
		}
		roles[id] = append(roles[id], domain.Role(role))
	}
	return roles, rows.Err()
}

func (s *Storage) userRoles(ctx context.Context, id uuid.UUID) ([]domain.Role, error) {
	query, args, err := sq.
		Select("role").
		From("user_roles").
		Where(sq.Eq{"user_id": id.String()}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, domain.Role(role))
	}
	return roles, rows.Err()
}

func insertRoles(ctx context.Context, tx *sql.Tx, id uuid.UUID, roles []domain.Role) error {
	for _, role := range roles {
		query, args, err := sq.
			Insert("user_roles").
			Columns("user_id", "role").
			Values(id.String(), string(role)).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var (
		rawID string
		user  domain.User
	)
	err := row.Scan(&rawID, &user.Username, &user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	user.ID, err = uuid.Parse(rawID)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// translateUserErr maps the unique index violation on users.username to
// the domain error. The index is what actually guarantees uniqueness;
// the service-level duplicate check only exists for the friendlier
// error message.
func translateUserErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.ErrDuplicateUsername
	}
	return err
}
