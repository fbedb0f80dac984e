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

var noteColumns = []string{"id", "ticket_num", "user_id", "title", "text", "completed", "created_at", "updated_at"}

func (s *Storage) ListNotes(ctx context.Context) ([]domain.Note, error) {
	query, args, err := sq.
		Select(noteColumns...).
		From("notes").
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

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (s *Storage) GetNote(ctx context.Context, id uuid.UUID) (domain.Note, error) {
	return s.getNote(ctx, sq.Eq{"id": id.String()})
}

func (s *Storage) GetNoteByTitle(ctx context.Context, title string) (domain.Note, error) {
	return s.getNote(ctx, sq.Eq{"title": title})
}

func (s *Storage) getNote(ctx context.Context, where sq.Eq) (domain.Note, error) {
	query, args, err := sq.
		Select(noteColumns...).
		From("notes").
		Where(where).
		ToSql()
	if err != nil {
		return domain.Note{}, err
	}
	note, err := scanNote(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Note{}, domain.ErrNoteNotFound
		}
		return domain.Note{}, err
	}
	return note, nil
}

// CreateNote draws the next ticket number from the persistent counter
// and inserts the note in the same transaction. The counter only moves
// forward, so a deleted note never gives its number back.
func (s *Storage) CreateNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Note{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ticket, err := nextTicketNum(ctx, tx)
	if err != nil {
		return domain.Note{}, err
	}

	now := time.Now().UTC()
	query, args, err := sq.
		Insert("notes").
		Columns(noteColumns...).
		Values(
			note.ID.String(),
			ticket,
			note.UserID.String(),
			note.Title,
			note.Text,
			note.Completed,
			now,
			now,
		).
		ToSql()
	if err != nil {
		return domain.Note{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.Note{}, translateNoteErr(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Note{}, err
	}
	return s.GetNote(ctx, note.ID)
}

func nextTicketNum(ctx context.Context, tx *sql.Tx) (int64, error) {
	query, args, err := sq.
		Update("ticket_counter").
		Set("value", sq.Expr("value + 1")).
		Where(sq.Eq{"id": 1}).
		Suffix("RETURNING value").
		ToSql()
	if err != nil {
		return 0, err
	}
	var ticket int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&ticket); err != nil {
		return 0, err
	}
	return ticket, nil
}

func (s *Storage) UpdateNote(ctx context.Context, note domain.Note) error {
	query, args, err := sq.
		Update("notes").
		Set("user_id", note.UserID.String()).
		Set("title", note.Title).
		Set("text", note.Text).
		Set("completed", note.Completed).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": note.ID.String()}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateNoteErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (s *Storage) DeleteNote(ctx context.Context, id uuid.UUID) error {
	query, args, err := sq.
		Delete("notes").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (s *Storage) CountNotesByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query, args, err := sq.
		Select("COUNT(*)").
		From("notes").
		Where(sq.Eq{"user_id": userID.String()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanNote(row scanner) (domain.Note, error) {
	var (
		rawID     string
		rawUserID string
		note      domain.Note
	)
	err := row.Scan(
		&rawID,
		&note.TicketNum,
		&rawUserID,
		&note.Title,
		&note.Text,
		&note.Completed,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return domain.Note{}, err
	}
	note.ID, err = uuid.Parse(rawID)
	if err != nil {
		return domain.Note{}, err
	}
	note.UserID, err = uuid.Parse(rawUserID)
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func translateNoteErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.ErrDuplicateTitle
	}
	return err
}
