package sqlite

import (
	"database/sql"

	"github.com/goserg/technotes/internal/migrate"
	"github.com/goserg/technotes/internal/storage"

	"github.com/sirupsen/logrus"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.UserStorage = (*Storage)(nil)
var _ storage.NoteStorage = (*Storage)(nil)

func New(l *logrus.Logger, fileName string) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "storage",
	})
	db, err := sql.Open("sqlite3", buildSource(fileName))
	if err != nil {
		return nil, err
	}
	// A single connection serializes writes.
	db.SetMaxOpenConns(1)

	if err := migrate.Up(db); err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}
	log.Info("storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}
