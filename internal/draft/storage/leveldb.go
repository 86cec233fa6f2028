package storage

import (
	"context"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB stores drafts in an embedded on-disk database.
type LevelDB struct {
	db *leveldb.DB
}

func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(_ context.Context, key string) (string, bool, error) {
	v, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if errors.Is(err, leveldb.ErrClosed) {
		return "", false, ErrClosed
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (l *LevelDB) Set(_ context.Context, key, value string) error {
	err := l.db.Put([]byte(key), []byte(value), nil)
	if errors.Is(err, leveldb.ErrClosed) {
		return ErrClosed
	}
	return err
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

func (l *LevelDB) Backend() string { return "leveldb" }
