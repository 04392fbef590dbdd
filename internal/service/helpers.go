package service

import (
	"database/sql"
	"errors"

	"marblefiles/internal/storage"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isObjectMissing(err error) bool {
	return errors.Is(err, storage.ErrObjectNotFound)
}
