package memory

import "errors"

var (
	ErrEmptyID     = errors.New("record id is empty")
	ErrDuplicateID = errors.New("record with the same id already exists")
)
