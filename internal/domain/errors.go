package domain

import "errors"

var (
	ErrDuplicateID    = errors.New("duplicate id")
	ErrDuplicateAlias = errors.New("duplicate alias")
	ErrInvalidJob     = errors.New("invalid job: no resolvable required skills")
	ErrNotFound       = errors.New("not found")
	ErrUnknownSkill   = errors.New("unknown skill id")
)
