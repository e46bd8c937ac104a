package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPoolNotFound   = errors.New("pool not found")
	ErrAlreadyJoined  = errors.New("already joined")
	ErrPoolFull       = errors.New("pool is full")
	ErrNoSession      = errors.New("no session")
	ErrStorageCorrupt = errors.New("storage corrupt")
	ErrKeyNotFound    = errors.New("key not found")
	ErrInvalidPool    = errors.New("invalid pool")
)

type JoinErrorKind string

const (
	JoinNotFound      JoinErrorKind = "not_found"
	JoinAlreadyJoined JoinErrorKind = "already_joined"
	JoinFull          JoinErrorKind = "full"
)

// JoinError is a join rejected by a membership rule. The pool is left unchanged.
type JoinError struct {
	PoolID PoolID
	Kind   JoinErrorKind
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join pool %s: %v", e.PoolID, e.Unwrap())
}

func (e *JoinError) Unwrap() error {
	switch e.Kind {
	case JoinNotFound:
		return ErrPoolNotFound
	case JoinAlreadyJoined:
		return ErrAlreadyJoined
	case JoinFull:
		return ErrPoolFull
	default:
		return errors.New(string(e.Kind))
	}
}

// UserMessage is the notice shown to the user for a rejected join.
func (e *JoinError) UserMessage() string {
	switch e.Kind {
	case JoinNotFound:
		return "Pool not found"
	case JoinAlreadyJoined:
		return "Already joined!"
	case JoinFull:
		return "Pool is full!"
	default:
		return e.Error()
	}
}
