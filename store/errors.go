package store

import "github.com/thoughtcast/thoughtcast/internal/apperr"

var (
	ErrNotFound = &apperr.Error{
		Message: "session %s not found",
	}

	ErrReadLedger = &apperr.Error{
		Message: "reading the session ledger %s failed",
	}

	ErrParseLedger = &apperr.Error{
		Message: "the session ledger %s is corrupted",
	}

	ErrWriteLedger = &apperr.Error{
		Message: "writing the session ledger %s failed",
	}

	ErrAlreadyRunning = &apperr.Error{
		Message: "is ThoughtCast already recording? Only one instance can record at a time",
	}
)
