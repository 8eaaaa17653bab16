package binstore

import (
	"errors"
	"fmt"

	"github.com/hupe1980/binstore/engine"
	"github.com/hupe1980/binstore/shard"
)

var (
	// ErrClosed is returned by operations attempted after Close has run.
	ErrClosed = errors.New("binstore: store closed")

	// ErrRecoveryExhausted is returned when a shard could not be read or
	// written even after its parity group was consulted repeatedly.
	ErrRecoveryExhausted = errors.New("binstore: recovery exhausted")
)

// ChecksumMismatchError reports a shard whose recomputed checksum does not
// match the checksum recorded in its header.
//
// The original underlying error can be accessed via errors.Unwrap.
type ChecksumMismatchError struct {
	Bin  int
	Path string
	cause error
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("binstore: checksum mismatch in bin %d (%s)", e.Bin, e.Path)
}

func (e *ChecksumMismatchError) Unwrap() error { return e.cause }

// RecoveryExhaustedError reports that a bin could not be read or written
// even after repeated parity-recovery attempts.
//
// The original underlying error can be accessed via errors.Unwrap.
type RecoveryExhaustedError struct {
	Bin   int
	cause error
}

func (e *RecoveryExhaustedError) Error() string {
	return fmt.Sprintf("binstore: recovery exhausted for bin %d", e.Bin)
}

func (e *RecoveryExhaustedError) Unwrap() error { return e.cause }

// translateError unifies the engine and shard packages' internal error
// types into this package's public sentinels and structured error types,
// the way vecgo.translateError unified engine/index errors for that module.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, engine.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	var cm *shard.ChecksumMismatchError
	if errors.As(err, &cm) {
		return &ChecksumMismatchError{Bin: cm.Bin, Path: cm.Path, cause: err}
	}

	var re *engine.RecoveryExhaustedError
	if errors.As(err, &re) {
		return &RecoveryExhaustedError{Bin: re.Bin, cause: fmt.Errorf("%w: %w", ErrRecoveryExhausted, err)}
	}

	return err
}
