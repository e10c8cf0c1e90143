// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert for callers that map it onto transport status codes.
type Kind uint8

const (
	KindValidation Kind = iota
	KindAuthorization
	KindTemporal
	KindArithmetic
	KindInsufficientBalance
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindTemporal:
		return "temporal"
	case KindArithmetic:
		return "arithmetic"
	case KindInsufficientBalance:
		return "insufficient balance"
	case KindNotFound:
		return "not found"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ErrRevert is a user facing failure. The call that produced it has no effect.
type ErrRevert struct {
	kind    Kind
	message string
}

// New returns a validation revert.
func New(message string) *ErrRevert {
	return &ErrRevert{
		kind:    KindValidation,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
	}
}

func NewKind(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches reverts by message, so sentinel reverts compare equal to their copies.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.message == e.message && t.kind == e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}
