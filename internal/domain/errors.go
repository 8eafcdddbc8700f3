package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure independent of transport or store.
type ErrorKind string

const (
	KindValidation         ErrorKind = "VALIDATION"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindNotAMember         ErrorKind = "NOT_A_MEMBER"
	KindInsufficientRole   ErrorKind = "INSUFFICIENT_ROLE"
	KindOwnerOnly          ErrorKind = "OWNER_ONLY"
	KindOwnerProtected     ErrorKind = "OWNER_PROTECTED"
	KindAlreadyMember      ErrorKind = "ALREADY_MEMBER"
	KindInvalidAssignee    ErrorKind = "INVALID_ASSIGNEE"
	KindTargetUserNotFound ErrorKind = "TARGET_USER_NOT_FOUND"
	KindEmailInUse         ErrorKind = "EMAIL_IN_USE"
	KindTransient          ErrorKind = "TRANSIENT"
)

// Error is the domain-level error carried from policy/service code out to the boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, KindTransient for anything unclassified.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindTransient
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
