package errors

import (
	"errors"
	"fmt"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidCapacity = "INVALID_CAPACITY"
	CodeInvalidRange    = "INVALID_RANGE"
	CodeConflict        = "CONFLICT"
	CodeTableInUse      = "TABLE_IN_USE"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Code    string
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

func NewInvalidCapacityError(capacity int) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidCapacity,
		Message: fmt.Sprintf("capacity must be greater than zero, got %d", capacity),
		Details: []ValidationDetail{{Field: "capacity", Message: "capacity must be a positive integer"}},
	}
}

func NewInvalidRangeError(start, end int) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidRange,
		Message: fmt.Sprintf("invalid range: start %d is greater than end %d", start, end),
		Details: []ValidationDetail{{Field: "start", Message: "start must not be greater than end"}},
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// InvalidTransitionError reports a status change outside the allowed lifecycle.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %s to %s", e.Entity, e.From, e.To)
}

func NewInvalidTransitionError(entity, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, To: to}
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	var it *InvalidTransitionError
	if errors.As(err, &it) {
		return it, true
	}
	return nil, false
}

type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Code: CodeConflict, Message: message}
}

func NewTableInUseError(tableID string) *ConflictError {
	return &ConflictError{
		Code:    CodeTableInUse,
		Message: fmt.Sprintf("table %s is in use by an active order", tableID),
	}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type InsufficientBalanceError struct {
	Requested string
	Available string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %s, available %s", e.Requested, e.Available)
}

func NewInsufficientBalanceError(requested, available string) *InsufficientBalanceError {
	return &InsufficientBalanceError{Requested: requested, Available: available}
}

func IsInsufficientBalanceError(err error) (*InsufficientBalanceError, bool) {
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return ib, true
	}
	return nil, false
}

// NetworkError is a transport failure talking to an upstream service. It is retryable.
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(op string, cause error) *NetworkError {
	return &NetworkError{Op: op, Cause: cause}
}

func IsNetworkError(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

type RequestTimeoutError struct {
	Op    string
	Cause error
}

func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("request timed out during %s", e.Op)
}

func (e *RequestTimeoutError) Unwrap() error {
	return e.Cause
}

func NewRequestTimeoutError(op string, cause error) *RequestTimeoutError {
	return &RequestTimeoutError{Op: op, Cause: cause}
}

func IsRequestTimeoutError(err error) (*RequestTimeoutError, bool) {
	var rt *RequestTimeoutError
	if errors.As(err, &rt) {
		return rt, true
	}
	return nil, false
}

// UpstreamError carries a non-2xx answer from an upstream API along with its message field.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Message)
}

func NewUpstreamError(status int, message string) *UpstreamError {
	return &UpstreamError{Status: status, Message: message}
}

func IsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
