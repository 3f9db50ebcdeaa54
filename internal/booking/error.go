package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNextID               = errors.New("get next id from generator")
	ErrRecordNotFound       = errors.New("record not found")
	// ErrIdempotencyKeyReused means a retry carried a known key but asked for
	// a different booking.
	ErrIdempotencyKeyReused = errors.New("idempotency key reused for another booking")
)

const (
	ResourceRoom    = "room"
	ResourceBooking = "booking"
)

type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

func IsNotFoundError(err error) *NotFoundError {
	if err == nil {
		return nil
	}

	var notFoundErr *NotFoundError

	if errors.As(err, &notFoundErr) {
		return notFoundErr
	}

	return nil
}

type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputErr *InputError

	if errors.As(err, &inputErr) {
		return inputErr
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("invalid input: %+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
