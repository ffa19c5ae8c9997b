package model

import "errors"

var (
	ErrBookingDoesNotExist = errors.New("booking do not exist")
	ErrUnknownFlow         = errors.New("unknown flow")
	ErrIncompleteWizard    = errors.New("wizard data is missing a step")
)
