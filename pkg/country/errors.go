package country

import "errors"

var (
	ErrEmptyRegistry  = errors.New("country: registry requires at least one country")
	ErrDuplicateCode  = errors.New("country: duplicate country code")
	ErrInvalidCountry = errors.New("country: invalid country")
	ErrInvalidData    = errors.New("country: invalid data file")
)
