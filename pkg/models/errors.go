package models

import "errors"

var (
	// ErrEmptyInput is returned when an aggregation receives zero records.
	ErrEmptyInput = errors.New("empty input")

	// ErrInsufficientData is returned when no usable feature row can be produced.
	ErrInsufficientData = errors.New("insufficient data for prediction")

	// ErrUnknownMachine is returned when a machine id has no readings.
	ErrUnknownMachine = errors.New("machine not found")

	// ErrMalformedReading is returned by ingestion when a reading is out of domain.
	ErrMalformedReading = errors.New("malformed reading")

	// ErrInvalidClassifierOutput is returned when a classifier answers outside its contract.
	ErrInvalidClassifierOutput = errors.New("invalid classifier output")

	// ErrInvalidInput indicates request parameters failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
