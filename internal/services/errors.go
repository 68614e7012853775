package services

import "errors"

// Service errors
var (
	ErrOperationRunning = errors.New("operation already running")
	ErrNoStatistics     = errors.New("statistics not loaded")
)
