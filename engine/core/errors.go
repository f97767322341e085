package core

import (
	"errors"
)

var (
	ErrNoMesh          = errors.New("no mesh to export")
	ErrMeshDocument    = errors.New("invalid mesh document")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknownFormat   = errors.New("unknown output format")
	ErrExportFailed    = errors.New("meshes failed to export")
	ErrNoLoader        = errors.New("no loader registered for resource type")
	ErrWatcherClosed   = errors.New("watcher already closed")
	ErrNoWorkers       = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannel = errors.New("attempting to create worker pool with a negative channel size")
	ErrUnknown         = errors.New("unknown")
)
