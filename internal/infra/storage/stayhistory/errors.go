package stayhistory

import "errors"

var (
	ErrBuildQuery = errors.New("stayhistory.repository: failed to build query")
	ErrExecQuery  = errors.New("stayhistory.repository: failed to execute query")
	ErrScanRow    = errors.New("stayhistory.repository: failed to scan row")
)
