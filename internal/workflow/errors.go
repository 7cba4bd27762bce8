package workflow

import "errors"

// Node failure modes, wrapped with stage context by each node.
var (
	ErrLoadFailed    = errors.New("load stage failed")
	ErrMatchFailed   = errors.New("match stage failed")
	ErrPersistFailed = errors.New("persist stage failed")
)
