package services

import "errors"

// Configuration and lookup failures are fatal at construction or call time
// and wrap one of these sentinels. User level order rejections never do,
// they travel as validation messages inside result structs.
var (
	ErrPairNotFound     = errors.New("trading pair not found")
	ErrInvalidParameter = errors.New("invalid parameter")
)
