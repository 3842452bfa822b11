package overtime

import "errors"

var (
	ErrRuleNotFound = errors.New("overtime rule not found")
)
