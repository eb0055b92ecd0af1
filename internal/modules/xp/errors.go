package xp

import "errors"

var (
	ErrUnknownEvent = errors.New("unknown xp event")
	ErrTransient    = errors.New("xp award lost repeated update races")
)
