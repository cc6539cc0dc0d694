package github

import "errors"

// ErrInvalidRepository indicates the "repository" setting is missing or
// not of the form "owner/name".
var ErrInvalidRepository = errors.New("github: repository must be \"owner/name\"")
