package identity

import "errors"

// ErrUnknownDJ means no DJ profile matched the given name or id.
var ErrUnknownDJ = errors.New("unknown dj")
