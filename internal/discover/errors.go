package discover

import "errors"

// ErrListFailed wraps filesystem failures during source file discovery.
var ErrListFailed = errors.New("sitebuilder: source discovery failed")
