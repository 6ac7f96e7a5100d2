package config

import "errors"

// ErrNotFound indicates that no configuration file exists at the expected
// location. Callers usually suggest running `sitebuilder init`.
var ErrNotFound = errors.New("sitebuilder: configuration file not found")
