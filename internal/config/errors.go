package config

import "errors"

var (
	ErrInvalidEnv       = errors.New("config: invalid environment")
	ErrManifestNotFound = errors.New("config: manifest not found")
	ErrInvalidManifest  = errors.New("config: invalid manifest")
	ErrUnknownFormat    = errors.New("config: unknown manifest format")
)
