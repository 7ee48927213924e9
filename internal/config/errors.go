package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure; the message names the key.
	ErrInvalidConfig = errors.New("invalid league config")
	// ErrLoadConfig wraps failures reading the YAML file or the LEAGUE_ environment.
	ErrLoadConfig = errors.New("read league config")
)
