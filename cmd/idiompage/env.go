package main

import (
	"io"
	"net/http"
	"os"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout     io.Writer
	Stderr     io.Writer
	HTTPClient *http.Client // used for idiom API and upstream page requests
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		HTTPClient: http.DefaultClient,
	}
}
