package main

import (
	"errors"
	"fmt"
	"os"
)

const (
	exitSuccess = 0
	exitNoMatch = 1
	exitError   = 2
)

// NoMatchError reports that the match command ran but the answer was wrong.
type NoMatchError struct {
	Message string
}

func (e *NoMatchError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var noMatch *NoMatchError
		if errors.As(err, &noMatch) {
			os.Exit(exitNoMatch)
		}
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}
