package utils

import "log"

// Must aborts startup on a wiring error. Not for use past initialization.
func Must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
