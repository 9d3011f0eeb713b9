package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/vistamin/starchive/types"
)

// HandleError provides a centralized way to manage CLI errors.
// It prints a user-friendly message by default. If the --verbose
// flag is set, it prints the full technical error.
// After printing the message, it exits the application with a status code of 1.
func HandleError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
		return
	}
	var herr *types.HistoryError
	if errors.As(technicalErr, &herr) {
		// History errors carry a stable code worth surfacing even in
		// non-verbose mode.
		fmt.Fprintf(os.Stderr, "%s (%s)\n", userMsg, herr.Code)
		return
	}
	fmt.Fprintln(os.Stderr, userMsg)
}

// LogError logs an error to stderr only when verbose mode is on.
func LogError(msg string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}
