package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

var (
	positiveAnswers = []string{"y", "yes"}
	negativeAnswers = []string{"n", "no"}
)

// confirm asks whether to continue until it reads a recognised answer.
// End of input counts as a refusal.
func confirm(in io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, "Are you sure you want to continue? (y/n)")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("read answer: %w", err)
			}
			fmt.Fprintln(out, "Canceling execution. No files were written to disk.")
			return false, nil
		}

		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch {
		case slices.Contains(positiveAnswers, answer):
			fmt.Fprintln(out, "Continuing execution.")
			return true, nil
		case slices.Contains(negativeAnswers, answer):
			fmt.Fprintln(out, "Canceling execution. No files were written to disk.")
			return false, nil
		default:
			fmt.Fprintf(out, "Invalid input. Please enter one of the following: %s.\n",
				strings.Join(append(append([]string{}, positiveAnswers...), negativeAnswers...), ", "))
		}
	}
}
