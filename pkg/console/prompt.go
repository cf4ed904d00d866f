package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when the input stream ends or fails while a
// prompt is waiting for an answer.
var ErrInputClosed = errors.New("input closed")

// readLine prints prompt and returns the next input line without its line
// terminator. A final line without terminator is still returned.
func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)

	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if err == io.EOF {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("%w: %v", ErrInputClosed, err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// readInt prompts until the operator enters an integer in [lo, hi].
func (c *Console) readInt(prompt string, lo, hi int) (int, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}

		if line == "" {
			c.println("Please enter a number.")
			continue
		}

		value, err := strconv.Atoi(strings.TrimLeft(line, " \t"))
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
				c.printf("Enter a value between %d and %d.\n", lo, hi)
				continue
			}
			c.println("Enter an integer value.")
			continue
		}
		if value < lo || value > hi {
			c.printf("Enter a value between %d and %d.\n", lo, hi)
			continue
		}

		return value, nil
	}
}

// readMenuItem prompts for a main menu item in [1, items].
func (c *Console) readMenuItem(items int) (int, error) {
	for {
		line, err := c.readLine("\nSelect item: ")
		if err != nil {
			return 0, err
		}

		if !isInteger(line) {
			c.println("Enter an integer!")
			continue
		}

		value, err := strconv.Atoi(line)
		if err != nil || value < 1 || value > items {
			c.println("Invalid menu item!")
			continue
		}

		return value, nil
	}
}

// waitForBack blocks until the operator enters exactly "b" or "B".
func (c *Console) waitForBack() error {
	for {
		line, err := c.readLine("\nEnter 'b' or 'B' to go back to main menu: ")
		if err != nil {
			return err
		}
		if line == "b" || line == "B" {
			return nil
		}
	}
}

// isInteger reports whether s is an optionally signed run of decimal digits.
func isInteger(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
