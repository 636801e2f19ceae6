package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// promptCount asks for a number of tickers until it gets one between 0 and
// todo. Running out of input is an error.
func promptCount(in io.Reader, out io.Writer, todo int, perTicker time.Duration) (int, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "There are %d TODO tickers. Enter # of tickers to process (%s per ticker). To exit enter '0': ", todo, perTicker)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}

		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && n >= 0 && n <= todo {
			return n, nil
		}
		fmt.Fprintf(out, "Please enter a whole number between 0 and %d.\n", todo)
	}
}
