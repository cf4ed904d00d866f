package adc

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/itohio/envirosense/internal/scan"
)

// ReadCodes reads white-space separated integer ADC codes from r. Reading
// stops at end of input or at the first token that does not start with an
// integer. A token such as "12abc" yields 12 and ends the sequence.
func ReadCodes(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	scanner.Split(bufio.ScanWords)

	var codes []int
	for scanner.Scan() {
		token := scanner.Text()

		code, n, ok := scan.IntPrefix(token)
		if !ok {
			break
		}
		codes = append(codes, code)
		if n != len(token) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return codes, fmt.Errorf("failed to read ADC codes: %w", err)
	}

	return codes, nil
}

// ReadFile reads ADC codes from the named file.
func ReadFile(filename string) ([]int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open ADC file: %w", err)
	}
	defer f.Close()

	return ReadCodes(f)
}
