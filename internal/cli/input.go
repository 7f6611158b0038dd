package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// fdReader is implemented by *os.File.
type fdReader interface {
	Fd() uintptr
}

// interactive reports whether r is a terminal, in which case prompts are
// printed.
func interactive(r io.Reader) bool {
	f, ok := r.(fdReader)
	return ok && isTerminal(int(f.Fd()))
}

// GetSimpleText prints prompt to w and reads one line from reader, trimmed.
// If EOF occurs after some input was read, the partial line is returned.
//
//	Title
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
