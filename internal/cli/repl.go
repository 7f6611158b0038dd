package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/novelshelf/internal/projection"
)

// actions is the command surface the REPL drives. *App implements it.
type actions interface {
	List(ctx context.Context) error
	Create(ctx context.Context, form projection.CreateForm) error
	Delete(ctx context.Context, id string) error
	Cover(ctx context.Context, id, path string) error
}

const replHelp = `Available commands:
  list | l              reload and show the library
  create                add a novel (prompts for the fields)
  delete <id>           remove a novel
  cover <id> <path>     set a novel's cover image
  help                  show this text
  exit | quit           leave`

// runREPL reads commands from reader until EOF or "exit". The "shelf> "
// prompt is printed only when prompt is true. Command errors are reported
// to w and the loop continues.
func runREPL(ctx context.Context, a actions, reader *bufio.Reader, w io.Writer, prompt bool) {
	report := func(err error) {
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}

	for {
		if prompt {
			fmt.Fprint(w, "shelf> ")
		}
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(w, replHelp)

		case "l", "list":
			report(a.List(ctx))

		case "create":
			form, err := readCreateForm(reader, w)
			if err != nil {
				return
			}
			report(a.Create(ctx, form))

		case "delete":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: delete <id>")
				continue
			}
			report(a.Delete(ctx, args[0]))

		case "cover":
			if len(args) < 2 {
				fmt.Fprintln(w, "Usage: cover <id> <path>")
				continue
			}
			// Paths may contain spaces.
			path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line[len(cmd):]), args[0]))
			report(a.Cover(ctx, args[0], path))

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func readCreateForm(reader *bufio.Reader, w io.Writer) (projection.CreateForm, error) {
	var form projection.CreateForm
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Title", &form.Title},
		{"Author (empty for default)", &form.Author},
		{"Genre (empty for default)", &form.Genre},
		{"Description (empty for default)", &form.Description},
	}
	for _, f := range fields {
		v, err := GetSimpleText(reader, f.prompt, w)
		if err != nil {
			return form, err
		}
		*f.dst = v
	}
	return form, nil
}
