package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/dmitrijs2005/novelshelf/internal/projection"
)

// Exit codes returned by Execute.
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitValidation = 2
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, common.ErrValidation):
		return ExitValidation
	default:
		return ExitFailure
	}
}

// errorCode names the error class in JSON output.
func errorCode(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return "validation"
	case errors.Is(err, common.ErrNotFound):
		return "not_found"
	case errors.Is(err, common.ErrAssetWrite):
		return "asset_write"
	case errors.Is(err, common.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, common.ErrBusy):
		return "busy"
	default:
		return "internal"
	}
}

// Response is the JSON envelope written for every result.
type Response struct {
	Status string         `json:"status"`
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newResponseError(err error) *ResponseError {
	return &ResponseError{Code: errorCode(err), Message: err.Error()}
}

// reportedError wraps an error that has already been rendered together with
// its result, so Execute does not print it a second time.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// Renderer writes results in the configured format.
type Renderer struct {
	Format string
	Out    io.Writer
	ErrOut io.Writer
	Now    func() time.Time
	// Exists reports whether a cover file is present. Nil means os.Stat.
	Exists func(path string) bool
}

func (r *Renderer) exists(path string) bool {
	if r.Exists != nil {
		return r.Exists(path)
	}
	_, err := os.Stat(path)
	return err == nil
}

func (r *Renderer) json() bool {
	return strings.EqualFold(r.Format, "json")
}

func (r *Renderer) encode(v any) error {
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Snapshot renders the display list: the create placeholder first, then one
// line per novel, newest first. In JSON mode a snapshot carrying an error is
// written as a single error envelope with the stale list in data.
func (r *Renderer) Snapshot(snap projection.Snapshot) error {
	if r.json() {
		resp := Response{Status: "ok", Data: snap}
		if snap.Err != nil {
			resp.Status = "error"
			resp.Error = newResponseError(snap.Err)
		}
		return r.encode(resp)
	}

	now := r.Now()
	pos := 0
	for _, e := range snap.Entries {
		switch e.Kind {
		case projection.KindCreate:
			fmt.Fprintln(r.Out, "+  create a new novel")
		case projection.KindNovel:
			pos++
			fmt.Fprintf(r.Out, "%d. %s\n", pos, r.novelLine(e.Novel, now))
		}
	}
	if pos == 0 {
		fmt.Fprintln(r.Out, "(no novels yet)")
	}
	if snap.Err != nil {
		fmt.Fprintf(r.ErrOut, "warning: list may be stale: %v\n", snap.Err)
	}
	return nil
}

// novelLine formats one record. A cover whose file is gone is left out, so
// the entry falls back to the placeholder.
func (r *Renderer) novelLine(n *models.Novel, now time.Time) string {
	line := fmt.Sprintf("%s by %s [%s] updated %s (id %s)",
		n.Title, n.Author, n.Genre, models.RelativeDate(n.UpdatedAt, now), n.ID)
	if n.HasCover() && r.exists(n.CoverImagePath) {
		line += " cover " + filepath.Base(n.CoverImagePath)
	}
	return line
}

// Novel renders a single record after an action such as "created".
func (r *Renderer) Novel(action string, n *models.Novel) error {
	if r.json() {
		return r.encode(Response{Status: "ok", Data: n})
	}
	fmt.Fprintf(r.Out, "%s: %s\n", action, r.novelLine(n, r.Now()))
	return nil
}

// Message renders a plain acknowledgement.
func (r *Renderer) Message(msg string) error {
	if r.json() {
		return r.encode(Response{Status: "ok", Data: map[string]string{"message": msg}})
	}
	fmt.Fprintln(r.Out, msg)
	return nil
}

// Error renders err. In JSON mode the envelope goes to Out so that the
// output stays a single document stream; text goes to ErrOut.
func (r *Renderer) Error(err error) {
	if r.json() {
		_ = r.encode(Response{Status: "error", Error: newResponseError(err)})
		return
	}
	fmt.Fprintf(r.ErrOut, "error: %v\n", err)
}
