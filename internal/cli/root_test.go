package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/novelshelf/internal/config"
	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	out    string
	errOut string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, out: out.String(), errOut: errOut.String()}
}

func decodeNovel(t *testing.T, s string) models.Novel {
	t.Helper()
	var resp struct {
		Status string       `json:"status"`
		Data   models.Novel `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(s), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestExecute_CreateListDeleteWithSQLite(t *testing.T) {
	dataDir := t.TempDir()
	flags := []string{"--data-dir", dataDir, "--log-level", "error"}

	r := run(t, "", append([]string{"create", "--title", "Dune", "--author", "Frank Herbert", "--format", "json"}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	dune := decodeNovel(t, r.out)
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, models.DefaultGenre, dune.Genre)

	r = run(t, "", append([]string{"create", "-t", "Solaris"}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	assert.Contains(t, r.out, "created: Solaris by Unknown Author")

	r = run(t, "", append([]string{"list"}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	lines := strings.Split(strings.TrimSpace(r.out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "+  create a new novel", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1. Solaris"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2. Dune"), lines[2])

	r = run(t, "", append([]string{"delete", dune.ID}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	assert.Equal(t, "deleted "+dune.ID+"\n", r.out)

	r = run(t, "", append([]string{"delete", dune.ID}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, "repeat delete succeeds")

	r = run(t, "", append([]string{"list", "--format", "json"}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	assert.NotContains(t, r.out, dune.ID)
	assert.Contains(t, r.out, `"state": "ready"`)
}

func TestExecute_CoverCopiesIntoDataDir(t *testing.T) {
	dataDir := t.TempDir()
	flags := []string{"--data-dir", dataDir, "--log-level", "error", "--format", "json"}

	r := run(t, "", append([]string{"create", "--title", "Covered"}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	n := decodeNovel(t, r.out)

	img := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"), 0o600))

	r = run(t, "", append([]string{"cover", n.ID, img}, flags...)...)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	updated := decodeNovel(t, r.out)

	abs, err := filepath.Abs(filepath.Join(dataDir, "Covers", n.ID+".png"))
	require.NoError(t, err)
	assert.Equal(t, abs, updated.CoverImagePath)
	assert.FileExists(t, abs)
	assert.True(t, updated.UpdatedAt.After(n.UpdatedAt))

	r = run(t, "", append([]string{"cover", n.ID, filepath.Join(t.TempDir(), "missing.png")}, flags...)...)
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.out, `"code": "asset_write"`)
}

func TestExecute_BlankTitleIsValidationError(t *testing.T) {
	r := run(t, "", "create", "--title", "   ", "--driver", "memory")
	assert.Equal(t, ExitValidation, r.code)
	assert.Contains(t, r.errOut, "error: validation error: title is required")
}

func TestExecute_BadFlags(t *testing.T) {
	r := run(t, "", "list", "--driver", "oracle")
	assert.Equal(t, ExitValidation, r.code)

	r = run(t, "", "list", "--driver", "memory", "--format", "yaml")
	assert.Equal(t, ExitValidation, r.code)
	assert.Contains(t, r.errOut, "invalid output format")

	r = run(t, "", "delete", "--driver", "memory")
	assert.Equal(t, ExitFailure, r.code)
}

func TestExecute_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "shelf.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  driver: memory\nformat: json\n"), 0o600))

	r := run(t, "", "list", "--config", cfgPath)
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	assert.Contains(t, r.out, `"status": "ok"`)

	r = run(t, "", "list", "--config", cfgPath, "--format", "text")
	require.Equal(t, ExitSuccess, r.code, r.errOut)
	assert.Contains(t, r.out, "(no novels yet)")
}

func TestExecute_REPLIsDefault(t *testing.T) {
	r := run(t, "create\nDraft A\n\n\n\nlist\nexit\n", "--driver", "memory", "--log-level", "error")
	require.Equal(t, ExitSuccess, r.code, r.errOut)

	assert.Contains(t, r.out, "(no novels yet)")
	assert.Contains(t, r.out, "created: Draft A by Unknown Author [Uncategorized]")
	assert.Contains(t, r.out, "1. Draft A")
	assert.Contains(t, r.out, "Bye!")
	assert.NotContains(t, r.out, "shelf> ")
}

func TestExecute_Version(t *testing.T) {
	r := run(t, "", "version")
	require.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.out, "Build version:")
}

func TestExecute_AppErrorAndClose(t *testing.T) {
	orig := newApp
	t.Cleanup(func() { newApp = orig })

	newApp = func(ctx context.Context, cfg *config.Config, out, errOut io.Writer) (*App, error) {
		return nil, errors.New("cannot open")
	}
	r := run(t, "", "list", "--driver", "memory")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.errOut, "cannot open")
}

func TestExecute_FailedListWritesOneJSONDocument(t *testing.T) {
	r := run(t, "", "--driver", "memory", "--store-timeout", "1ns", "--log-level", "error", "--format", "json", "list")
	assert.Equal(t, ExitFailure, r.code)

	dec := json.NewDecoder(strings.NewReader(r.out))
	var docs []Response
	for dec.More() {
		var resp Response
		require.NoError(t, dec.Decode(&resp))
		docs = append(docs, resp)
	}
	require.Len(t, docs, 1, r.out)
	assert.Equal(t, "error", docs[0].Status)
	require.NotNil(t, docs[0].Error)
	assert.Equal(t, "store_unavailable", docs[0].Error.Code)
	assert.NotNil(t, docs[0].Data, "stale list is kept in data")
}
