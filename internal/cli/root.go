package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/buildinfo"
	"github.com/dmitrijs2005/novelshelf/internal/config"
	"github.com/dmitrijs2005/novelshelf/internal/projection"
	"github.com/spf13/cobra"
)

// newApp is a seam for tests.
var newApp = NewApp

// session carries the configuration and the lazily opened App through one
// command execution.
type session struct {
	cfg    *config.Config
	app    *App
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (s *session) renderer() *Renderer {
	if s.app != nil {
		return s.app.render
	}
	return &Renderer{Format: s.cfg.Format, Out: s.out, ErrOut: s.errOut, Now: time.Now}
}

func (s *session) open(cmd *cobra.Command) error {
	if err := config.Load(cmd.Flags(), s.cfg); err != nil {
		return err
	}
	app, err := newApp(cmd.Context(), s.cfg, s.out, s.errOut)
	if err != nil {
		return err
	}
	s.app = app
	return nil
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.app.Close(ctx)
}

// Execute runs the shelf command line and returns the exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	s := &session{cfg: &config.Config{}, in: in, out: out, errOut: errOut}
	s.cfg.LoadDefaults()

	root := newRootCommand(s)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	if err != nil && !isReported(err) {
		s.renderer().Error(err)
	}
	return ExitCode(err)
}

// newRootCommand builds the command tree. Without a subcommand it starts
// the REPL.
func newRootCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shelf",
		Short:         "shelf - a local library of novels",
		Long:          "Keeps a library of novel records with cover images in a SQLite, PostgreSQL or MongoDB store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(s, func(cmd *cobra.Command, args []string) error {
			return s.runREPL(cmd.Context())
		}),
	}

	config.RegisterFlags(cmd.PersistentFlags(), s.cfg)

	cmd.AddCommand(newListCommand(s))
	cmd.AddCommand(newCreateCommand(s))
	cmd.AddCommand(newDeleteCommand(s))
	cmd.AddCommand(newCoverCommand(s))
	cmd.AddCommand(newREPLCommand(s))
	cmd.AddCommand(newVersionCommand(s))

	return cmd
}

// withApp opens the App before running fn.
func withApp(s *session, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := s.open(cmd); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

func (s *session) runREPL(ctx context.Context) error {
	prompt := interactive(s.in)
	if prompt {
		fmt.Fprintln(s.out, "Novel shelf (type 'help' for commands)")
	}
	if err := s.app.List(ctx); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	runREPL(ctx, s.app, bufio.NewReader(s.in), s.out, prompt)
	return nil
}

func newListCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List novels, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: withApp(s, func(cmd *cobra.Command, args []string) error {
			return s.app.List(cmd.Context())
		}),
	}
}

func newCreateCommand(s *session) *cobra.Command {
	var form projection.CreateForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a novel",
		Args:  cobra.NoArgs,
		RunE: withApp(s, func(cmd *cobra.Command, args []string) error {
			return s.app.Create(cmd.Context(), form)
		}),
	}
	cmd.Flags().StringVarP(&form.Title, "title", "t", "", "title (required)")
	cmd.Flags().StringVar(&form.Author, "author", "", "author")
	cmd.Flags().StringVar(&form.Genre, "genre", "", "genre")
	cmd.Flags().StringVar(&form.Description, "description", "", "description")
	return cmd
}

func newDeleteCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a novel; deleting a missing id succeeds",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(s, func(cmd *cobra.Command, args []string) error {
			return s.app.Delete(cmd.Context(), args[0])
		}),
	}
}

func newCoverCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cover <id> <image>",
		Short: "Copy an image into the cover directory and attach it to a novel",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(s, func(cmd *cobra.Command, args []string) error {
			return s.app.Cover(cmd.Context(), args[0], args[1])
		}),
	}
}

func newREPLCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: withApp(s, func(cmd *cobra.Command, args []string) error {
			return s.runREPL(cmd.Context())
		}),
	}
}

func newVersionCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(s.out)
		},
	}
}
