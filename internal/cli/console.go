package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"quiz-admin/internal/app"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/quizfile"
)

const consoleHelp = `Commands:
  show                         print the quiz being edited
  title <text>                 set the quiz title
  desc <text>                  set the quiz description
  add                          add a question
  rm <q>                       remove question q
  text <q> <text>              set the question text
  time <q> <seconds>           set the time limit (5-120)
  answer <q> <n> <text>        set answer n (1-4)
  correct <q> <n>              mark answer n (1-4) as correct
  reset                        start over with one empty question
  submit                       create the quiz
  update <quiz-id>             replace an existing quiz with this one
  clone <quiz-id>              load an existing quiz into the editor
  file <path>                  load a YAML quiz definition
  draft save|load|delete <name>, draft list
  list                         list persisted quizzes
  delete <quiz-id>             delete a quiz
  select <quiz-id>             choose the quiz to launch
  start [quiz-id]              start a game for the selected quiz
  quit`

// NewConsoleCmd runs the interactive terminal editor.
func NewConsoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive quiz editor and game launcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())
			printFeedback(d.feedback, out)

			flow := app.NewAuthoringFlow(d.client, d.drafts, d.feedback, d.log.Named("authoring"))
			defer flow.Close()
			alerts := app.AlertFunc(func(m string) { fmt.Fprintf(out, "! %s\n", m) })
			c := &console{
				flow:     flow,
				dir:      app.NewDirectory(d.client, alerts, app.DefaultDirectoryTTL, d.log.Named("directory")),
				launcher: app.NewLauncher(d.client, d.feedback, printNavigator(out), d.redirectDelay(), d.log.Named("launcher")),
				in:       reader,
				out:      out,
			}
			fmt.Fprintf(out, "Connected to %s. Type 'help' for commands.\n", d.client.BaseURL())
			return c.run(cmd.Context())
		},
	}
}

type console struct {
	flow      *app.AuthoringFlow
	dir       *app.Directory
	launcher  *app.Launcher
	in        *bufio.Reader
	out       io.Writer
	selection string
}

func (c *console) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if quit := c.exec(ctx, line); quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// exec runs one console command and reports whether the console should exit.
func (c *console) exec(ctx context.Context, line string) bool {
	name, rest := splitCommand(line)
	var (
		err      error
		surfaced bool
	)
	// shown marks errors the flow already reported through feedback or an alert.
	shown := func(e error) error {
		surfaced = e != nil
		return e
	}
	switch name {
	case "help", "?":
		fmt.Fprintln(c.out, consoleHelp)
	case "quit", "exit":
		return true
	case "show":
		c.show()
	case "title":
		meta := c.flow.Snapshot().Meta
		meta.Title = rest
		err = c.flow.SetMeta(meta)
	case "desc":
		meta := c.flow.Snapshot().Meta
		meta.Description = rest
		err = c.flow.SetMeta(meta)
	case "add":
		var id int
		if id, err = c.flow.AddQuestion(); err == nil {
			fmt.Fprintf(c.out, "Question %d added\n", id)
		}
	case "rm":
		err = c.withInts(rest, 1, func(v []int, _ string) error {
			_, err := c.flow.RemoveQuestion(v[0])
			return err
		})
	case "text":
		err = c.withInts(rest, 1, func(v []int, text string) error {
			return c.flow.SetQuestionText(v[0], text)
		})
	case "time":
		err = c.withInts(rest, 2, func(v []int, _ string) error {
			return c.flow.SetTimeLimit(v[0], v[1])
		})
	case "answer":
		err = c.withInts(rest, 2, func(v []int, text string) error {
			return c.flow.SetAnswerText(v[0], v[1]-1, text)
		})
	case "correct":
		err = c.withInts(rest, 2, func(v []int, _ string) error {
			return c.flow.MarkCorrect(v[0], v[1]-1)
		})
	case "reset":
		c.flow.Reset()
	case "submit":
		if _, err = c.flow.Submit(ctx); shown(err) == nil {
			c.dir.Invalidate()
		}
	case "update":
		var quizID int64
		if quizID, err = app.ParseSelection(rest); err == nil {
			if _, err = c.flow.Update(ctx, quizID); shown(err) == nil {
				c.dir.Invalidate()
			}
		}
	case "clone":
		var quizID int64
		if quizID, err = app.ParseSelection(rest); err == nil {
			if err = c.flow.LoadRemote(ctx, quizID); shown(err) == nil {
				c.show()
			}
		}
	case "file":
		var def quizfile.File
		if def, err = quizfile.Load(rest); err == nil {
			if err = c.flow.Load(def.Meta(), def.Records()); err == nil {
				c.show()
			}
		}
	case "draft":
		err = c.draft(ctx, rest)
	case "list":
		c.list(ctx)
	case "delete":
		var quizID int64
		if quizID, err = app.ParseSelection(rest); err == nil {
			var (
				quizzes []domain.QuizSummary
				deleted bool
			)
			quizzes, deleted, err = c.dir.Remove(ctx, quizID, stdinConfirmer(c.in, c.out))
			if shown(err) == nil && deleted {
				fmt.Fprintf(c.out, "Quiz %d deleted\n", quizID)
				printQuizzes(c.out, quizzes)
			}
		}
	case "select":
		if _, err = app.ParseSelection(rest); err == nil {
			c.selection = rest
		}
	case "start":
		if rest != "" {
			if _, err = app.ParseSelection(rest); err != nil {
				break
			}
			c.selection = rest
		}
		_, err = c.launcher.Start(ctx, c.selection)
		shown(err)
	default:
		fmt.Fprintf(c.out, "Unknown command %q. Type 'help'.\n", name)
	}
	if err != nil && !surfaced {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return false
}

func (c *console) withInts(rest string, n int, fn func([]int, string) error) error {
	values, remainder, err := intArgs(rest, n)
	if err != nil {
		return err
	}
	return fn(values, remainder)
}

func (c *console) draft(ctx context.Context, rest string) error {
	action, name := splitCommand(rest)
	switch action {
	case "save":
		return c.flow.SaveDraft(ctx, name)
	case "load":
		if err := c.flow.LoadDraft(ctx, name); err != nil {
			return err
		}
		c.show()
		return nil
	case "delete":
		return c.flow.DeleteDraft(ctx, name)
	case "list":
		names, err := c.flow.ListDrafts(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(c.out, "No drafts.")
		}
		for _, n := range names {
			fmt.Fprintln(c.out, n)
		}
		return nil
	default:
		return fmt.Errorf("unknown draft action %q", action)
	}
}

func (c *console) list(ctx context.Context) {
	quizzes, options, err := c.dir.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	printQuizzes(c.out, quizzes)
	if len(options) > 1 && c.selection == "" {
		fmt.Fprintf(c.out, "Use 'select <id>' then 'start' to launch a game.\n")
	}
}

func (c *console) show() {
	snap := c.flow.Snapshot()
	title := snap.Meta.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(c.out, "%s [%s]\n", title, snap.State)
	if snap.Meta.Description != "" {
		fmt.Fprintf(c.out, "  %s\n", snap.Meta.Description)
	}
	for pos, q := range snap.Questions {
		fmt.Fprintf(c.out, "Q%d (id %d, %ds): %s\n", pos+1, q.ID, q.TimeLimitSeconds, q.Text)
		for i, a := range q.Answers {
			mark := " "
			if q.IsCorrect(i) {
				mark = "*"
			}
			fmt.Fprintf(c.out, "   %s %d. %s\n", mark, i+1, a.Text)
		}
	}
}
