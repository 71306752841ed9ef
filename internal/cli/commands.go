package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"quiz-admin/internal/app"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/feedback"
	"quiz-admin/internal/quizfile"
)

// NewCreateCmd submits a quiz defined in a YAML file.
func NewCreateCmd(opts *options) *cobra.Command {
	var (
		file     string
		updateID int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create (or update) a quiz from a YAML definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer d.Close()

			def, err := quizfile.Load(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printFeedback(d.feedback, out)
			flow := app.NewAuthoringFlow(d.client, d.drafts, d.feedback, d.log)
			if err := flow.Load(def.Meta(), def.Records()); err != nil {
				return err
			}
			if updateID > 0 {
				_, err = flow.Update(cmd.Context(), updateID)
			} else {
				_, err = flow.Submit(cmd.Context())
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "quiz definition (YAML)")
	cmd.Flags().Int64Var(&updateID, "update", 0, "replace the quiz with this id instead of creating one")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// NewListCmd prints the persisted quizzes.
func NewListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer d.Close()

			dir := app.NewDirectory(d.client, nil, 0, d.log)
			quizzes, err := dir.Fetch(cmd.Context())
			if err != nil {
				return describeClientError(err, d.client.BaseURL())
			}
			printQuizzes(cmd.OutOrStdout(), quizzes)
			return nil
		},
	}
}

// NewDeleteCmd deletes a quiz after confirmation.
func NewDeleteCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <quiz-id>",
		Short: "Delete a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizID, err := app.ParseSelection(args[0])
			if err != nil {
				return err
			}
			d, err := loadDeps(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			alerts := app.AlertFunc(func(m string) { fmt.Fprintf(out, "! %s\n", m) })
			dir := app.NewDirectory(d.client, alerts, 0, d.log)

			var confirm app.Confirmer
			if !yes {
				confirm = stdinConfirmer(bufio.NewReader(cmd.InOrStdin()), out)
			}
			quizzes, deleted, err := dir.Remove(cmd.Context(), quizID, confirm)
			if err != nil {
				return describeClientError(err, d.client.BaseURL())
			}
			if deleted {
				fmt.Fprintf(out, "Quiz %d deleted\n", quizID)
				printQuizzes(out, quizzes)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// NewStartCmd launches a game and prints where to host it.
func NewStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start <quiz-id>",
		Short: "Start a live game for a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			printFeedback(d.feedback, out)
			launcher := app.NewLauncher(d.client, d.feedback, printNavigator(out), d.redirectDelay(), d.log)
			_, err = launcher.Start(cmd.Context(), args[0])
			return err
		},
	}
}

// NewDraftCmd manages saved drafts outside the console.
func NewDraftCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage saved drafts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFlow(cmd, opts, func(ctx context.Context, flow *app.AuthoringFlow, out io.Writer) error {
				names, err := flow.ListDrafts(ctx)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFlow(cmd, opts, func(ctx context.Context, flow *app.AuthoringFlow, out io.Writer) error {
				return flow.DeleteDraft(ctx, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "submit <name>",
		Short: "Submit a saved draft as a new quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFlow(cmd, opts, func(ctx context.Context, flow *app.AuthoringFlow, out io.Writer) error {
				if err := flow.LoadDraft(ctx, args[0]); err != nil {
					return err
				}
				if _, err := flow.Submit(ctx); err != nil {
					return err
				}
				return flow.DeleteDraft(ctx, args[0])
			})
		},
	})
	return cmd
}

func withFlow(cmd *cobra.Command, opts *options, fn func(ctx context.Context, flow *app.AuthoringFlow, out io.Writer) error) error {
	d, err := loadDeps(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer d.Close()

	out := cmd.OutOrStdout()
	printFeedback(d.feedback, out)
	flow := app.NewAuthoringFlow(d.client, d.drafts, d.feedback, d.log)
	defer flow.Close()
	return fn(cmd.Context(), flow, out)
}

func printQuizzes(out io.Writer, quizzes []domain.QuizSummary) {
	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes yet.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQUESTIONS\tCREATED")
	for _, q := range quizzes {
		created := "-"
		if !q.CreatedAt.IsZero() {
			created = q.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", q.ID, q.Title, q.QuestionCount, created)
	}
	_ = tw.Flush()
}

// printFeedback echoes feedback messages as they are shown.
func printFeedback(fb *feedback.Channel, out io.Writer) {
	fb.Listen(func(m feedback.Message) {
		mark := "ok"
		if m.Kind == feedback.KindError {
			mark = "error"
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", m.Region, mark, m.Text)
	})
}

func printNavigator(out io.Writer) app.Navigator {
	return app.NavigateFunc(func(target string) {
		fmt.Fprintf(out, "Host view: %s\n", target)
	})
}

func stdinConfirmer(reader *bufio.Reader, out io.Writer) app.Confirmer {
	return app.ConfirmFunc(func(prompt string) bool {
		ok, err := promptYesNo(reader, out, prompt+" [y/n]: ")
		return err == nil && ok
	})
}
