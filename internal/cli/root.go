package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"quiz-admin/internal/config"
)

// options are the persistent flags shared by all subcommands.
type options struct {
	configPath string
	backendURL string
}

// Execute runs the CLI.
func Execute() error {
	// A missing .env is fine.
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("QUIZ_ADMIN_CONFIG")
	if envConfig == "" {
		envConfig = config.DefaultPath
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:           "quiz-admin",
		Short:         "Author quizzes, manage the quiz directory and launch live games",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.backendURL, "backend", os.Getenv("QUIZ_BACKEND_URL"), "quiz backend base URL (overrides config)")

	cmd.AddCommand(NewConsoleCmd(opts))
	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewCreateCmd(opts))
	cmd.AddCommand(NewListCmd(opts))
	cmd.AddCommand(NewDeleteCmd(opts))
	cmd.AddCommand(NewStartCmd(opts))
	cmd.AddCommand(NewDraftCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	return cmd
}
