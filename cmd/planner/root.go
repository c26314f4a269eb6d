package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Interior planner editing server",
		Long: `Planner держит сессии редактора интерьера: стены, мебель, историю
правок и файлы проектов .interior3d. Настройки берутся из CONFIG_FILE и
переменных окружения; .env в текущем каталоге подхватывается автоматически.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env необязателен
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}
