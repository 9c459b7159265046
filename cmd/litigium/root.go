package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/bootstrap"
	"github.com/ginogen/litigium-sub001/internal/config"
	"github.com/ginogen/litigium-sub001/internal/tracer"
	"github.com/ginogen/litigium-sub001/pkg/auth"
)

var (
	// Global flags
	verbose bool

	// Wired once in PersistentPreRunE
	app            *bootstrap.Container
	tracerShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "litigium",
	Short: "Asistente legal para redactar demandas desde la terminal",
	Long: `litigium conversa con el asistente legal remoto para generar y editar
demandas: chat por sesiones, canvas del documento, edición por comandos en
lenguaje natural, importación desde Google Drive y transcripción de audio.

Sin argumentos abre el chat interactivo.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		container, err := bootstrap.NewContainer(cfg, verbose)
		if err != nil {
			if errors.Is(err, auth.ErrMisconfigured) {
				printConfigurationError(err)
				os.Exit(2)
			}
			return err
		}
		app = container
		tracerShutdown = tracer.InitTracer(app.Logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
		if tracerShutdown != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracerShutdown(ctx)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// printConfigurationError is the dedicated screen for a fatally
// misconfigured identity provider. Nothing else can run without it, so the
// message replaces all command output.
func printConfigurationError(err error) {
	color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "⚠  Configuración incompleta")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %v\n", err)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  Definí SUPABASE_URL y SUPABASE_ANON_KEY en el entorno o en un")
	fmt.Fprintln(os.Stderr, "  archivo .env y volvé a intentar.")
}

func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log detallado en consola")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sesionesCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(driveCmd)
	rootCmd.AddCommand(trainingCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(perfilCmd)
	rootCmd.AddCommand(logsCmd)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
