package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/dto"
)

var (
	docSession     string
	docDownloadDir string
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Ver y editar el documento de una sesión",
}

var docShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Mostrar el texto completo del documento",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := app.EditorService.LoadCurrentDocument(cmd.Context(), docSession)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var docParrafosCmd = &cobra.Command{
	Use:   "parrafos",
	Short: "Mostrar los párrafos numerados y su categoría",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.EditorService.InitializeEditor(cmd.Context(), docSession); err != nil {
			return err
		}
		renderParagraphs(app.EditorService.Paragraphs())
		return nil
	},
}

var docHistorialCmd = &cobra.Command{
	Use:   "historial",
	Short: "Mostrar el historial de comandos de edición",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := app.EditorService.History(cmd.Context(), docSession)
		if err != nil {
			return err
		}
		renderHistory(entries)
		return nil
	},
}

var docEditarCmd = &cobra.Command{
	Use:   "editar <comando>",
	Short: "Aplicar un comando de edición en lenguaje natural",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.EditorService.InitializeEditor(cmd.Context(), docSession); err != nil {
			return err
		}
		result := app.EditorService.ProcessEditCommand(cmd.Context(), &dto.EditCommandInput{Command: args[0]}, docSession)
		if !result.Success {
			color.Red("✗ %s", result.Message)
			return nil
		}
		color.Green("✓ [%s] %s", result.Operation, result.Message)
		return nil
	},
}

var docDescargarCmd = &cobra.Command{
	Use:   "descargar",
	Short: "Descargar el documento generado",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := docDownloadDir
		if dir == "" {
			dir = app.Config.App.DownloadDir
		}
		path, err := app.EditorService.DownloadDocument(cmd.Context(), docSession, dir)
		if err != nil {
			return err
		}
		color.Green("✓ Guardado en %s", path)
		return nil
	},
}

func init() {
	docCmd.PersistentFlags().StringVarP(&docSession, "sesion", "s", "", "id de la sesión (obligatorio)")
	_ = docCmd.MarkPersistentFlagRequired("sesion")
	docDescargarCmd.Flags().StringVar(&docDownloadDir, "dir", "", "directorio de destino")

	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docParrafosCmd)
	docCmd.AddCommand(docHistorialCmd)
	docCmd.AddCommand(docEditarCmd)
	docCmd.AddCommand(docDescargarCmd)
}
