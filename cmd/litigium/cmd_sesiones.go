package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/dto"
)

var sesionesCmd = &cobra.Command{
	Use:   "sesiones",
	Short: "Administrar las sesiones de chat",
}

var sesionesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listar las sesiones",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := app.ChatService.Sessions(cmd.Context())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			color.Yellow("No hay sesiones todavía.")
			return nil
		}
		for _, s := range sessions {
			folder := ""
			if s.Folder != "" {
				folder = " [" + s.Folder + "]"
			}
			fmt.Printf("%s  %s%s  %s\n", s.Id, s.Title, folder, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sesionesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Eliminar una sesión",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ChatService.DeleteSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		color.Green("✓ Sesión %s eliminada", args[0])
		return nil
	},
}

var sesionesMoverCmd = &cobra.Command{
	Use:   "mover <id> <carpeta>",
	Short: "Mover una sesión a una carpeta",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := &dto.MoveSessionInput{SessionId: args[0], Folder: args[1]}
		if err := app.ChatService.MoveSession(cmd.Context(), input); err != nil {
			return err
		}
		color.Green("✓ Sesión %s movida a %s", args[0], args[1])
		return nil
	},
}

var sesionesBulkDeleteCmd = &cobra.Command{
	Use:   "bulk-delete <id>...",
	Short: "Eliminar varias sesiones de una vez",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.ChatService.BulkDeleteSessions(cmd.Context(), &dto.BulkDeleteInput{SessionIds: args})
		if err != nil {
			return err
		}
		color.Green("✓ %d de %d sesiones eliminadas", result.DeletedCount, len(args))
		for _, e := range result.Errors {
			color.Red("  ✗ %s: %s", e.SessionId, e.Message)
		}
		return nil
	},
}

func init() {
	sesionesCmd.AddCommand(sesionesListCmd)
	sesionesCmd.AddCommand(sesionesDeleteCmd)
	sesionesCmd.AddCommand(sesionesMoverCmd)
	sesionesCmd.AddCommand(sesionesBulkDeleteCmd)
}
