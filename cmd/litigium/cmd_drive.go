package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/dto"
)

var (
	driveFolderID   string
	driveSessionID  string
	driveSaveName   string
	driveSaveFolder string
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Importar y exportar documentos con Google Drive",
}

var driveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Estado de la conexión con Drive",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.DriveService.Status(cmd.Context())
		if err != nil {
			return err
		}
		if !status.Connected {
			color.Yellow("Drive no está conectado. Ejecutá `litigium drive connect`.")
			return nil
		}
		color.Green("✓ Conectado como %s", status.Email)
		return nil
	},
}

var driveConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Obtener el enlace para vincular la cuenta de Drive",
	RunE: func(cmd *cobra.Command, args []string) error {
		// OAuth corre del lado del servidor; acá solo mostramos el enlace.
		url, err := app.DriveService.AuthURL(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("Abrí este enlace en el navegador para autorizar:")
		fmt.Println(url)
		return nil
	},
}

var driveFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "Listar archivos importables",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := app.DriveService.Files(cmd.Context(), driveFolderID)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			color.Yellow("No hay archivos.")
			return nil
		}
		for _, f := range files {
			modified := ""
			if f.ModifiedAt != nil {
				modified = f.ModifiedAt.Format("2006-01-02")
			}
			fmt.Printf("%s  %-40s  %s  %s\n", f.Id, f.Name, f.MimeType, modified)
		}
		return nil
	},
}

var driveImportCmd = &cobra.Command{
	Use:   "import <fileID>",
	Short: "Importar un archivo de Drive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		documentID, err := app.DriveService.Import(cmd.Context(), &dto.ImportFileInput{
			FileId:    args[0],
			SessionId: driveSessionID,
		})
		if err != nil {
			return err
		}
		color.Green("✓ Importado como documento %s", documentID)
		return nil
	},
}

var driveFoldersCmd = &cobra.Command{
	Use:   "folders [crear <nombre>]",
	Short: "Listar o crear carpetas de Drive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) >= 2 && args[0] == "crear" {
			folder, err := app.DriveService.CreateFolder(cmd.Context(), &dto.CreateFolderInput{
				Name:     args[1],
				ParentId: driveFolderID,
			})
			if err != nil {
				return err
			}
			color.Green("✓ Carpeta %s creada (%s)", folder.Name, folder.Id)
			return nil
		}

		folders, err := app.DriveService.Folders(cmd.Context())
		if err != nil {
			return err
		}
		if len(folders) == 0 {
			color.Yellow("No hay carpetas.")
			return nil
		}
		for _, f := range folders {
			fmt.Printf("%s  %s\n", f.Id, f.Name)
		}
		return nil
	},
}

var driveSaveCmd = &cobra.Command{
	Use:   "save <sessionID>",
	Short: "Guardar el documento de una sesión en Drive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.DriveService.Save(cmd.Context(), &dto.SaveToDriveInput{
			SessionId: args[0],
			FolderId:  driveSaveFolder,
			Filename:  driveSaveName,
		})
		if err != nil {
			return err
		}
		color.Green("✓ Guardado en Drive (%s)", result.FileId)
		if result.WebLink != "" {
			fmt.Println(result.WebLink)
		}
		return nil
	},
}

func init() {
	driveFilesCmd.Flags().StringVar(&driveFolderID, "folder", "", "carpeta de Drive")
	driveFoldersCmd.Flags().StringVar(&driveFolderID, "parent", "", "carpeta padre al crear")
	driveImportCmd.Flags().StringVarP(&driveSessionID, "sesion", "s", "", "asociar a una sesión")
	driveSaveCmd.Flags().StringVar(&driveSaveFolder, "folder", "", "carpeta de destino")
	driveSaveCmd.Flags().StringVar(&driveSaveName, "nombre", "", "nombre del archivo")

	driveCmd.AddCommand(driveStatusCmd)
	driveCmd.AddCommand(driveConnectCmd)
	driveCmd.AddCommand(driveFilesCmd)
	driveCmd.AddCommand(driveImportCmd)
	driveCmd.AddCommand(driveFoldersCmd)
	driveCmd.AddCommand(driveSaveCmd)
}
