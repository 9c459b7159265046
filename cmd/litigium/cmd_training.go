package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/dto"
)

var (
	trainingCategory    string
	trainingDescription string
	trainingLimit       int
	trainingFragment    string
	trainingNote        string
)

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Administrar el corpus de documentos de entrenamiento",
}

var trainingCategoriasCmd = &cobra.Command{
	Use:   "categorias [crear <nombre> | borrar <id>]",
	Short: "Listar, crear o borrar categorías",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		switch {
		case len(args) >= 2 && args[0] == "crear":
			category, err := app.TrainingService.CreateCategory(ctx, &dto.CreateCategoryInput{
				Name:        args[1],
				Description: trainingDescription,
			})
			if err != nil {
				return err
			}
			color.Green("✓ Categoría %s creada (%s)", category.Name, category.Id)
			return nil
		case len(args) >= 2 && args[0] == "borrar":
			if err := app.TrainingService.DeleteCategory(ctx, args[1]); err != nil {
				return err
			}
			color.Green("✓ Categoría %s borrada", args[1])
			return nil
		}

		categories, err := app.TrainingService.Categories(ctx)
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			color.Yellow("No hay categorías. Creá una con `litigium training categorias crear <nombre>`.")
			return nil
		}
		for _, c := range categories {
			fmt.Printf("%s  %-30s  %d documentos procesados\n", c.Id, c.Name, c.DocumentCount)
		}
		return nil
	},
}

var trainingUploadCmd = &cobra.Command{
	Use:   "upload <pdf>",
	Short: "Subir un documento PDF a una categoría",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		document, err := app.TrainingService.Upload(cmd.Context(), &dto.UploadDocumentInput{
			Path:       args[0],
			CategoryId: trainingCategory,
		})
		if err != nil {
			return err
		}
		color.Green("✓ %s subido (%d páginas, estado: %s)", document.Filename, document.Pages, document.Status)
		return nil
	},
}

var trainingDocsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Listar documentos subidos",
	RunE: func(cmd *cobra.Command, args []string) error {
		documents, err := app.TrainingService.Documents(cmd.Context(), trainingCategory)
		if err != nil {
			return err
		}
		if len(documents) == 0 {
			color.Yellow("No hay documentos.")
			return nil
		}
		for _, d := range documents {
			fmt.Printf("%s  %-40s  %-12s  %s\n", d.Id, d.Filename, d.Status, d.UploadedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var trainingBuscarCmd = &cobra.Command{
	Use:   "buscar <consulta>",
	Short: "Buscar en los documentos procesados",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := app.TrainingService.Search(cmd.Context(), &dto.SearchInput{
			Query:      args[0],
			CategoryId: trainingCategory,
			Limit:      trainingLimit,
		})
		if err != nil {
			return err
		}
		if len(results) == 0 {
			color.Yellow("Sin resultados.")
			return nil
		}
		for _, r := range results {
			color.New(color.Bold).Printf("%s (%.2f)\n", r.Filename, r.Score)
			fmt.Printf("  %s\n", r.Fragment)
		}
		return nil
	},
}

var trainingAnotarCmd = &cobra.Command{
	Use:   "anotar <documentoID>",
	Short: "Anotar un fragmento de un documento",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		annotation, err := app.TrainingService.Annotate(cmd.Context(), &dto.AnnotateInput{
			DocumentId: args[0],
			Fragment:   trainingFragment,
			Note:       trainingNote,
		})
		if err != nil {
			return err
		}
		color.Green("✓ Anotación %s creada", annotation.Id)
		return nil
	},
}

func init() {
	trainingCategoriasCmd.Flags().StringVarP(&trainingDescription, "descripcion", "d", "", "descripción al crear")
	trainingUploadCmd.Flags().StringVarP(&trainingCategory, "categoria", "c", "", "id de la categoría")
	_ = trainingUploadCmd.MarkFlagRequired("categoria")
	trainingDocsCmd.Flags().StringVarP(&trainingCategory, "categoria", "c", "", "filtrar por categoría")
	trainingBuscarCmd.Flags().StringVarP(&trainingCategory, "categoria", "c", "", "filtrar por categoría")
	trainingBuscarCmd.Flags().IntVar(&trainingLimit, "limit", 10, "máximo de resultados")
	trainingAnotarCmd.Flags().StringVar(&trainingFragment, "fragmento", "", "fragmento anotado")
	trainingAnotarCmd.Flags().StringVar(&trainingNote, "nota", "", "texto de la nota")
	_ = trainingAnotarCmd.MarkFlagRequired("fragmento")
	_ = trainingAnotarCmd.MarkFlagRequired("nota")

	trainingCmd.AddCommand(trainingCategoriasCmd)
	trainingCmd.AddCommand(trainingUploadCmd)
	trainingCmd.AddCommand(trainingDocsCmd)
	trainingCmd.AddCommand(trainingBuscarCmd)
	trainingCmd.AddCommand(trainingAnotarCmd)
}
