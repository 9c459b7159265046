package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/dto"
)

var perfilInput dto.UpdateProfileInput

var perfilCmd = &cobra.Command{
	Use:   "perfil",
	Short: "Ver y actualizar el perfil profesional",
}

var perfilShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Mostrar el perfil guardado",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := app.ProfileService.Get(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Nombre:        %s\n", profile.FullName)
		fmt.Printf("Matrícula:     tomo %s, folio %s\n", profile.Tomo, profile.Folio)
		fmt.Printf("Colegio:       %s\n", profile.BarAssociation)
		fmt.Printf("Domicilio:     %s\n", profile.OfficeAddress)
		fmt.Printf("Jurisdicción:  %s\n", profile.Jurisdiction)
		return nil
	},
}

var perfilUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Actualizar campos del perfil",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := app.ProfileService.Update(cmd.Context(), &perfilInput)
		if err != nil {
			return err
		}
		color.Green("✓ Perfil de %s actualizado", profile.FullName)
		return nil
	},
}

func init() {
	perfilUpdateCmd.Flags().StringVar(&perfilInput.FullName, "nombre", "", "nombre completo")
	perfilUpdateCmd.Flags().StringVar(&perfilInput.Tomo, "tomo", "", "tomo de matrícula")
	perfilUpdateCmd.Flags().StringVar(&perfilInput.Folio, "folio", "", "folio de matrícula")
	perfilUpdateCmd.Flags().StringVar(&perfilInput.BarAssociation, "colegio", "", "colegio de abogados")
	perfilUpdateCmd.Flags().StringVar(&perfilInput.OfficeAddress, "domicilio", "", "domicilio procesal")
	perfilUpdateCmd.Flags().StringVar(&perfilInput.Jurisdiction, "jurisdiccion", "", "jurisdicción por defecto")

	perfilCmd.AddCommand(perfilShowCmd)
	perfilCmd.AddCommand(perfilUpdateCmd)
}
