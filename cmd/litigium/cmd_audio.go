package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/dto"
)

var audioLanguage string

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Transcribir audio a texto",
}

var audioTranscribirCmd = &cobra.Command{
	Use:   "transcribir <archivo>",
	Short: "Transcribir un archivo de audio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcription, err := app.AudioService.Transcribe(cmd.Context(), &dto.TranscribeInput{
			Path:     args[0],
			Language: audioLanguage,
		})
		if err != nil {
			return err
		}
		fmt.Println(transcription.Text)
		if transcription.DurationSeconds > 0 {
			faintColor.Printf("(%.1f segundos de audio)\n", transcription.DurationSeconds)
		}
		return nil
	},
}

func init() {
	audioTranscribirCmd.Flags().StringVar(&audioLanguage, "idioma", "", "idioma del audio (código de dos letras)")
	audioCmd.AddCommand(audioTranscribirCmd)
}
