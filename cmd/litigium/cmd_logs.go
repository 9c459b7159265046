package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	logsLevel string
	logsLimit int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Mostrar las últimas entradas del log local",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := app.Logger.GetLogs(strings.ToUpper(logsLevel), logsLimit, 0)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			color.Yellow("Sin entradas.")
			return nil
		}
		for _, e := range entries {
			level := e.Level
			switch e.Level {
			case "ERROR":
				level = color.RedString(e.Level)
			case "WARN":
				level = color.YellowString(e.Level)
			}
			fmt.Printf("%s %-5s [%s] %s\n", e.Timestamp, level, e.Module, e.Message)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "filtrar por nivel (DEBUG, INFO, WARN, ERROR)")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 50, "máximo de entradas")
}
