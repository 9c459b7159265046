package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginogen/litigium-sub001/internal/constant"
	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/pkg/selection"
)

var chatResumeSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactivo con el asistente",
	Long: `Abre el chat interactivo. Comandos dentro del chat:

  /doc                         muestra el documento actual
  /parrafos                    muestra los párrafos numerados
  /historial                   muestra el historial de ediciones
  /seleccionar <p> <ini> <fin> selecciona texto del párrafo p
  /limpiar                     descarta la selección activa
  /descargar [dir]             descarga el documento generado
  /salir                       termina el chat`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatResumeSession, "sesion", "s", "", "retomar una sesión existente")
}

var (
	botColor   = color.New(color.FgCyan)
	userColor  = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed)
	faintColor = color.New(color.Faint)
)

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The canvas-open listener mirrors the SPA behavior: when the server
	// flags a preview, the document surfaces without being asked for.
	canvasEvents, err := app.Bus.SubscribeCanvasOpen(ctx)
	if err != nil {
		return fmt.Errorf("subscribe canvas events: %w", err)
	}
	go func() {
		for evt := range canvasEvents {
			fmt.Println()
			faintColor.Println("── el asistente abrió el canvas ──")
			showDocument(ctx, evt.SessionId)
			printPrompt()
		}
	}()

	if chatResumeSession != "" {
		if err := app.ChatService.LoadMessages(ctx, chatResumeSession); err != nil {
			return fmt.Errorf("retomar sesión %s: %w", chatResumeSession, err)
		}
		for _, msg := range app.ChatService.State().Messages {
			printMessage(msg)
		}
	} else {
		color.New(color.Bold).Println("litigium — asistente de demandas")
		faintColor.Println("Escribí tu consulta o /salir para terminar.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	printPrompt()
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			printPrompt()
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := runChatCommand(ctx, line); quit {
				return nil
			}
			printPrompt()
			continue
		}

		sendAndRender(ctx, line)
		printPrompt()
	}
	return scanner.Err()
}

func printPrompt() {
	if sel, ok := app.Tracker.Active(); ok {
		faintColor.Printf("[selección: %q] ", truncate(sel.SelectedText, 30))
	}
	userColor.Print("vos> ")
}

// sendAndRender fires the message in the background and animates the typing
// indicator off the container's IsTyping/OperationType flags.
func sendAndRender(ctx context.Context, text string) {
	before := len(app.ChatService.State().Messages)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.ChatService.SendMessage(ctx, &dto.SendMessageInput{Text: text})
	}()

	shown := ""
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			if shown != "" {
				fmt.Print("\r\033[K")
			}
			for _, msg := range app.ChatService.State().Messages[before:] {
				if msg.Role != constant.ChatMessageRoleUser {
					printMessage(msg)
				}
			}
			return
		case <-ticker.C:
			state := app.ChatService.State()
			if state.IsTyping && state.OperationType != shown {
				shown = state.OperationType
				fmt.Print("\r\033[K")
				faintColor.Printf("  %s…", typingLabel(shown))
			}
		}
	}
}

func typingLabel(operation string) string {
	switch operation {
	case constant.OperationGenerating:
		return "generando el documento"
	case constant.OperationEditing:
		return "editando el documento"
	default:
		return "escribiendo"
	}
}

func printMessage(msg entity.ChatMessage) {
	switch msg.Role {
	case constant.ChatMessageRoleUser:
		userColor.Printf("vos> ")
		fmt.Println(msg.Content)
	case constant.ChatMessageRoleError:
		errColor.Printf("✗ %s\n", msg.Content)
	default:
		botColor.Printf("asistente> ")
		fmt.Println(msg.Content)
		for _, opt := range msg.Options {
			faintColor.Printf("  · %s\n", opt)
		}
		if msg.ShowDownload {
			faintColor.Println("  (documento listo: /descargar)")
		}
	}
}

// runChatCommand handles slash commands. Returns true when the chat should
// end.
func runChatCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	sessionID := app.ChatService.SessionId()

	switch fields[0] {
	case "/salir":
		return true

	case "/doc":
		if sessionID == "" {
			errColor.Println("✗ Todavía no hay sesión.")
			return false
		}
		showDocument(ctx, sessionID)

	case "/parrafos":
		if sessionID == "" {
			errColor.Println("✗ Todavía no hay sesión.")
			return false
		}
		if err := app.EditorService.InitializeEditor(ctx, sessionID); err != nil {
			errColor.Printf("✗ %v\n", err)
			return false
		}
		renderParagraphs(app.EditorService.Paragraphs())

	case "/historial":
		if sessionID == "" {
			errColor.Println("✗ Todavía no hay sesión.")
			return false
		}
		entries, err := app.EditorService.History(ctx, sessionID)
		if err != nil {
			errColor.Printf("✗ %v\n", err)
			return false
		}
		renderHistory(entries)

	case "/seleccionar":
		if len(fields) != 4 {
			errColor.Println("✗ Uso: /seleccionar <parrafo> <inicio> <fin>")
			return false
		}
		selectInDocument(ctx, sessionID, fields[1], fields[2], fields[3])

	case "/limpiar":
		app.Tracker.Clear()
		faintColor.Println("Selección descartada.")

	case "/descargar":
		if sessionID == "" {
			errColor.Println("✗ Todavía no hay sesión.")
			return false
		}
		dir := app.Config.App.DownloadDir
		if len(fields) > 1 {
			dir = fields[1]
		}
		path, err := app.EditorService.DownloadDocument(ctx, sessionID, dir)
		if err != nil {
			errColor.Printf("✗ %v\n", err)
			return false
		}
		color.Green("✓ Guardado en %s", path)

	default:
		errColor.Printf("✗ Comando desconocido: %s\n", fields[0])
	}
	return false
}

func showDocument(ctx context.Context, sessionID string) {
	text, err := app.EditorService.LoadCurrentDocument(ctx, sessionID)
	if err != nil {
		errColor.Printf("✗ %v\n", err)
		return
	}
	if strings.TrimSpace(text) == "" {
		faintColor.Println("(documento vacío)")
		return
	}
	fmt.Println(text)
}

// selectInDocument loads the paragraphs into the tracker and records a
// selection over one of them. The next message carries it as context.
func selectInDocument(ctx context.Context, sessionID, paragraphArg, startArg, endArg string) {
	if sessionID == "" {
		errColor.Println("✗ Todavía no hay sesión.")
		return
	}
	number, err1 := strconv.Atoi(paragraphArg)
	start, err2 := strconv.Atoi(startArg)
	end, err3 := strconv.Atoi(endArg)
	if err1 != nil || err2 != nil || err3 != nil {
		errColor.Println("✗ Uso: /seleccionar <parrafo> <inicio> <fin>")
		return
	}

	if err := app.EditorService.InitializeEditor(ctx, sessionID); err != nil {
		errColor.Printf("✗ %v\n", err)
		return
	}
	paragraphs := app.EditorService.Paragraphs()
	blocks := make([]selection.Block, 0, len(paragraphs))
	for _, p := range paragraphs {
		blocks = append(blocks, selection.Block{Tag: p.Category, Text: p.Content})
	}
	app.Tracker.SetDocument(blocks)

	sel, err := app.Tracker.Select(number-1, start, end)
	if err != nil {
		errColor.Printf("✗ %v\n", err)
		return
	}
	color.Green("✓ Seleccionado: %q", truncate(sel.SelectedText, 60))
}

func renderParagraphs(paragraphs []entity.Paragraph) {
	if len(paragraphs) == 0 {
		faintColor.Println("(sin párrafos)")
		return
	}
	for _, p := range paragraphs {
		marker := " "
		if p.Modified {
			marker = "*"
		}
		faintColor.Printf("%3d%s [%s] ", p.Number, marker, p.Category)
		fmt.Println(truncate(p.Content, 90))
	}
}

func renderHistory(entries []entity.EditHistoryEntry) {
	if len(entries) == 0 {
		faintColor.Println("(sin ediciones)")
		return
	}
	for _, e := range entries {
		verdict := color.GreenString("✓")
		if !e.Success {
			verdict = color.RedString("✗")
		}
		target := ""
		if e.ParagraphNumber != nil {
			target = fmt.Sprintf(" (párrafo %d)", *e.ParagraphNumber)
		}
		fmt.Printf("%s %s [%s]%s %s\n",
			verdict,
			e.CreatedAt.Format("15:04:05"),
			e.Operation,
			target,
			truncate(e.Command, 70),
		)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
