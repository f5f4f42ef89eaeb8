package cmd

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aurabox/internal/model"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the widget assistant from the terminal",
	Long: `Mount a widget session on a running AuraBox server and chat with it.

Commands:
  /lang en|hi     switch language
  /image <path>   attach an image to the next message
  /quit           unmount and exit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	flags := chatCmd.Flags()
	flags.String("server", "http://localhost:8080", "AuraBox server URL")
	flags.String("token", "", "bearer token (anonymous or signed-in)")
	flags.String("lang", "en", "language (en/hi)")
	flags.Duration("timeout", 90*time.Second, "request timeout")
}

func runChat(cmd *cobra.Command, _ []string) error {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	lang, _ := cmd.Flags().GetString("lang")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := newWidgetClient(server, token, timeout)
	snap, err := client.mount(ctx, lang)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.unmount(context.Background())
	}()

	you := color.New(color.FgGreen, color.Bold).SprintFunc()
	bot := color.New(color.FgCyan, color.Bold).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, msg := range snap.Messages {
		printMessage(msg, you, bot)
	}
	if snap.Quota.Remaining >= 0 {
		fmt.Println(dim(fmt.Sprintf("guest mode: %d messages left, sign in for unlimited chat", snap.Quota.Remaining)))
	}

	var pendingImage string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for {
		fmt.Print(you("You: "))
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit" || line == "exit":
			return nil
		case strings.HasPrefix(line, "/lang "):
			if err := client.setLanguage(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/lang "))); err != nil {
				fmt.Println(warn(err.Error()))
			}
			continue
		case strings.HasPrefix(line, "/image "):
			uri, err := readImage(strings.TrimSpace(strings.TrimPrefix(line, "/image ")))
			if err != nil {
				fmt.Println(warn(err.Error()))
				continue
			}
			pendingImage = uri
			fmt.Println(dim("image attached, add a caption or press Enter to send"))
			continue
		}

		req := model.SendMessageRequest{Text: line}
		if pendingImage != "" {
			req = model.SendMessageRequest{Image: pendingImage, Caption: line}
		}

		resp, err := client.send(ctx, req)
		switch {
		case errors.Is(err, errAuthRequired):
			fmt.Println(warn("You've reached the guest limit. Sign in to keep chatting."))
			continue
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			fmt.Println(warn(err.Error()))
			continue
		case resp == nil:
			continue
		}

		pendingImage = ""
		printMessage(resp.AssistantMessage, you, bot)
	}
}

func printMessage(msg model.Message, you, bot func(a ...interface{}) string) {
	if msg.Sender == model.SenderUser {
		fmt.Printf("%s %s\n", you("You:"), msg.Text)
		return
	}
	fmt.Printf("%s %s\n\n", bot("Assistant:"), msg.Text)
}

// readImage 读取图片文件并编码为 data URI
func readImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mimeType)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
