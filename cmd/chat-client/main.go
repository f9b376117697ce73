// Command chat-client is a terminal chat participant, mainly for poking at
// a running server: it opens one chat channel, replays the room history and
// sends stdin lines as text messages.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"homewire/internal/config"
	"homewire/internal/model"
	"homewire/internal/realtime"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  .env file not found, using default values: %v", err)
	}
	cfg := config.Load()

	host := flag.String("host", cfg.ServerAddr(), "Server host:port")
	room := flag.String("room", "", "Order id of the chat room (required)")
	sender := flag.String("sender", "", "Sender id (required)")
	asClient := flag.Bool("client", true, "Participate as the client (false for provider)")
	flag.Parse()

	if *room == "" || *sender == "" {
		flag.Usage()
		os.Exit(2)
	}

	role := model.SenderTypeProvider
	if *asClient {
		role = model.SenderTypeClient
	}
	store := realtime.NewStore(role)

	printMessage := func(m model.ChatMessage) {
		who := m.Sender
		if m.SentByMe {
			who = "me"
		}
		if m.MessageType == model.MessageTypeImage {
			fmt.Printf("[%s] %s: <image, %d bytes base64>\n", m.Timestamp, who, len(m.ImageData))
			return
		}
		fmt.Printf("[%s] %s: %s\n", m.Timestamp, who, m.Message)
	}

	mgr := realtime.NewManager(realtime.Config{
		Host:           *host,
		ReconnectDelay: cfg.ReconnectDelay,
	})

	handle := mgr.Open(realtime.Channel{Kind: realtime.ChannelChat, Key: *room}, realtime.Subscriber{
		Ready: func() {
			fmt.Printf("--- connected to room %s ---\n", *room)
		},
		History: func(msgs []model.ChatMessage) {
			store.ReplaceHistory(msgs)
			for _, m := range store.Messages() {
				printMessage(m)
			}
		},
		Message: func(m model.ChatMessage) {
			if store.Append(m) {
				msgs := store.Messages()
				printMessage(msgs[len(msgs)-1])
			}
		},
	})
	defer handle.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		handle.Close()
		os.Exit(0)
	}()

	// The typed line only shows up once the server echoes it back.
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}
		err := handle.Send(model.ChatSend{
			MessageType: model.MessageTypeText,
			Message:     text,
			Sender:      *sender,
			IsClient:    *asClient,
		})
		if err != nil {
			fmt.Println("--- not connected, message dropped; retry after reconnect ---")
		}
	}
}
