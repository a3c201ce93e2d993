package main

import (
	"bufio"
	"bytes"
	"chat-core/domain"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

// Terminal client for poking at a running server: log in, pick a
// conversation, then type lines to send and watch the fan-out arrive.
type clientConfig struct {
	ServerURL string `env:"SERVER_URL,default=http://localhost:8080"`
	Email     string `env:"CLIENT_EMAIL,required=true"`
	Password  string `env:"CLIENT_PASSWORD,required=true"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func main() {
	if err := run(); err != nil {
		color.Red.Printf("Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var config clientConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	auth, err := login(config)
	if err != nil {
		return err
	}
	color.Green.Printf("Logged in as %s\n", auth.UserID)

	conversations, err := fetchConversations(config, auth.Token)
	if err != nil {
		return err
	}
	printConversations(conversations)

	fmt.Print("conversation id (empty to only watch): ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	activeConversation := strings.TrimSpace(line)

	conn, err := dial(config, auth.Token)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	go readLoop(conn)

	if activeConversation == "" {
		color.Yellow.Println("Watch mode, press Ctrl+C to quit")
		select {}
	}

	color.Yellow.Printf("Sending to %s, press Ctrl+C to quit\n", activeConversation)
	for {
		text, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		err = conn.WriteJSON(outboundFrame{
			Type: domain.CommandSendMessage,
			Payload: domain.SendMessageCommand{
				ConversationID: domain.ConversationID(activeConversation),
				Content:        text,
				ClientID:       uuid.NewString(),
			},
		})
		if err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
	}
}

func login(config clientConfig) (authResponse, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    config.Email,
		"password": config.Password,
	})
	resp, err := http.Post(config.ServerURL+"/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return authResponse{}, fmt.Errorf("login failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return authResponse{}, fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}
	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return authResponse{}, fmt.Errorf("login decode failed: %w", err)
	}
	return auth, nil
}

func fetchConversations(config clientConfig, token string) ([]domain.ConversationView, error) {
	req, _ := http.NewRequest(http.MethodGet, config.ServerURL+"/v1/conversations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing conversations failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing conversations rejected with status %d", resp.StatusCode)
	}
	var views []domain.ConversationView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		return nil, fmt.Errorf("conversations decode failed: %w", err)
	}
	return views, nil
}

func printConversations(views []domain.ConversationView) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Participants", "Last message", "Updated"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, view := range views {
		lastMessage := ""
		if view.LastMessage != nil {
			lastMessage = view.LastMessage.Content
		}
		table.Append([]string{
			string(view.ID),
			view.Title,
			fmt.Sprintf("%d", len(view.Participants)),
			lastMessage,
			view.UpdatedAt.Format(time.RFC3339),
		})
	}
	table.Render()
}

func dial(config clientConfig, token string) (*websocket.Conn, error) {
	wsURL, err := url.Parse(config.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("bad server url: %w", err)
	}
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = "/ws"
	wsURL.RawQuery = url.Values{"token": {token}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

func readLoop(conn *websocket.Conn) {
	for {
		var f inboundFrame
		if err := conn.ReadJSON(&f); err != nil {
			color.Red.Println("connection closed")
			os.Exit(0)
		}
		switch f.Type {
		case "ready":
			color.Cyan.Println("<< ready")
		case "message":
			var view domain.MessageView
			if err := json.Unmarshal(f.Payload, &view); err != nil {
				continue
			}
			color.Cyan.Printf("<< [%s] %s: %s\n", view.ConversationID, view.Sender.Username, view.Content)
		case "conversation_created":
			var view domain.ConversationView
			if err := json.Unmarshal(f.Payload, &view); err != nil {
				continue
			}
			color.Magenta.Printf("<< new conversation %s (%s)\n", view.ID, view.Title)
		case "error":
			if f.Error != nil {
				color.Red.Printf("<< error %d: %s\n", f.Error.Code, f.Error.Message)
			}
		}
	}
}
