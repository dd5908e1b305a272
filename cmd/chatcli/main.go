// Command chatcli is an interactive local test harness for the chat turn
// pipeline. It drives the same services the HTTP server does, against the
// configured database and model provider, without the auth layer: the
// identity comes from TEST_USER_EMAIL instead of a verified token.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"chathistory/internal/capabilities"
	"chathistory/internal/config"
	"chathistory/internal/domain/services"
	"chathistory/internal/repository/postgres"
	"chathistory/internal/service"
	serviceLLM "chathistory/internal/service/llm"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type cli struct {
	ctx       context.Context
	turns     services.TurnService
	convs     services.ConversationService
	identity  services.IdentityService
	principal services.Principal
	// id of the conversation the session is currently talking in; empty
	// means the next turn starts a fresh one
	conversationID string
	scanner        *bufio.Scanner
	logger         *slog.Logger
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// Console output is the UI here; keep the structured log out of the way
	// unless debugging is on.
	var logSink io.Writer = io.Discard
	if cfg.Debug {
		logSink = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	email := os.Getenv("TEST_USER_EMAIL")
	if email == "" {
		fmt.Printf("%serror: TEST_USER_EMAIL must be set%s\n", colorRed, colorReset)
		os.Exit(1)
	}
	name := os.Getenv("TEST_USER_NAME")

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		fmt.Printf("%sfailed to connect to database: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	convRepo := postgres.NewConversationRepository(repoConfig)
	msgRepo := postgres.NewMessageRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	providerRegistry, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		fmt.Printf("%sfailed to set up providers: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	caps, err := capabilities.NewRegistry()
	if err != nil {
		fmt.Printf("%sfailed to load capabilities: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	identity := service.NewIdentityService(userRepo, logger)
	conversations := service.NewConversationService(convRepo, msgRepo, txManager, logger)
	turns := service.NewTurnService(identity, conversations, msgRepo, providerRegistry, caps, cfg, logger)

	c := &cli{
		ctx:       ctx,
		turns:     turns,
		convs:     conversations,
		identity:  identity,
		principal: services.Principal{Email: email, Name: name},
		scanner:   bufio.NewScanner(os.Stdin),
		logger:    logger,
	}
	c.run(cfg)
}

func (c *cli) run(cfg *config.Config) {
	fmt.Printf("\n%schathistory test cli%s\n", colorCyan, colorReset)
	fmt.Printf("%suser: %s | provider: %s | model: %s%s\n",
		colorBlue, c.principal.Email, cfg.DefaultProvider, cfg.DefaultModel, colorReset)

	for {
		fmt.Println("\n" + strings.Repeat("-", 40))
		fmt.Println("1. New conversation")
		fmt.Println("2. List conversations")
		fmt.Println("3. Continue a conversation")
		fmt.Println("4. Exit")
		fmt.Print("\nSelect option (1-4): ")

		switch c.readLine() {
		case "1":
			c.conversationID = ""
			c.chatLoop()
		case "2":
			c.listConversations()
		case "3":
			fmt.Print("Conversation id: ")
			c.conversationID = c.readLine()
			c.chatLoop()
		case "4":
			fmt.Printf("%sbye%s\n", colorGreen, colorReset)
			return
		default:
			fmt.Printf("%sinvalid choice%s\n", colorYellow, colorReset)
		}
	}
}

// chatLoop sends turns on the current conversation until the user types
// /quit. The first completed turn pins the conversation id, so a fresh
// session keeps talking in the conversation it just created.
func (c *cli) chatLoop() {
	fmt.Println("type /quit to return to the menu")
	for {
		fmt.Printf("\n%syou>%s ", colorGreen, colorReset)
		message := c.readLine()
		if message == "" {
			continue
		}
		if message == "/quit" {
			return
		}

		result, err := c.turns.HandleTurn(c.ctx, c.principal, &services.TurnRequest{
			Message:        message,
			ConversationID: c.conversationID,
		})
		if err != nil {
			fmt.Printf("%sturn failed: %v%s\n", colorRed, err, colorReset)
			continue
		}
		c.conversationID = result.ConversationID

		fmt.Printf("%smodel>%s %s\n", colorCyan, colorReset, result.Response)
	}
}

func (c *cli) listConversations() {
	user, err := c.identity.GetUserByEmail(c.ctx, c.principal.Email)
	if err != nil {
		fmt.Printf("%sno conversations yet (user not created until the first turn)%s\n", colorYellow, colorReset)
		return
	}

	convs, err := c.convs.ListConversations(c.ctx, user.ID)
	if err != nil {
		fmt.Printf("%slisting failed: %v%s\n", colorRed, err, colorReset)
		return
	}
	if len(convs) == 0 {
		fmt.Printf("%sno conversations yet%s\n", colorYellow, colorReset)
		return
	}

	for _, conv := range convs {
		fmt.Printf("%s%s%s  %s  (%d messages, updated %s)\n",
			colorBlue, conv.ID, colorReset,
			conv.Title, len(conv.Messages),
			conv.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
}

func (c *cli) readLine() string {
	if !c.scanner.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(c.scanner.Text())
}
