// Command fincopilot-ask answers questions about your finances from a
// terminal. Without arguments it runs a chat loop; with arguments it
// answers one question and exits. Use --mock to run on built-in demo data.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"fincopilot/internal/analysis"
	"fincopilot/internal/backend"
	"fincopilot/internal/cache"
	"fincopilot/internal/cli"
	"fincopilot/internal/llm"
	"fincopilot/internal/services"
)

func isExit(q string) bool {
	switch strings.ToLower(strings.TrimSpace(q)) {
	case "exit", "quit", "bye", "q", "no":
		return true
	}
	return false
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	useMock := os.Getenv("USE_MOCK_DATA") == "1"
	var args []string
	for _, a := range os.Args[1:] {
		if a == "--mock" {
			useMock = true
			continue
		}
		if strings.HasPrefix(a, "--") {
			continue
		}
		args = append(args, a)
	}
	if useMock {
		cfg.DataBackend = "memory"
	}

	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if !llmClient.Available() {
		fmt.Fprintln(os.Stderr, "Set OPENAI_API_KEY in .env to use the copilot.")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	// A refresh worker makes no sense for an interactive session.
	backendCfg.AMQPURL = ""

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create data backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			result.Cleanup()
		}
	}()

	reports := cache.NewLRUCache[*analysis.Report](4, time.Hour)
	svc := services.NewCopilotService(result.Store, reports, nil, llmClient)
	ctx := context.Background()
	userID := cfg.DefaultUserID

	if len(args) > 0 {
		answer, err := svc.Ask(ctx, userID, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Println(answer)
		return
	}

	runChat(ctx, svc, userID)
}

func runChat(ctx context.Context, svc *services.CopilotService, userID string) {
	// One analysis pass up front; the chat loop serves from the cache.
	if _, err := svc.Analyze(ctx, userID); err != nil {
		fmt.Fprintln(os.Stderr, "Copilot run failed:", err)
		os.Exit(1)
	}
	fmt.Println("\nFinance Copilot — ask anything. Answers come from your own data.")
	fmt.Println("Type exit or quit when done.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nBye.")
			return
		}
		q := scanner.Text()
		if isExit(q) {
			fmt.Println("Bye.")
			return
		}
		if strings.TrimSpace(q) == "" {
			continue
		}

		answer, err := svc.Ask(ctx, userID, q)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Println("\nCopilot: " + answer)
		fmt.Println()
	}
}
