// Local REPL for driving the advisory pipeline during development. Mandates
// come from text files, the API key from the environment, and the company
// table from DynamoDB via the default AWS credential chain. Session state
// lives in memory for the life of the process.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"advisor-agent/internal/agent"
	"advisor-agent/internal/integrations/openai"
	"advisor-agent/internal/mandate"
	"advisor-agent/internal/research"
	"advisor-agent/internal/router"
	"advisor-agent/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	ctx := context.Background()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY is not set")
		os.Exit(1)
	}
	companyTable := os.Getenv("COMPANY_TABLE")
	if companyTable == "" {
		slog.Error("COMPANY_TABLE is not set")
		os.Exit(1)
	}
	promptsDir := getEnv("PROMPTS_DIR", "prompts")
	advisorModel := getEnv("ADVISOR_MODEL", "gpt-4o-mini")
	evaluatorModel := getEnv("EVALUATOR_MODEL", "gpt-4o-mini")
	profilerModel := getEnv("PROFILER_MODEL", "gpt-4o-mini")

	openaiClient, err := openai.NewClient(nil, "", openai.WithAPIKey(apiKey))
	if err != nil {
		slog.Error("failed to create OpenAI client", "err", err)
		os.Exit(1)
	}
	mandates, err := mandate.NewFileStore(promptsDir)
	if err != nil {
		slog.Error("failed to create mandate store", "err", err)
		os.Exit(1)
	}

	advisor, err := agent.New(ctx, agent.RoleAdvisor, advisorModel, openaiClient, mandates)
	if err != nil {
		slog.Error("failed to create advisor agent", "err", err)
		os.Exit(1)
	}
	evaluator, err := agent.New(ctx, agent.RoleEvaluator, evaluatorModel, openaiClient, mandates)
	if err != nil {
		slog.Error("failed to create evaluator agent", "err", err)
		os.Exit(1)
	}
	profiler, err := agent.New(ctx, agent.RoleProfiler, profilerModel, openaiClient, mandates)
	if err != nil {
		slog.Error("failed to create profiler agent", "err", err)
		os.Exit(1)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}
	companies, err := research.NewStore(awsdynamodb.NewFromConfig(cfg), companyTable)
	if err != nil {
		slog.Error("failed to create company store", "err", err)
		os.Exit(1)
	}
	researchManager, err := research.NewManager(companies, openaiClient, advisorModel)
	if err != nil {
		slog.Error("failed to create research manager", "err", err)
		os.Exit(1)
	}

	turnRouter, err := router.New(evaluator, advisor, profiler, researchManager)
	if err != nil {
		slog.Error("failed to create turn router", "err", err)
		os.Exit(1)
	}

	sess := session.New("local")
	fmt.Println("advisor-agent REPL. Empty line or Ctrl-D exits.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		reply, err := turnRouter.Turn(ctx, sess, line)
		if err != nil {
			slog.Error("turn failed", "err", err)
			continue
		}
		fmt.Println(reply)
	}
	if err := scanner.Err(); err != nil {
		slog.Error("read input", "err", err)
		os.Exit(1)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
