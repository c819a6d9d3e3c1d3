package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"advisor-agent/handler"
	"advisor-agent/internal/agent"
	"advisor-agent/internal/integrations/openai"
	"advisor-agent/internal/integrations/paramstore"
	"advisor-agent/internal/mandate"
	"advisor-agent/internal/repository"
	"advisor-agent/internal/research"
	"advisor-agent/internal/router"
	"advisor-agent/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	stateTable := mustEnv("STATE_TABLE")
	companyTable := mustEnv("COMPANY_TABLE")
	paramPrefix := mustEnv("PARAM_PREFIX")
	maxMessageLen := envInt("MAX_MESSAGE_LENGTH", 2000)

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	params, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	dynamoClient := awsdynamodb.NewFromConfig(cfg)

	stateClient, err := repository.New(dynamoClient, stateTable)
	if err != nil {
		slog.Error("failed to create state client", "err", err)
		os.Exit(1)
	}

	openaiClient, err := openai.NewClient(params, paramPrefix)
	if err != nil {
		slog.Error("failed to create OpenAI client", "err", err)
		os.Exit(1)
	}

	mandates, err := mandate.NewParamStore(params, paramPrefix)
	if err != nil {
		slog.Error("failed to create mandate store", "err", err)
		os.Exit(1)
	}

	// ---- Agents ----
	modelParams := []string{
		paramPrefix + "/config/advisor_model",
		paramPrefix + "/config/evaluator_model",
		paramPrefix + "/config/profiler_model",
	}
	models, err := params.GetParameters(ctx, modelParams)
	if err != nil {
		slog.Error("failed to read model configuration", "err", err)
		os.Exit(1)
	}
	advisorModel := models[modelParams[0]]
	evaluatorModel := models[modelParams[1]]
	profilerModel := models[modelParams[2]]

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

	// ---- Research ----
	companies, err := research.NewStore(dynamoClient, companyTable)
	if err != nil {
		slog.Error("failed to create company store", "err", err)
		os.Exit(1)
	}
	// The research digest runs on the advisor's model binding.
	researchManager, err := research.NewManager(companies, openaiClient, advisorModel)
	if err != nil {
		slog.Error("failed to create research manager", "err", err)
		os.Exit(1)
	}

	// ---- Pipeline ----
	turnRouter, err := router.New(evaluator, advisor, profiler, researchManager)
	if err != nil {
		slog.Error("failed to create turn router", "err", err)
		os.Exit(1)
	}
	chatService, err := usecase.NewChatService(turnRouter, stateClient, maxMessageLen)
	if err != nil {
		slog.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(chatService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
