package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/napatw/CareLine-Appointment-Assistant/agent/agents/assistant"
	appointmentx "github.com/napatw/CareLine-Appointment-Assistant/agent/appointment"
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	"github.com/napatw/CareLine-Appointment-Assistant/agent/llm"
	middlewarex "github.com/napatw/CareLine-Appointment-Assistant/agent/middleware"
	reviewx "github.com/napatw/CareLine-Appointment-Assistant/agent/review"
	toolx "github.com/napatw/CareLine-Appointment-Assistant/agent/tool"
	metricsx "github.com/napatw/CareLine-Appointment-Assistant/internal/observability/metrics"
	webx "github.com/napatw/CareLine-Appointment-Assistant/internal/web"
	configx "github.com/napatw/CareLine-Appointment-Assistant/pkg/config"
	_ "github.com/napatw/CareLine-Appointment-Assistant/pkg/logger/autoload"
	notifyx "github.com/napatw/CareLine-Appointment-Assistant/pkg/notify"
	openrouterx "github.com/napatw/CareLine-Appointment-Assistant/pkg/openrouter"
)

type workflowConfig struct {
	MaxLLMCalls int `split_words:"true" default:"5"`
}

type serverConfig struct {
	Addr string `split_words:"true" default:":8080"`
}

func main() {
	root := &cobra.Command{
		Use:           "careline",
		Short:         "Patient appointment-request assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newChatCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func buildNotifier() contractx.Notifier {
	cfg, err := configx.New[notifyx.Config]("NOTIFY")
	if err != nil || strings.TrimSpace(cfg.URL) == "" {
		return notifyx.Noop{}
	}
	client, err := notifyx.NewClient(*cfg)
	if err != nil {
		log.Warn().Err(err).Msg("escalation webhook disabled")
		return notifyx.Noop{}
	}
	return client
}

func buildAssistant(ctx context.Context, reviewer contractx.Reviewer, observer *metricsx.WorkflowMetrics) (*assistant.Assistant, *llm.Config, error) {
	storeCfg := configx.MustNew[appointmentx.Config]("STORE")
	llmCfg := configx.MustNew[llm.Config]("LLM")
	workflowCfg := configx.MustNew[workflowConfig]("WORKFLOW")

	store, err := appointmentx.NewStore(*storeCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create appointment store: %w", err)
	}
	gateway, err := toolx.NewGateway(store)
	if err != nil {
		return nil, nil, err
	}

	var retryOpts []middlewarex.RetryOption
	if observer != nil {
		retryOpts = append(retryOpts, middlewarex.WithCallObserver(observer))
	}
	suite, err := llm.NewSuite(ctx, *llmCfg, retryOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create llm suite: %w", err)
	}

	a, err := assistant.New(
		store,
		gateway,
		suite.Classifier(),
		suite.Drafter(),
		reviewer,
		buildNotifier(),
		assistant.Config{MaxLLMCalls: workflowCfg.MaxLLMCalls},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create assistant: %w", err)
	}
	return a, llmCfg, nil
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive console session with inline human review",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reviewer := reviewx.NewConsoleReviewer(cmd.InOrStdin(), cmd.OutOrStdout())
			a, _, err := buildAssistant(ctx, reviewer, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "CareLine appointment assistant. Type 'exit' to quit.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "\nYou: ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if text == "exit" || text == "quit" {
					return nil
				}

				result, err := a.HandleRequest(ctx, text)
				if err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
					continue
				}

				fmt.Fprintf(out, "\nAssistant: %s\n", result.FinalResponse)
				fmt.Fprintf(out, "[run=%s status=%s route=%s llm_calls=%d]\n",
					result.RunID, result.Status, result.Route, result.LLMCalls)
			}
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "HTTP API with a two-phase review flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverCfg := configx.MustNew[serverConfig]("SERVER")

			reg := prometheus.NewRegistry()
			workflowMetrics := metricsx.NewWorkflowMetrics(reg)

			a, llmCfg, err := buildAssistant(ctx, reviewx.PassthroughReviewer{}, workflowMetrics)
			if err != nil {
				return err
			}

			var ready webx.ReadinessProbe
			if client := openrouterx.NewClient(llmCfg.OpenRouterFor(llm.RoleClassifier)); client != nil {
				ready = func(ctx context.Context) error {
					_, err := client.Models.List(ctx)
					return err
				}
			}

			srv := webx.NewServer(a, workflowMetrics, reg, ready)
			log.Info().Str("addr", serverCfg.Addr).Msg("http server starting")
			return srv.ListenAndServe(ctx, serverCfg.Addr)
		},
	}
}
