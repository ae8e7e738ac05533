package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	nodex "github.com/napatw/CareLine-Appointment-Assistant/agent/nodes"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

func (a *Assistant) compileHandleRequestGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(nodex.NodeInitializeRun,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*statex.RunState, error) {
			return nodex.InitializeRun(in, a.masker, a.newRunID, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeInitializeRun, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeScreenInput,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (*statex.RunState, error) {
			return nodex.ScreenInput(in, a.masker, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeScreenInput, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeClassifyIntent,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (*statex.RunState, error) {
			return nodex.ClassifyIntent(ctx, in, a.classifier, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeClassifyIntent, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeSafetyCheck,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (*statex.RunState, error) {
			return nodex.SafetyCheck(in, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeSafetyCheck, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeValidateInfo,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (*statex.RunState, error) {
			return nodex.ValidateInfo(ctx, in, a.store, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeValidateInfo, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeExecuteAction,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (*statex.RunState, error) {
			return nodex.ExecuteAction(ctx, in, a.tools, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeExecuteAction, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeGenerateDraft,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (*statex.RunState, error) {
			return nodex.GenerateDraft(ctx, in, a.drafter, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeGenerateDraft, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeHumanReview,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (*statex.RunState, error) {
			return nodex.HumanReview(ctx, in, a.reviewer, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeHumanReview, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeFinalizeOutput,
		compose.InvokableLambda(func(ctx context.Context, in *statex.RunState) (nodex.GraphOutput, error) {
			return nodex.FinalizeOutput(ctx, in, a.notifier, a.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeFinalizeOutput, err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeInitializeRun},
		{nodex.NodeInitializeRun, nodex.NodeScreenInput},
		{nodex.NodeExecuteAction, nodex.NodeGenerateDraft},
		{nodex.NodeGenerateDraft, nodex.NodeHumanReview},
		{nodex.NodeHumanReview, nodex.NodeFinalizeOutput},
		{nodex.NodeFinalizeOutput, compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	// Flagged input skips classification entirely and goes straight to review.
	if err := graph.AddBranch(nodex.NodeScreenInput, compose.NewGraphBranch(
		func(ctx context.Context, st *statex.RunState) (string, error) {
			if st.Status == contractx.StatusEscalate {
				return nodex.NodeHumanReview, nil
			}
			return nodex.NodeClassifyIntent, nil
		},
		map[string]bool{nodex.NodeHumanReview: true, nodex.NodeClassifyIntent: true},
	)); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodeScreenInput, err)
	}

	if err := graph.AddEdge(nodex.NodeClassifyIntent, nodex.NodeSafetyCheck); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", nodex.NodeClassifyIntent, nodex.NodeSafetyCheck, err)
	}

	// Emergencies bypass the action layer.
	if err := graph.AddBranch(nodex.NodeSafetyCheck, compose.NewGraphBranch(
		func(ctx context.Context, st *statex.RunState) (string, error) {
			if st.Status == contractx.StatusEscalate {
				return nodex.NodeHumanReview, nil
			}
			return nodex.NodeValidateInfo, nil
		},
		map[string]bool{nodex.NodeHumanReview: true, nodex.NodeValidateInfo: true},
	)); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodeSafetyCheck, err)
	}

	// Incomplete requests carry a follow-up question already; no action or
	// drafting needed before review.
	if err := graph.AddBranch(nodex.NodeValidateInfo, compose.NewGraphBranch(
		func(ctx context.Context, st *statex.RunState) (string, error) {
			if st.Status == contractx.StatusNeedInfo {
				return nodex.NodeHumanReview, nil
			}
			return nodex.NodeExecuteAction, nil
		},
		map[string]bool{nodex.NodeHumanReview: true, nodex.NodeExecuteAction: true},
	)); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodeValidateInfo, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.handle_request"))
	if err != nil {
		return nil, fmt.Errorf("compile assistant graph: %w", err)
	}
	return runner, nil
}
