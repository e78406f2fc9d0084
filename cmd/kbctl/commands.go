package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"material-kb/internal/dto"
	"material-kb/internal/service"
	"material-kb/pkg/postgres"

	"github.com/spf13/cobra"
)

var (
	decisionActor   string
	decisionReason  string
	pendingWorkflow string
	searchLimit     int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return postgres.Migrate(cfg.Database.MigrationURL(), appLogger)
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest supplier documents into the approval queue",
	Long: `Ingest extracts items from each file (pdf, docx, txt, csv), matches them
against the knowledge base and queues them for approval. Every file gets its
own workflow id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]*dto.IngestResponse, 0, len(args))
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			resp, err := application.Documents.Ingest(cmd.Context(), service.IngestRequest{
				FileName: filepath.Base(path),
				Content:  content,
			})
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			results = append(results, resp)
		}
		return printJSON(results)
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List items awaiting approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := application.Approvals.ListPending(cmd.Context(), pendingWorkflow)
		if err != nil {
			return err
		}
		resp := make([]dto.PendingApprovalResponse, 0, len(records))
		for _, r := range records {
			resp = append(resp, service.ToPendingApprovalResponse(r))
		}
		return printJSON(resp)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <workflow-id> <item-id>...",
	Short: "Commit pending items to the knowledge base",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := decisionRequest(args)
		if err != nil {
			return err
		}
		result, err := application.Approvals.Approve(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(service.ToApproveResponse(req.WorkflowID, result))
	},
}

var recommitCmd = &cobra.Command{
	Use:   "recommit <workflow-id> <item-id>...",
	Short: "Retry knowledge base commits of approved items",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := decisionRequest(args)
		if err != nil {
			return err
		}
		result, err := application.Approvals.Recommit(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(service.ToApproveResponse(req.WorkflowID, result))
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <workflow-id> <item-id>...",
	Short: "Reject pending items",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := decisionRequest(args)
		if err != nil {
			return err
		}
		result, err := application.Approvals.Reject(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(dto.RejectResponse{
			WorkflowID:    req.WorkflowID,
			RejectedCount: result.Rejected,
			Affected:      result.Affected,
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search approved materials",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		entries, err := application.Approvals.SearchKnowledge(cmd.Context(), query, searchLimit)
		if err != nil {
			return err
		}
		resp := make([]*dto.KnowledgeEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, service.ToKnowledgeEntryResponse(e))
		}
		return printJSON(resp)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base and approval queue counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := application.Approvals.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(service.ToStatsResponse(stats))
	},
}

func init() {
	pendingCmd.Flags().StringVarP(&pendingWorkflow, "workflow", "w", "", "only list items of this workflow")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "maximum number of results")
	for _, cmd := range []*cobra.Command{approveCmd, recommitCmd, rejectCmd} {
		cmd.Flags().StringVar(&decisionActor, "actor", service.SystemActor, "reviewer recorded on the decision")
		cmd.Flags().StringVar(&decisionReason, "reason", "", "reason recorded on the decision")
	}
}

func decisionRequest(args []string) (service.ApprovalRequest, error) {
	ids, err := parseItemIDs(args[1:])
	if err != nil {
		return service.ApprovalRequest{}, err
	}
	return service.ApprovalRequest{
		WorkflowID: args[0],
		ItemIDs:    ids,
		Actor:      decisionActor,
		Reason:     decisionReason,
	}, nil
}

func parseItemIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
