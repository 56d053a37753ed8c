package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
)

func (s *Server) registerAuditRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getAudit",
		Method:      http.MethodGet,
		Path:        "/api/v1/audit",
		Summary:     "Shelf audit",
		Description: "Lists copies missing an ISBN or physical dimensions. Not available in read-only mode.",
		Tags:        []string{"Audit"},
	}, s.handleAudit)
}

func (s *Server) registerModeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMode",
		Method:      http.MethodGet,
		Path:        "/api/v1/mode",
		Summary:     "Server mode",
		Description: "Reports whether the library accepts changes",
		Tags:        []string{"Instance"},
	}, s.handleMode)
}

// AuditOutput wraps the audit report for Huma.
type AuditOutput struct {
	Body *domain.AuditReport
}

// ModeResponse tells clients whether to offer editing controls.
type ModeResponse struct {
	ReadOnly bool `json:"read_only" doc:"True when the library is served publicly without editing"`
}

// ModeOutput wraps the mode response for Huma.
type ModeOutput struct {
	Body ModeResponse
}

func (s *Server) handleAudit(ctx context.Context, _ *struct{}) (*AuditOutput, error) {
	report, err := s.services.Library.Audit(ctx)
	if err != nil {
		return nil, err
	}
	return &AuditOutput{Body: report}, nil
}

func (s *Server) handleMode(_ context.Context, _ *struct{}) (*ModeOutput, error) {
	return &ModeOutput{Body: ModeResponse{ReadOnly: s.services.Library.ReadOnly()}}, nil
}
