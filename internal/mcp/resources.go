// ABOUTME: MCP resource implementations for the daybook.
// ABOUTME: Provides daybook://metrics/templates and daybook://families.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	templatesURI = "daybook://metrics/templates"
	familiesURI  = "daybook://families"
)

func (s *Server) registerResources() {
	// daybook://metrics/templates - built-in metrics shared by every family
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         templatesURI,
		Name:        "Template Metrics",
		Description: "Built-in metrics available to every family",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	// daybook://families - every family with its students and subjects
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         familiesURI,
		Name:        "Families",
		Description: "Every family with its students and subjects",
		MIMEType:    "application/json",
	}, s.handleFamiliesResource)
}

// Resource handlers

func (s *Server) handleTemplatesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	templates, err := s.svc.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return jsonResource(templatesURI, map[string]any{
		"templates": viewMetrics(templates),
		"count":     len(templates),
	})
}

type familySummary struct {
	familyView
	Students []studentView `json:"students"`
	Subjects []subjectView `json:"subjects"`
}

func (s *Server) handleFamiliesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	families, err := s.svc.ListFamilies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}

	summaries := make([]familySummary, 0, len(families))
	for _, f := range families {
		students, err := s.svc.ListStudents(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list students: %w", err)
		}
		subjects, err := s.svc.ListSubjects(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list subjects: %w", err)
		}

		fs := familySummary{
			familyView: familyView{ID: f.ID, Name: f.Name},
			Students:   make([]studentView, 0, len(students)),
			Subjects:   make([]subjectView, 0, len(subjects)),
		}
		for _, st := range students {
			fs.Students = append(fs.Students, viewStudent(st))
		}
		for _, su := range subjects {
			fs.Subjects = append(fs.Subjects, viewSubject(su))
		}
		summaries = append(summaries, fs)
	}

	return jsonResource(familiesURI, map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"families":     summaries,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
