package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/document"
)

func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List project folders under the data root",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		projects, err := svcs.Projects.ListProjects(ctx)
		if err != nil {
			return toolError(err)
		}
		if projects == nil {
			projects = []string{}
		}
		return jsonResult(ProjectsResponse{Projects: projects})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_files",
		Description: "List the CSV files of a project. Files present only as LLM originals are flagged is_original",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListFilesParams) (*sdkmcp.CallToolResult, any, error) {
		files, err := svcs.Projects.ListFiles(ctx, in.Project)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(toFilesResponse(in.Project, files))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "read_csv",
		Description: "Read a CSV file together with its LLM original, when one exists",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ReadCSVParams) (*sdkmcp.CallToolResult, any, error) {
		content, err := svcs.Documents.Content(ctx, in.Path)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(ContentResponse{
			Path:            in.Path,
			CSVContent:      content.CSV,
			OriginalContent: content.Original,
		})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_csv",
		Description: "Save an edited version of a CSV file. A new timestamped file is always created; nothing is overwritten",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveCSVParams) (*sdkmcp.CallToolResult, any, error) {
		saved, err := svcs.Documents.SaveVersion(ctx, document.SaveRequest{
			SourcePath: in.SourcePath,
			Content:    in.Content,
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(SavedCSVResponse{Filename: saved.Filename, Path: saved.Path})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_comments",
		Description: "Get the review comments stored for a CSV file; {} when there are none",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetCommentsParams) (*sdkmcp.CallToolResult, any, error) {
		raw, err := svcs.Comments.Get(ctx, in.Path)
		if err != nil {
			return toolError(err)
		}
		var comments any
		if err := json.Unmarshal(raw, &comments); err != nil {
			return toolError(fmt.Errorf("stored comments for %s are not valid JSON: %w", in.Path, err))
		}
		return jsonResult(CommentsResponse{Path: in.Path, Comments: comments})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_comments",
		Description: "Replace the review comments of a CSV file",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveCommentsParams) (*sdkmcp.CallToolResult, any, error) {
		saved, err := svcs.Comments.Save(ctx, in.Path, json.RawMessage(in.Comments))
		if err != nil {
			return toolError(err)
		}
		return jsonResult(SavedCommentsResponse{Path: saved.Path})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_versions",
		Description: "List the LLM original, main copy and edited versions sharing a file's base name, newest edit first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListVersionsParams) (*sdkmcp.CallToolResult, any, error) {
		versions, err := svcs.Documents.ListVersions(ctx, in.Path)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(toVersionsResponse(in.Path, versions))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent edits and comment saves across projects, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
		opts := activity.ListActivityOptions{Project: in.Project, Limit: in.Limit}
		if in.Type != "" {
			kind := activity.ActivityType(in.Type)
			opts.ActivityType = &kind
		}
		entries, err := svcs.Activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(toActivityResponse(entries))
	})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func toolError(err error) (*sdkmcp.CallToolResult, any, error) {
	apiErr := MapError(err)
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
