package mcp

import (
	"time"

	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/document"
	"github.com/rpggio/transreview/internal/domain/project"
)

type ListProjectsParams struct{}

type ListFilesParams struct {
	Project string `json:"project" jsonschema:"project folder name"`
}

type ReadCSVParams struct {
	Path string `json:"path" jsonschema:"file path relative to the data root, e.g. proj/file.csv or proj/original/file.csv"`
}

type SaveCSVParams struct {
	SourcePath string `json:"source_path" jsonschema:"path of the file the edit was made from"`
	Content    string `json:"content" jsonschema:"full CSV text of the edited version"`
}

type GetCommentsParams struct {
	Path string `json:"path" jsonschema:"CSV path the comments belong to"`
}

type SaveCommentsParams struct {
	Path     string `json:"path" jsonschema:"CSV path the comments belong to"`
	Comments string `json:"comments" jsonschema:"comment document as JSON text; stored as-is with key order kept"`
}

type ListVersionsParams struct {
	Path string `json:"path" jsonschema:"any file in the version family"`
}

type RecentActivityParams struct {
	Project string `json:"project,omitempty" jsonschema:"restrict to one project"`
	Type    string `json:"type,omitempty" jsonschema:"edit or comment"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum entries, default 20, max 200"`
}

type ProjectsResponse struct {
	Projects []string `json:"projects"`
}

type FileResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	IsOriginal  bool   `json:"is_original"`
}

type FilesResponse struct {
	Project string         `json:"project"`
	Files   []FileResponse `json:"files"`
}

type ContentResponse struct {
	Path            string  `json:"path"`
	CSVContent      *string `json:"csv_content"`
	OriginalContent *string `json:"original_content"`
}

type SavedCSVResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

type CommentsResponse struct {
	Path     string `json:"path"`
	Comments any    `json:"comments"`
}

type SavedCommentsResponse struct {
	Path string `json:"path"`
}

type VersionResponse struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Kind      string     `json:"kind"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Modified  time.Time  `json:"modified"`
}

type VersionsResponse struct {
	Path     string            `json:"path"`
	Versions []VersionResponse `json:"versions"`
}

type ActivityResponse struct {
	Project   string    `json:"project"`
	File      string    `json:"file"`
	Path      string    `json:"path"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type RecentActivityResponse struct {
	Activity []ActivityResponse `json:"activity"`
}

func toFilesResponse(projectName string, files []project.File) FilesResponse {
	resp := FilesResponse{Project: projectName, Files: make([]FileResponse, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, FileResponse{
			Name:        f.Name,
			DisplayName: f.DisplayName,
			IsOriginal:  f.IsOriginal,
		})
	}
	return resp
}

func toVersionsResponse(path string, versions []document.Version) VersionsResponse {
	resp := VersionsResponse{Path: path, Versions: make([]VersionResponse, 0, len(versions))}
	for _, v := range versions {
		resp.Versions = append(resp.Versions, VersionResponse{
			Name:      v.Name,
			Path:      v.Path,
			Kind:      string(v.Kind),
			Timestamp: v.Timestamp,
			Modified:  v.Modified,
		})
	}
	return resp
}

func toActivityResponse(entries []activity.ActivityEntry) RecentActivityResponse {
	resp := RecentActivityResponse{Activity: make([]ActivityResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Activity = append(resp.Activity, ActivityResponse{
			Project:   e.Project,
			File:      e.File,
			Path:      e.Path,
			Type:      string(e.ActivityType),
			Timestamp: e.Timestamp,
		})
	}
	return resp
}
