package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `transreview serves translation-review CSV files kept in per-project folders.

Layout under the data root:
- <project>/<file>.csv: working copies and edited versions.
- <project>/original/<file>.csv: the LLM-translated originals. Never modified.
- <project>/comments/<file stem>.json: review comments for a file.

Default workflow:
1) list_projects, then list_files(project).
2) read_csv(path) returns the file and its original, for diffing.
3) save_csv(source_path, content) always writes a NEW file <base>_edited_<YYYYMMDD>_<HHMMSS>.csv. Saving an original promotes it out of original/.
4) get_comments / save_comments(path, comments). save_comments replaces the whole document.
5) list_versions(path) and recent_activity to see what changed.

Docs:
- transreview://docs/naming
- transreview://docs/comments
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "transreview://docs/naming",
		Name:        "docs_naming",
		Title:       "File naming and versions",
		Description: "How edited versions are named and paired with their LLM originals.",
		Content: `# File naming and versions

## Edited versions

An edited version is named ` + "`<base>_edited_<YYYYMMDD>_<HHMMSS>.csv`" + `, using local time.
Its origin base name is ` + "`<base>.csv`" + `.

Editing an edited version keeps ` + "`<base>`" + ` and only replaces the timestamp, so
names never nest (` + "`x_edited_..._edited_...`" + ` does not occur).

If a version with the same second already exists, the next free second is used.
Existing files are never overwritten.

## Where saves land

| Source path | New file |
|---|---|
| ` + "`proj/x.csv`" + ` | ` + "`proj/x_edited_<ts>.csv`" + ` |
| ` + "`proj/x_edited_<old>.csv`" + ` | ` + "`proj/x_edited_<ts>.csv`" + ` |
| ` + "`proj/original/x.csv`" + ` | ` + "`proj/x_edited_<ts>.csv`" + ` |

## Pairing with originals

` + "`read_csv`" + ` on ` + "`proj/x_edited_<ts>.csv`" + ` or ` + "`proj/x.csv`" + ` also returns
` + "`proj/original/x.csv`" + ` as ` + "`original_content`" + ` when it exists, else null.

` + "`read_csv`" + ` on ` + "`proj/original/x.csv`" + ` returns it as ` + "`original_content`" + ` with
` + "`csv_content`" + ` null.

## Listings

` + "`list_files`" + ` merges ` + "`proj/`" + ` and ` + "`proj/original/`" + `. A name present in both is
listed once, from the main folder. Files only in ` + "`original/`" + ` carry
` + "`is_original: true`" + ` and a display name ending in " (LLM original)".
`,
	},
	{
		URI:         "transreview://docs/comments",
		Name:        "docs_comments",
		Title:       "Review comments",
		Description: "Where comments are stored and how saves behave.",
		Content: `# Review comments

Comments for ` + "`proj/x.csv`" + ` (or ` + "`proj/original/x.csv`" + `) live in
` + "`proj/comments/x.json`" + `. The ` + "`original`" + ` segment is ignored, so an original
and its main copy share one comment document.

The document is opaque JSON: the server never interprets it.

- ` + "`get_comments`" + ` returns the stored document, or ` + "`{}`" + ` when there is none.
- ` + "`save_comments`" + ` replaces the document. It is not merged. Pass the full
  document as JSON text; it is stored indented with two spaces and keys in
  the order given.

Comments are keyed by stem, so every edited version of a file has its own
document (` + "`x_edited_<ts>.json`" + `).
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
