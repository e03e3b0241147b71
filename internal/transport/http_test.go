package transport_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/transreview/internal/testserver"
)

const stamp = "20240315_093005"

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestHTTPServer_Health(t *testing.T) {
	ts := testserver.New(t)

	resp, body := get(t, ts.URL("/health"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestHTTPServer_RequestIDEchoed(t *testing.T) {
	ts := testserver.New(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL("/health"), nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "req-123", resp.Header.Get("X-Request-Id"))
}

func TestHTTPServer_Folders(t *testing.T) {
	ts := testserver.New(t)

	_, body := get(t, ts.URL("/api/folders"))
	require.JSONEq(t, `{"folders":[]}`, string(body))

	ts.WriteFile(t, "beta/a.csv", "a")
	ts.WriteFile(t, "alpha/b.csv", "b")
	ts.WriteFile(t, ".hidden/c.csv", "c")

	resp, body := get(t, ts.URL("/api/folders"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	require.JSONEq(t, `{"folders":["alpha","beta"]}`, string(body))
}

func TestHTTPServer_ListFilesMergesOriginals(t *testing.T) {
	ts := testserver.New(t)
	ts.WriteFile(t, "proj/a.csv", "main")
	ts.WriteFile(t, "proj/original/a.csv", "orig")
	ts.WriteFile(t, "proj/original/b.csv", "orig")
	ts.WriteFile(t, "proj/notes.txt", "skip")
	ts.WriteFile(t, "proj/.draft.csv", "hidden")
	ts.WriteFile(t, "proj/original/.c.csv", "hidden")

	resp, body := get(t, ts.URL("/api/csv-files/proj"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"files":[
		{"name":"a.csv","display_name":"a.csv","is_original":false},
		{"name":"b.csv","display_name":"b.csv (LLM original)","is_original":true}
	]}`, string(body))
}

func TestHTTPServer_ListFilesMissingProject(t *testing.T) {
	ts := testserver.New(t)

	resp, body := get(t, ts.URL("/api/csv-files/nope"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"files":[]}`, string(body))
}

func TestHTTPServer_ContentPairsOriginal(t *testing.T) {
	ts := testserver.New(t)
	ts.WriteFile(t, "proj/x_edited_20240101_000000.csv", "edited,ü")
	ts.WriteFile(t, "proj/original/x.csv", "original")
	ts.WriteFile(t, "proj/lonely.csv", "alone")

	_, body := get(t, ts.URL("/api/csv-content/proj/x_edited_20240101_000000.csv"))
	require.JSONEq(t, `{"csv_content":"edited,ü","original_content":"original"}`, string(body))
	require.Contains(t, string(body), "ü")

	_, body = get(t, ts.URL("/api/csv-content/proj/original/x.csv"))
	require.JSONEq(t, `{"csv_content":null,"original_content":"original"}`, string(body))

	_, body = get(t, ts.URL("/api/csv-content/proj/lonely.csv"))
	require.JSONEq(t, `{"csv_content":"alone","original_content":null}`, string(body))
}

func TestHTTPServer_ContentNotFound(t *testing.T) {
	ts := testserver.New(t)
	ts.WriteFile(t, "proj/readme.txt", "text")

	for _, path := range []string{"proj/missing.csv", "proj/readme.txt"} {
		resp, body := get(t, ts.URL("/api/csv-content/"+path))
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		require.JSONEq(t, `{"error":"File not found"}`, string(body))
	}
}

func TestHTTPServer_ContentRejectsTraversal(t *testing.T) {
	ts := testserver.New(t)

	resp, body := get(t, ts.URL("/api/csv-content/proj/..%2F..%2Fsecret.csv"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"error":"Invalid path"}`, string(body))
}

func TestHTTPServer_SaveCSVVersions(t *testing.T) {
	ts := testserver.New(t)
	ts.WriteFile(t, "proj/x.csv", "v0")

	resp, body := post(t, ts.URL("/api/save-csv"), `{"originalPath":"proj/x.csv","csvContent":"v1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"success":true,"filename":"x_edited_`+stamp+`.csv","path":"proj/x_edited_`+stamp+`.csv"}`, string(body))
	require.Equal(t, "v1", ts.ReadFile(t, "proj/x_edited_"+stamp+".csv"))

	// Re-editing keeps the base; the taken second moves the timestamp on.
	resp, body = post(t, ts.URL("/api/save-csv"), `{"originalPath":"proj/x_edited_`+stamp+`.csv","csvContent":"v2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, body)
	require.Equal(t, "x_edited_20240315_093006.csv", out["filename"])
	require.Equal(t, "v1", ts.ReadFile(t, "proj/x_edited_"+stamp+".csv"))
	require.Equal(t, "v2", ts.ReadFile(t, "proj/x_edited_20240315_093006.csv"))
}

func TestHTTPServer_SaveCSVPromotesOriginal(t *testing.T) {
	ts := testserver.New(t)
	ts.WriteFile(t, "proj/original/y.csv", "orig")

	resp, body := post(t, ts.URL("/api/save-csv"), `{"originalPath":"proj/original/y.csv","csvContent":"edit"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "proj/y_edited_"+stamp+".csv", decode(t, body)["path"])
	require.True(t, ts.Exists("proj/y_edited_"+stamp+".csv"))
	require.False(t, ts.Exists("proj/original/y_edited_"+stamp+".csv"))
	require.Equal(t, "orig", ts.ReadFile(t, "proj/original/y.csv"))
}

func TestHTTPServer_SaveCSVBadRequest(t *testing.T) {
	ts := testserver.New(t)

	for _, body := range []string{
		`{"originalPath":"proj/x.csv"}`,
		`{"csvContent":"data"}`,
		`{"originalPath":"","csvContent":""}`,
		`{not json`,
		`{"originalPath":"proj/x.csv","csvContent":"a"} trailing`,
	} {
		resp, data := post(t, ts.URL("/api/save-csv"), body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		require.JSONEq(t, `{"error":"Invalid request"}`, string(data))
	}
	require.False(t, ts.Exists("proj"))
}

func TestHTTPServer_CommentsRoundTrip(t *testing.T) {
	ts := testserver.New(t)

	resp, body := get(t, ts.URL("/api/comments/proj/z.csv"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "{}", string(body))

	resp, body = post(t, ts.URL("/api/save-comments"), `{"filePath":"proj/z.csv","commentsData":{"row2":{"text":"fix","by":"ana"},"row1":"ok"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"success":true,"path":"proj/comments/z.json"}`, string(body))

	stored := ts.ReadFile(t, "proj/comments/z.json")
	require.Equal(t, "{\n  \"row2\": {\n    \"text\": \"fix\",\n    \"by\": \"ana\"\n  },\n  \"row1\": \"ok\"\n}", stored)

	_, body = get(t, ts.URL("/api/comments/proj/z.csv"))
	require.Equal(t, stored, string(body))

	// The original segment maps to the same sidecar.
	_, body = get(t, ts.URL("/api/comments/proj/original/z.csv"))
	require.Equal(t, stored, string(body))
}

func TestHTTPServer_CommentsBadRequest(t *testing.T) {
	ts := testserver.New(t)

	resp, body := get(t, ts.URL("/api/comments/z.csv"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"error":"Invalid path"}`, string(body))

	resp, body = post(t, ts.URL("/api/save-comments"), `{"filePath":"z.csv","commentsData":{}}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"error":"Invalid file path"}`, string(body))

	resp, _ = post(t, ts.URL("/api/save-comments"), `{"filePath":"proj/z.csv"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, ts.URL("/api/save-comments"), `{"commentsData":{"a":1}}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, ts.Exists("proj/comments"))
}

func TestHTTPServer_Versions(t *testing.T) {
	ts := testserver.New(t)
	ts.WriteFile(t, "proj/x.csv", "main")
	ts.WriteFile(t, "proj/x_edited_20240101_000000.csv", "e1")
	ts.WriteFile(t, "proj/x_edited_20240201_000000.csv", "e2")
	ts.WriteFile(t, "proj/original/x.csv", "orig")
	ts.WriteFile(t, "proj/other.csv", "other")

	resp, body := get(t, ts.URL("/api/versions/proj/x_edited_20240101_000000.csv"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Versions []struct {
			Name string `json:"name"`
			Path string `json:"path"`
			Kind string `json:"kind"`
		} `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Versions, 4)
	require.Equal(t, "x_edited_20240201_000000.csv", out.Versions[0].Name)
	require.Equal(t, "x_edited_20240101_000000.csv", out.Versions[1].Name)
	require.Equal(t, "main", out.Versions[2].Kind)
	require.Equal(t, "proj/original/x.csv", out.Versions[3].Path)

	resp, _ = get(t, ts.URL("/api/versions/x.csv"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_Activity(t *testing.T) {
	ts := testserver.New(t)
	ts.WriteFile(t, "proj/x_edited_20240101_000000.csv", "e1")
	ts.WriteFile(t, "proj/x_edited_20240201_000000.csv", "e2")
	ts.WriteFile(t, "other/y_edited_20240115_000000.csv", "e3")

	resp, body := get(t, ts.URL("/api/activity?limit=2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Activity []struct {
			Project string `json:"project"`
			File    string `json:"file"`
			Type    string `json:"type"`
		} `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Activity, 2)
	require.Equal(t, "x_edited_20240201_000000.csv", out.Activity[0].File)
	require.Equal(t, "y_edited_20240115_000000.csv", out.Activity[1].File)
	require.Equal(t, "edit", out.Activity[0].Type)

	for _, query := range []string{"limit=zero", "limit=-1", "type=rename"} {
		resp, _ = get(t, ts.URL("/api/activity?"+query))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestHTTPServer_CORS(t *testing.T) {
	ts := testserver.New(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL("/api/save-csv"), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))

	resp, _ = get(t, ts.URL("/api/folders"))
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = post(t, ts.URL("/api/save-csv"), `{}`)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHTTPServer_StaticFallback(t *testing.T) {
	ts := testserver.New(t)

	resp, body := get(t, ts.URL("/index.html"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "<html>review</html>", string(body))

	resp, _ = get(t, ts.URL("/missing.js"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL("/api/unknown"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = post(t, ts.URL("/api/unknown"), `{}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"error":"Not found"}`, string(body))

	resp, _ = post(t, ts.URL("/index.html"), `{}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
