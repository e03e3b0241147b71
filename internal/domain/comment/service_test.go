package comment_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/transreview/internal/domain/comment"
	"github.com/rpggio/transreview/internal/fsstore"
	"github.com/rpggio/transreview/internal/repository"
	"github.com/rpggio/transreview/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*comment.Service, string) {
	t.Helper()
	root := t.TempDir()
	store, err := fsstore.New(root)
	require.NoError(t, err)
	return comment.NewService(store, nil), root
}

func TestSidecarPath(t *testing.T) {
	cases := map[string]string{
		"proj/z.csv":          "proj/comments/z.json",
		"proj/original/z.csv": "proj/comments/z.json",
		"/proj/z.csv/":        "proj/comments/z.json",
		"proj/x_edited_20240101_000000.csv": "proj/comments/x_edited_20240101_000000.json",
	}
	for in, want := range cases {
		got, err := comment.SidecarPath(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "proj", "/proj/", "proj/.csv"} {
		_, err := comment.SidecarPath(bad)
		require.ErrorIs(t, err, comment.ErrInvalidPath, bad)
	}
}

func TestCommentService_GetMissingReturnsEmptyObject(t *testing.T) {
	svc, _ := newTestService(t)

	data, err := svc.Get(context.Background(), "proj/none.csv")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))
}

func TestCommentService_RoundTrip(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"row_3":{"text":"訳が不自然","resolved":false},"a":[1,2,null]}`)
	saved, err := svc.Save(ctx, "proj/z.csv", payload)
	require.NoError(t, err)
	require.Equal(t, "proj/comments/z.json", saved.Path)

	onDisk, err := os.ReadFile(filepath.Join(root, "proj", "comments", "z.json"))
	require.NoError(t, err)
	require.Contains(t, string(onDisk), "訳が不自然")
	require.Contains(t, string(onDisk), "\n  \"row_3\": {")

	fetched, err := svc.Get(ctx, "proj/z.csv")
	require.NoError(t, err)
	require.Equal(t, string(onDisk), string(fetched))
	require.JSONEq(t, string(payload), string(fetched))

	again, err := svc.Get(ctx, "proj/z.csv")
	require.NoError(t, err)
	require.Equal(t, fetched, again)
}

func TestCommentService_SaveKeepsKeyOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "proj/z.csv", json.RawMessage(`{"b":1,"a":2}`))
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, "proj/z.csv")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}", string(fetched))
}

func TestCommentService_SaveWritesLiteralUnicode(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()

	payload := `{"r1":"caf\u00e9 \ud83d\ude00","tab":"a\u0009b","quote":"\u0022","lone":"\ud800","\u00fc":"ok"}`
	_, err := svc.Save(ctx, "proj/z.csv", json.RawMessage(payload))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "proj", "comments", "z.json"))
	require.NoError(t, err)
	require.Equal(t, "{\n"+
		"  \"r1\": \"café 😀\",\n"+
		"  \"tab\": \"a\\u0009b\",\n"+
		"  \"quote\": \"\\u0022\",\n"+
		"  \"lone\": \"\\ud800\",\n"+
		"  \"ü\": \"ok\"\n"+
		"}", string(data))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "café 😀", decoded["r1"])
	require.Equal(t, "a\tb", decoded["tab"])
	require.Equal(t, `"`, decoded["quote"])
}

func TestCommentService_SaveOverwrites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "proj/z.csv", json.RawMessage(`{"first":true}`))
	require.NoError(t, err)
	_, err = svc.Save(ctx, "proj/original/z.csv", json.RawMessage(`{"second":true}`))
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, "proj/z.csv")
	require.NoError(t, err)
	require.JSONEq(t, `{"second":true}`, string(fetched))
}

func TestCommentService_SaveValidation(t *testing.T) {
	store := &mocks.Store{}
	svc := comment.NewService(store, nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, "", json.RawMessage(`{}`))
	require.ErrorIs(t, err, comment.ErrInvalidRequest)

	_, err = svc.Save(ctx, "proj/z.csv", nil)
	require.ErrorIs(t, err, comment.ErrInvalidRequest)

	_, err = svc.Save(ctx, "proj/z.csv", json.RawMessage(`null`))
	require.ErrorIs(t, err, comment.ErrInvalidRequest)

	_, err = svc.Save(ctx, "proj", json.RawMessage(`{}`))
	require.ErrorIs(t, err, comment.ErrInvalidPath)

	store.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentService_SaveIOError(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Store{}
	store.On("WriteFile", ctx, "proj/comments/z.json", mock.Anything).Return(errors.New("read-only file system"))

	svc := comment.NewService(store, nil)
	_, err := svc.Save(ctx, "proj/z.csv", json.RawMessage(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read-only file system")
}

func TestCommentService_GetIOError(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Store{}
	store.On("ReadFile", ctx, "proj/comments/z.json").Return(nil, errors.New("permission denied"))

	svc := comment.NewService(store, nil)
	_, err := svc.Get(ctx, "proj/z.csv")
	require.Error(t, err)
	require.NotErrorIs(t, err, repository.ErrNotFound)
}
