package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	astra "github.com/shimonpozd/astra-web-client-sub000"
	astrajson "github.com/shimonpozd/astra-web-client-sub000/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr, func(k string) string { return env[k] })
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type seen struct {
	path string
	auth string
	body map[string]any
}

func streamServer(t *testing.T, body string) (*httptest.Server, <-chan seen) {
	t.Helper()
	ch := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{path: r.URL.Path, auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&s.body)
		ch <- s
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestChat(t *testing.T) {
	t.Parallel()

	t.Run("renders blocks and saves the document", func(t *testing.T) {
		t.Parallel()
		srv, reqs := streamServer(t, `{"op":"add_block","data":{"id":"h","type":"h1"}}
{"op":"append_text","data":{"id":"h","text":"Title"}}
{"op":"add_block","data":{"id":"p","type":"paragraph"}}
{"op":"append_text","data":{"id":"p","text":"Body"}}
{"op":"end"}
`)
		cfg := writeConfig(t, "base_url: "+srv.URL+"\n")
		out := filepath.Join(t.TempDir(), "docs", "answer.json")

		stdout, _, err := execute(t, map[string]string{"ASTRA_TOKEN": "from-env"},
			"chat", "--config", cfg, "--endpoint", "blocks", "--session", "s1", "--out", out, "What", "is", "Shabbat?")
		require.NoError(t, err)
		assert.Equal(t, "Title\n\nBody\n", stdout)

		got := <-reqs
		assert.Equal(t, "/chat/stream-blocks", got.path)
		assert.Equal(t, "Bearer from-env", got.auth)
		assert.Equal(t, map[string]any{"text": "What is Shabbat?", "session_id": "s1"}, got.body)

		doc, err := astrajson.Load(out)
		require.NoError(t, err)
		assert.Equal(t, []astra.Block{
			{ID: "h", Type: astra.BlockHeading, Level: 1, Text: "Title"},
			{ID: "p", Type: astra.BlockParagraph, Text: "Body"},
		}, doc.Blocks)
	})

	t.Run("prints text and reports remote errors", func(t *testing.T) {
		t.Parallel()
		srv, _ := streamServer(t, `{"type":"llm_chunk","data":"Shalom"}{"type":"error","data":{"message":"quota exceeded"}}`)
		cfg := writeConfig(t, "base_url: "+srv.URL+"\n")

		stdout, stderr, err := execute(t, nil, "chat", "--config", cfg, "hi")
		require.NoError(t, err)
		assert.Equal(t, "Shalom\n", stdout)
		assert.Contains(t, stderr, "astra: remote: quota exceeded")
	})

	t.Run("study without session fails validation", func(t *testing.T) {
		t.Parallel()
		_, _, err := execute(t, nil, "chat", "--config", writeConfig(t, ""), "--endpoint", "study", "hi")
		assert.ErrorIs(t, err, astra.ErrValidation)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		t.Parallel()
		_, _, err := execute(t, nil, "chat", "--config", writeConfig(t, ""), "--endpoint", "nope", "hi")
		assert.ErrorContains(t, err, `unknown endpoint "nope"`)
	})

	t.Run("server error is returned", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		cfg := writeConfig(t, "base_url: "+srv.URL+"\n")

		_, _, err := execute(t, nil, "chat", "--config", cfg, "hi")
		assert.ErrorIs(t, err, astra.ErrUnauthorized)
	})
}

func TestReplay(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	capture := `{"op":"add_block","data":{"id":"q","type":"quote"}}
not json
{"op":"append_text","data":{"id":"q","text":"Hillel said"}}
{"op":"end"}
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	first := filepath.Join(dir, "a", "one.ndjson")
	second := filepath.Join(dir, "a", "b", "two.ndjson")
	require.NoError(t, os.WriteFile(first, []byte(capture), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(`{"type":"llm_chunk","data":"partial`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "skip.txt"), []byte("x"), 0o600))

	t.Run("decodes every match", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := execute(t, nil, "replay", "--config", filepath.Join(dir, "absent.yaml"),
			"--chunk", "3", filepath.Join(dir, "**", "*.ndjson"))
		require.Error(t, err, "explicit config path must exist")
		assert.Empty(t, stdout)

		stdout, _, err = execute(t, nil, "replay", "--chunk", "3", filepath.Join(dir, "**", "*.ndjson"))
		require.NoError(t, err)
		want := "== " + second + " ==\n" +
			"frames=0 skipped=0 dropped=1 state=complete\n" +
			"== " + first + " ==\n" +
			"│ Hillel said\n" +
			"frames=3 skipped=1 dropped=0 state=complete\n"
		assert.Equal(t, want, stdout)
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := execute(t, nil, "replay", "--json", first)
		require.NoError(t, err)
		assert.Contains(t, stdout, `"type": "quote"`)
		assert.Contains(t, stdout, `"text": "Hillel said"`)
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()
		_, _, err := execute(t, nil, "replay", filepath.Join(dir, "*.none"))
		assert.ErrorContains(t, err, "no captures match")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()
		_, _, err := execute(t, nil, "replay", "[unclosed")
		assert.ErrorContains(t, err, "invalid glob pattern")
	})
}
