package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apistorage "github.com/periflow/cli/pkg/api/types/storage"
	apitransfer "github.com/periflow/cli/pkg/api/types/transfer"
	"github.com/periflow/cli/pkg/utils"
	"github.com/periflow/cli/pkg/utils/cmp"
)

func TestScanUploadSource(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dataset", "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"dataset/a.txt", "dataset/sub/b.txt"} {
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(f)), []byte(f), 0644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("directory keeps its name as prefix", func(t *testing.T) {
		found, err := scanUploadSource(filepath.Join(root, "dataset"), false)
		if err != nil {
			t.Fatal(err)
		}
		remotes := utils.Map(found, func(f localFile) string { return f.remote })
		if !cmp.SliceContentEq(remotes, []string{"dataset/a.txt", "dataset/sub/b.txt"}) {
			t.Errorf("remote paths: got %v", remotes)
		}
	})

	t.Run("directory with expand drops the prefix", func(t *testing.T) {
		found, err := scanUploadSource(filepath.Join(root, "dataset"), true)
		if err != nil {
			t.Fatal(err)
		}
		remotes := utils.Map(found, func(f localFile) string { return f.remote })
		if !cmp.SliceContentEq(remotes, []string{"a.txt", "sub/b.txt"}) {
			t.Errorf("remote paths: got %v", remotes)
		}
	})

	t.Run("single file", func(t *testing.T) {
		found, err := scanUploadSource(filepath.Join(root, "dataset", "a.txt"), false)
		if err != nil {
			t.Fatal(err)
		}
		if len(found) != 1 || found[0].remote != "a.txt" {
			t.Errorf("found: got %v", found)
		}
	})

	t.Run("expand on a single file is an error", func(t *testing.T) {
		if _, err := scanUploadSource(filepath.Join(root, "dataset", "a.txt"), true); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("empty directory is an error", func(t *testing.T) {
		if _, err := scanUploadSource(t.TempDir(), true); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestUploadDatasetFiles_sendsFilesToPresignedURLs(t *testing.T) {
	source := t.TempDir()
	contents := map[string][]byte{
		"a.txt":     []byte("alpha"),
		"sub/b.txt": []byte("bravo"),
	}
	if err := os.MkdirAll(filepath.Join(source, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	for name, body := range contents {
		if err := os.WriteFile(filepath.Join(source, filepath.FromSlash(name)), body, 0644); err != nil {
			t.Fatal(err)
		}
	}

	var mu sync.Mutex
	received := map[string][]byte{}

	var serverURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/datastore/7/upload/":
			req := struct {
				Paths []string `json:"paths"`
			}{}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatal(err)
			}
			urls := utils.Map(req.Paths, func(p string) apitransfer.UploadURL {
				return apitransfer.UploadURL{Path: p, UploadURL: serverURL + "/put/" + p}
			})
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(urls)
		case r.Method == http.MethodPut:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatal(err)
			}
			if auth := r.Header.Get("Authorization"); auth != "" {
				t.Errorf("presigned PUT should not carry a token, but got %s", auth)
			}
			mu.Lock()
			received[r.URL.Path] = body
			mu.Unlock()
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	serverURL = server.URL

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	prog := testee.UploadDatasetFiles(context.Background(), 7, source, true)
	<-prog.Done()
	if err := prog.Error(); err != nil {
		t.Fatal(err)
	}

	for name, body := range contents {
		got, ok := received["/put/"+name]
		if !ok {
			t.Errorf("file %s is not uploaded", name)
			continue
		}
		if !cmp.SliceEq(got, body) {
			t.Errorf("file %s: got %q, want %q", name, got, body)
		}
	}

	uploaded, ok := prog.Result()
	if !ok {
		t.Fatal("result should be available after Done")
	}
	paths := utils.Map(uploaded, func(f apistorage.FileInfo) string { return f.Path })
	if !cmp.SliceContentEq(paths, []string{"a.txt", "sub/b.txt"}) {
		t.Errorf("uploaded paths: got %v", paths)
	}

	total := int64(0)
	for _, body := range contents {
		total += int64(len(body))
	}
	if prog.ProgressedSize() != total {
		t.Errorf("progressed size: got %d, want %d", prog.ProgressedSize(), total)
	}
}
