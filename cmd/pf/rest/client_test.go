package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	kprof "github.com/periflow/cli/cmd/pf/config/profiles"
	"github.com/periflow/cli/cmd/pf/config/session"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	apicred "github.com/periflow/cli/pkg/api/types/credentials"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	apiprj "github.com/periflow/cli/pkg/api/types/projects"
	"github.com/periflow/cli/pkg/utils/cmp"
	"github.com/periflow/cli/pkg/utils/try"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	// jti keeps tokens minted in the same second distinguishable
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(expiresIn).Unix(),
		"jti": uuid.NewString(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func newTestSession(t *testing.T, expiresIn time.Duration) *session.Store {
	t.Helper()
	sess := try.To(session.Open(t.TempDir())).OrFatal(t)
	if err := sess.SetTokens(signedToken(t, expiresIn), "refresh-token"); err != nil {
		t.Fatal(err)
	}
	return sess
}

func newTestClient(t *testing.T, server *httptest.Server, sess *session.Store) Client {
	t.Helper()
	prof := &kprof.Profile{
		ApiRoot:  server.URL,
		AuthRoot: server.URL,
		WsRoot:   "ws://" + server.Listener.Addr().String(),
	}
	return try.To(NewClient(prof, sess)).OrFatal(t)
}

func TestJoinpath(t *testing.T) {
	for name, testcase := range map[string]struct {
		root string
		path []string
		want string
	}{
		"single element": {
			root: "https://api.test.invalid",
			path: []string{"token"},
			want: "https://api.test.invalid/token/",
		},
		"nested elements": {
			root: "https://api.test.invalid",
			path: []string{"project", "xxxx", "job"},
			want: "https://api.test.invalid/project/xxxx/job/",
		},
		"elements with extra slashes": {
			root: "https://api.test.invalid",
			path: []string{"/token/", "refresh/"},
			want: "https://api.test.invalid/token/refresh/",
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := joinpath(testcase.root, testcase.path)
			if actual != testcase.want {
				t.Errorf("joinpath: got %s, want %s", actual, testcase.want)
			}
		})
	}
}

func TestLogin_storesGrantedTokens(t *testing.T) {
	access := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "open sesame" {
			t.Errorf("unexpected credentials: %v", r.PostForm)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login should not carry a token, but got %s", auth)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  access,
			"refresh_token": "granted-refresh",
		})
	}))
	defer server.Close()

	access = signedToken(t, time.Hour)
	sess := try.To(session.Open(t.TempDir())).OrFatal(t)
	testee := newTestClient(t, server, sess)

	tokens := try.To(testee.Login(context.Background(), "alice", "open sesame")).OrFatal(t)

	if tokens.AccessToken != access {
		t.Errorf("access token: got %s, want %s", tokens.AccessToken, access)
	}
	stored := try.To(sess.AccessToken()).OrFatal(t)
	if stored != access {
		t.Errorf("stored access token: got %s, want %s", stored, access)
	}
	refresh := try.To(sess.RefreshToken()).OrFatal(t)
	if refresh != "granted-refresh" {
		t.Errorf("stored refresh token: got %s", refresh)
	}
}

func TestDo_refreshesTokenAndRetriesOn401(t *testing.T) {
	newAccess := ""
	calls := []string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/oauth2/userinfo/":
			if r.Header.Get("Authorization") != "Bearer "+newAccess {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "token expired"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"sub":                "auth0|" + uuid.NewString(),
				"preferred_username": "alice",
				"name":               "Alice",
				"email":              "alice@test.invalid",
			})
		case "/token/refresh/":
			if err := r.ParseForm(); err != nil {
				t.Fatal(err)
			}
			if r.PostForm.Get("refresh_token") != "refresh-token" {
				t.Errorf("unexpected refresh token: %s", r.PostForm.Get("refresh_token"))
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"access_token":  newAccess,
				"refresh_token": "rotated-refresh",
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	newAccess = signedToken(t, time.Hour)
	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	user := try.To(testee.CurrentUser(context.Background())).OrFatal(t)
	if user.Username != "alice" {
		t.Errorf("username: got %s", user.Username)
	}

	want := []string{"/oauth2/userinfo/", "/token/refresh/", "/oauth2/userinfo/"}
	if !cmp.SliceEq(calls, want) {
		t.Errorf("request sequence: got %v, want %v", calls, want)
	}

	stored := try.To(sess.RefreshToken()).OrFatal(t)
	if stored != "rotated-refresh" {
		t.Errorf("refresh token should be rotated, but got %s", stored)
	}
}

func TestDo_refreshesProactivelyWhenTokenExpired(t *testing.T) {
	newAccess := ""
	refreshed := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token/refresh/":
			refreshed = true
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"access_token":  newAccess,
				"refresh_token": "rotated-refresh",
			})
		case "/oauth2/userinfo/":
			if r.Header.Get("Authorization") != "Bearer "+newAccess {
				t.Errorf("request should carry the refreshed token")
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"sub": "auth0|" + uuid.NewString(),
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	newAccess = signedToken(t, time.Hour)
	sess := newTestSession(t, -time.Hour) // already expired
	testee := newTestClient(t, server, sess)

	try.To(testee.CurrentUser(context.Background())).OrFatal(t)

	if !refreshed {
		t.Error("expired token should be refreshed before the request")
	}
}

func TestListProjects_walksCursorPages(t *testing.T) {
	orgId := uuid.New()
	page2 := "cursor-2"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pf_group/"+orgId.String()+"/pf_project/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			json.NewEncoder(w).Encode(apiprj.Page{
				Results: []apiprj.Project{
					{ID: uuid.New(), Name: "first"},
					{ID: uuid.New(), Name: "second"},
				},
				NextCursor: &page2,
			})
		case page2:
			json.NewEncoder(w).Encode(apiprj.Page{
				Results: []apiprj.Project{{ID: uuid.New(), Name: "third"}},
			})
		default:
			t.Errorf("unexpected cursor: %s", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	projects := try.To(testee.ListProjects(context.Background(), orgId)).OrFatal(t)

	names := []string{}
	for _, p := range projects {
		names = append(names, p.Name)
	}
	if !cmp.SliceEq(names, []string{"first", "second", "third"}) {
		t.Errorf("projects: got %v", names)
	}
}

func TestErrorResponse_surfacesServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "project name is taken"}`))
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	_, err := testee.CreateProject(context.Background(), uuid.New(), "taken")
	if err == nil {
		t.Fatal("conflict should be an error")
	}
}

func TestGetTextLogs_buildsQueryFromSelector(t *testing.T) {
	projectId := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "100" {
			t.Errorf("limit: got %s", q.Get("limit"))
		}
		if q.Get("ascending") != "true" {
			t.Errorf("ascending: got %s", q.Get("ascending"))
		}
		if q.Get("log_types") != "stdout,stderr" {
			t.Errorf("log_types: got %s", q.Get("log_types"))
		}
		if q.Get("node_ranks") != "0,2" {
			t.Errorf("node_ranks: got %s", q.Get("node_ranks"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"content": "hello", "type": "stdout", "node_rank": 0}]}`))
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	logs := try.To(testee.GetTextLogs(
		context.Background(), projectId, 42,
		LogSelector{
			Limit:     100,
			Ascending: true,
			LogTypes:  []apijobs.LogType{apijobs.LogTypeStdout, apijobs.LogTypeStderr},
			NodeRanks: []int{0, 2},
		},
	)).OrFatal(t)

	if len(logs) != 1 || logs[0].Content != "hello" {
		t.Errorf("logs: got %v", logs)
	}
}

func TestListCredentials_filtersByServerTypeName(t *testing.T) {
	queries := []string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	prjId := uuid.New()
	if _, err := testee.ListCredentials(context.Background(), prjId, apicred.TypeS3); err != nil {
		t.Fatal(err)
	}
	if _, err := testee.ListCredentials(context.Background(), prjId, ""); err != nil {
		t.Fatal(err)
	}

	// the server knows s3 credentials as "aws"
	expected := []string{"type=aws", ""}
	if !cmp.SliceEq(queries, expected) {
		t.Errorf(
			"unexpected queries:\n===actual===\n%v\n===expected===\n%v",
			queries, expected,
		)
	}

	if _, err := testee.ListCredentials(context.Background(), prjId, apicred.Type("launchcode")); err == nil {
		t.Error("an unknown credential type should be an error")
	}
	if len(queries) != 2 {
		t.Error("an unknown credential type should not reach the server")
	}
}

func TestDownloadFiles_reassemblesChunks(t *testing.T) {
	payload := make([]byte, int(parallelDownloadThreshold)+123)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "blob", time.Now(), bytes.NewReader(payload))
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	dest := t.TempDir()
	prog := testee.DownloadFiles(
		context.Background(),
		[]apickpt.File{{
			Name:        "blob",
			Path:        "ckpt/blob",
			Size:        int64(len(payload)),
			DownloadURL: server.URL + "/blob",
		}},
		dest,
	)
	<-prog.Done()
	if err := prog.Error(); err != nil {
		t.Fatal(err)
	}

	got := try.To(os.ReadFile(filepath.Join(dest, "ckpt", "blob"))).OrFatal(t)
	if !cmp.SliceEq(got, payload) {
		t.Error("downloaded content differs from the original")
	}
}

func TestDownloadFiles_fallsBackWhenRangeIgnored(t *testing.T) {
	payload := make([]byte, int(parallelDownloadThreshold)+17)
	for i := range payload {
		payload[i] = byte(i % 127)
	}

	ranged := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "" {
			ranged = true
		}
		// the whole object, no matter what was asked
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	dest := t.TempDir()
	prog := testee.DownloadFiles(
		context.Background(),
		[]apickpt.File{{
			Name:        "blob",
			Path:        "blob",
			Size:        int64(len(payload)),
			DownloadURL: server.URL + "/blob",
		}},
		dest,
	)
	<-prog.Done()
	if err := prog.Error(); err != nil {
		t.Fatal(err)
	}

	if !ranged {
		t.Error("a large file should be fetched with ranged requests first")
	}
	got := try.To(os.ReadFile(filepath.Join(dest, "blob"))).OrFatal(t)
	if !cmp.SliceEq(got, payload) {
		t.Error("downloaded content differs from the original")
	}
}

func TestDownloadFiles_rejectsShortChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("oops"))
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	dest := t.TempDir()
	prog := testee.DownloadFiles(
		context.Background(),
		[]apickpt.File{{
			Name:        "blob",
			Path:        "blob",
			Size:        parallelDownloadThreshold + 5,
			DownloadURL: server.URL + "/blob",
		}},
		dest,
	)
	<-prog.Done()
	if prog.Error() == nil {
		t.Fatal("an undersized chunk should be an error")
	}
	if _, err := os.Stat(filepath.Join(dest, "blob")); !os.IsNotExist(err) {
		t.Error("a failed download should be removed")
	}
}

func TestDownloadFiles_rejectsTruncatedDownload(t *testing.T) {
	payload := []byte("partial content only")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	dest := t.TempDir()
	prog := testee.DownloadFiles(
		context.Background(),
		[]apickpt.File{{
			Name:        "blob",
			Path:        "blob",
			Size:        int64(len(payload)) + 100,
			DownloadURL: server.URL + "/blob",
		}},
		dest,
	)
	<-prog.Done()
	if prog.Error() == nil {
		t.Fatal("a truncated download should be an error")
	}
	if _, err := os.Stat(filepath.Join(dest, "blob")); !os.IsNotExist(err) {
		t.Error("a failed download should be removed")
	}
}
