package updater

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tarEntry struct {
	name     string
	body     string
	mode     int64
	typeflag byte
	link     string
}

func buildArchive(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: e.mode, Typeflag: e.typeflag, Linkname: e.link}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
		}
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func writeArchive(t *testing.T, entries []tarEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "executor.tar.gz")
	require.NoError(t, os.WriteFile(path, buildArchive(t, entries), 0644))
	return path
}

func newTestClient(ts *httptest.Server) *Client {
	c := NewClient("t3rn/executor-release", zerolog.Nop())
	c.APIBaseURL = ts.URL
	c.DownloadBaseURL = ts.URL
	c.HTTPClient = ts.Client()
	return c
}

func TestLatestRelease(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/t3rn/executor-release/releases/latest", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"tag_name":"v0.53.1","html_url":"https://github.com/t3rn/executor-release/releases/tag/v0.53.1"}`))
	}))
	defer ts.Close()

	rel, err := newTestClient(ts).LatestRelease(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v0.53.1", rel.TagName)
}

func TestLatestReleaseErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{}`},
		{"rate limited", http.StatusForbidden, `{"message":"API rate limit exceeded"}`},
		{"bad json", http.StatusOK, `{"tag_name":`},
		{"no tag", http.StatusOK, `{"html_url":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newTestClient(ts).LatestRelease(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestArchiveURL(t *testing.T) {
	c := NewClient("t3rn/executor-release", zerolog.Nop())
	assert.Equal(t,
		"https://github.com/t3rn/executor-release/releases/download/v0.53.1/executor-linux-v0.53.1.tar.gz",
		c.ArchiveURL("v0.53.1"))
}

func TestDownloadAndExtract(t *testing.T) {
	archive := buildArchive(t, []tarEntry{
		{name: "executor/", typeflag: tar.TypeDir, mode: 0755},
		{name: "executor/executor/bin/executor", body: "#!/bin/sh\necho run\n", mode: 0755},
		{name: "executor/executor/bin/README", body: "hello", mode: 0644},
		{name: "executor/executor/bin/run", typeflag: tar.TypeSymlink, link: "executor"},
	})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/t3rn/executor-release/releases/download/v1.2.3/executor-linux-v1.2.3.tar.gz", r.URL.Path)
		_, _ = w.Write(archive)
	}))
	defer ts.Close()

	c := newTestClient(ts)
	dir := t.TempDir()
	path, err := c.Download(context.Background(), c.ArchiveURL("v1.2.3"), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "executor-linux-v1.2.3.tar.gz"), path)

	require.NoError(t, Extract(path, dir))

	bin := filepath.Join(dir, "executor", "executor", "bin", "executor")
	info, err := os.Stat(bin)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(dir, "executor", "executor", "bin", "README"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	link, err := os.Readlink(filepath.Join(dir, "executor", "executor", "bin", "run"))
	require.NoError(t, err)
	assert.Equal(t, "executor", link)
}

func TestDownloadHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dir := t.TempDir()
	_, err := newTestClient(ts).Download(context.Background(), ts.URL+"/missing.tar.gz", dir)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, []tarEntry{{name: "../../evil", body: "x", mode: 0644}})

	err := Extract(path, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
	_, statErr := os.Stat(filepath.Join(filepath.Dir(filepath.Dir(dir)), "evil"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractRejectsEscapingSymlink(t *testing.T) {
	path := writeArchive(t, []tarEntry{{name: "bin/link", typeflag: tar.TypeSymlink, link: "../../etc/passwd"}})
	assert.Error(t, Extract(path, t.TempDir()))
}

func TestExtractNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))
	assert.Error(t, Extract(path, t.TempDir()))
}
