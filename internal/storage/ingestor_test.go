package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a *multipart.FileHeader the way gin would hand it over.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 10240)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func newTestIngestor(t *testing.T) *Ingestor {
	t.Helper()
	in, err := NewIngestor(Config{Dir: t.TempDir()})
	require.NoError(t, err)
	return in
}

func TestIngestRoundTrip(t *testing.T) {
	in := newTestIngestor(t)
	content := []byte("fake png bytes")

	name, err := in.Ingest(fileHeader(t, "cat.png", content))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "image-"))
	assert.Equal(t, ".png", filepath.Ext(name))

	// 落盘内容与上传内容一致
	stored, err := os.ReadFile(filepath.Join(in.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	// no pending temp file left behind
	entries, err := os.ReadDir(in.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, name, entries[0].Name())
}

func TestIngestWriteFailure(t *testing.T) {
	// 写盘失败必须能通过 ErrUpload 识别出来（路由层据此返回 400）
	in := newTestIngestor(t)
	require.NoError(t, os.RemoveAll(in.Dir()))

	_, err := in.Ingest(fileHeader(t, "cat.png", []byte("bytes")))
	assert.ErrorIs(t, err, ErrUpload)
}

func TestIngestNilHeader(t *testing.T) {
	in := newTestIngestor(t)
	_, err := in.Ingest(nil)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestIngestConcurrentSameName(t *testing.T) {
	// 并发上传同名文件也不会生成相同的存储文件名
	in := newTestIngestor(t)
	const workers = 32

	var (
		mu    sync.Mutex
		names = make(map[string]struct{}, workers)
		wg    sync.WaitGroup
	)
	headers := make([]*multipart.FileHeader, workers)
	for i := range headers {
		headers[i] = fileHeader(t, "same.jpg", []byte("payload"))
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			name, err := in.Ingest(headers[i])
			assert.NoError(t, err)
			mu.Lock()
			names[name] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, names, workers)
}

func TestRemove(t *testing.T) {
	in := newTestIngestor(t)
	name, err := in.Ingest(fileHeader(t, "doc.gif", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, in.Remove(name))
	_, err = os.Stat(filepath.Join(in.Dir(), name))
	assert.True(t, os.IsNotExist(err))
}
