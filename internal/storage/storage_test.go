package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

func TestSanitizeExtension(t *testing.T) {
	require.Equal(t, "png", SanitizeExtension(".PNG"))
	require.Equal(t, "bin", SanitizeExtension(""))
	require.Equal(t, "bin", SanitizeExtension("../"))
	require.Equal(t, "etcpasswd", SanitizeExtension("/etc/passwd"))
	require.Equal(t, "abcdefghij", SanitizeExtension("abcdefghijklmnop"))
}

func TestObjectPath(t *testing.T) {
	p, err := ObjectPath("ws-a", "jpg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(p, "ws-a/"))
	require.True(t, strings.HasSuffix(p, ".jpg"))

	_, err = ObjectPath("../ws-a", "jpg")
	require.ErrorIs(t, err, ErrInvalidTenantKey)
	_, err = ObjectPath("", "jpg")
	require.ErrorIs(t, err, ErrInvalidTenantKey)
}

func TestLocalStorage_StoreOpenRemove(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.EnsureContainer(ctx, "ws-a"))

	obj, err := s.Store(ctx, "ws-a", strings.NewReader("hello"), "txt")
	require.NoError(t, err)
	require.Equal(t, int64(5), obj.Size)
	require.True(t, strings.HasPrefix(obj.Path, "ws-a/"))

	rc, err := s.Open(ctx, obj.Path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "hello", string(data))

	require.NoError(t, s.Remove(ctx, obj.Path))
	_, err = s.Open(ctx, obj.Path)
	require.ErrorIs(t, err, ErrFileNotFound)

	// Removing twice is fine.
	require.NoError(t, s.Remove(ctx, obj.Path))
}

func TestLocalStorage_ConfinedToBaseDir(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(base, "uploads"))
	require.NoError(t, err)

	outside := filepath.Join(base, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	_, err = s.Open(ctx, "../secret.txt")
	require.Error(t, err)
	require.NoError(t, s.Remove(ctx, "../secret.txt"))
	_, statErr := os.Stat(outside)
	require.NoError(t, statErr)

	require.ErrorIs(t, s.EnsureContainer(ctx, "../escape"), ErrInvalidTenantKey)
}

func TestLocalStorage_ConcurrentStoresDoNotCollide(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.EnsureContainer(ctx, "ws-a"))

	const n = 20
	paths := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj, err := s.Store(ctx, "ws-a", strings.NewReader("same name"), "txt")
			if err == nil {
				paths <- obj.Path
			}
		}()
	}
	wg.Wait()
	close(paths)

	seen := map[string]bool{}
	for p := range paths {
		require.False(t, seen[p])
		seen[p] = true
	}
	require.Len(t, seen, n)
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_StoreOpenRemove(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	s, err := NewS3Storage(ctx, S3Config{Bucket: "media"}, fake)
	require.NoError(t, err)

	require.NoError(t, s.EnsureContainer(ctx, "ws-a"))

	// A plain reader is buffered to learn its length.
	obj, err := s.Store(ctx, "ws-a", io.MultiReader(strings.NewReader("hel"), strings.NewReader("lo")), "png")
	require.NoError(t, err)
	require.Equal(t, int64(5), obj.Size)
	require.Equal(t, []byte("hello"), fake.objects[obj.Path])

	rc, err := s.Open(ctx, obj.Path)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	require.Equal(t, "hello", string(data))

	require.NoError(t, s.Remove(ctx, obj.Path))
	_, err = s.Open(ctx, obj.Path)
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), S3Config{Region: "eu-west-1"}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
