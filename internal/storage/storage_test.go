package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantStem string
		wantExt  string
	}{
		{name: "plain", in: "photo.jpg", wantStem: "photo", wantExt: "jpg"},
		{name: "no extension", in: "blob", wantStem: "blob", wantExt: ""},
		{name: "double extension", in: "archive.tar.gz", wantStem: "archive.tar", wantExt: "gz"},
		{name: "unix path", in: "../../etc/passwd", wantStem: "passwd", wantExt: ""},
		{name: "windows path", in: `C:\Users\me\secret.enc`, wantStem: "secret", wantExt: "enc"},
		{name: "trailing dot", in: "weird.", wantStem: "weird", wantExt: ""},
		{name: "empty", in: "", wantStem: "", wantExt: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ext := splitName(tt.in)
			assert.Equal(t, tt.wantStem, stem)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "encrypted_uploads/abc.bin", objectKey("encrypted_uploads", "abc", "bin"))
	assert.Equal(t, "encrypted_uploads/abc", objectKey("/encrypted_uploads/", "abc", ""))
	assert.Equal(t, "abc", objectKey("", "abc", ""))
}

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Version   string
		Statement []struct {
			Effect    string
			Principal string
			Action    string
			Resource  string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("uploads")), &policy))
	require.Len(t, policy.Statement, 1)
	assert.Equal(t, "Allow", policy.Statement[0].Effect)
	assert.Equal(t, "s3:GetObject", policy.Statement[0].Action)
	assert.Equal(t, "arn:aws:s3:::uploads/*", policy.Statement[0].Resource)
}

func TestIsMinioAuthError(t *testing.T) {
	assert.True(t, isMinioAuthError(minio.ErrorResponse{Code: "InvalidAccessKeyId"}))
	assert.True(t, isMinioAuthError(minio.ErrorResponse{Code: "SignatureDoesNotMatch"}))
	assert.False(t, isMinioAuthError(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, isMinioAuthError(errors.New("dial tcp: connection refused")))
}

func TestMemory_Store(t *testing.T) {
	m := NewMemory("http://localhost:3000/blobs/")
	payload := []byte{0x00, 0xff, 0x10, 0x80, 'x'}

	d, err := m.Store(context.Background(), "secret.enc", bytes.NewReader(payload), int64(len(payload)), "encrypted_uploads")
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), d.Bytes)
	assert.Equal(t, ResourceTypeRaw, d.ResourceType)
	assert.Equal(t, "enc", d.Format)
	assert.Equal(t, "secret", d.OriginalFilename)
	assert.Equal(t, "encrypted_uploads", d.Folder)
	assert.True(t, strings.HasPrefix(d.PublicID, "encrypted_uploads/"))
	assert.Equal(t, "http://localhost:3000/blobs/"+d.PublicID, d.URL)

	stored, ok := m.Get(d.PublicID)
	require.True(t, ok)
	assert.Equal(t, payload, stored)
}

func TestMemory_StoreMintsDistinctIDs(t *testing.T) {
	m := NewMemory("http://localhost")
	payload := []byte("same bytes")

	first, err := m.Store(context.Background(), "a.bin", bytes.NewReader(payload), int64(len(payload)), "f")
	require.NoError(t, err)
	second, err := m.Store(context.Background(), "a.bin", bytes.NewReader(payload), int64(len(payload)), "f")
	require.NoError(t, err)

	assert.NotEqual(t, first.PublicID, second.PublicID)
	assert.NotEqual(t, first.AssetID, second.AssetID)
	assert.Equal(t, 2, m.Len())
}

func TestMemory_StoreErrors(t *testing.T) {
	m := NewMemory("http://localhost")

	t.Run("short body", func(t *testing.T) {
		_, err := m.Store(context.Background(), "a.bin", strings.NewReader("abc"), 10, "f")
		assert.Error(t, err)
	})

	t.Run("unknown size accepted", func(t *testing.T) {
		d, err := m.Store(context.Background(), "a.bin", strings.NewReader("abc"), -1, "f")
		require.NoError(t, err)
		assert.Equal(t, int64(3), d.Bytes)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := m.Store(ctx, "a.bin", strings.NewReader("abc"), 3, "f")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsCloudinaryAuthMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{msg: "Invalid api_key 1234", want: true},
		{msg: "Must supply api_key", want: true},
		{msg: "Invalid Signature 0f1e. String to sign - 'folder=x&timestamp=1'.", want: true},
		{msg: "Invalid cloud_name demo", want: true},
		{msg: "File size too large. Got 20000000. Maximum is 10485760.", want: false},
		{msg: "Empty file", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isCloudinaryAuthMessage(tt.msg))
		})
	}
}

func TestCloudinary_MissingCredentials(t *testing.T) {
	s, err := NewCloudinaryStorage(CloudinaryOptions{CloudName: "demo"})
	require.NoError(t, err)
	assert.False(t, s.Configured())

	_, err = s.Store(context.Background(), "a.bin", strings.NewReader("abc"), 3, "f")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCloudinary_Store(t *testing.T) {
	var (
		gotPath string
		form    map[string]string
		gotBody string
		gotName string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form = map[string]string{}
		for k := range r.MultipartForm.Value {
			form[k] = r.FormValue(k)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotBody, gotName = string(b), hdr.Filename

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"asset_id": "3515c6000a548515f1134043f9785c2f",
			"public_id": "encrypted_uploads/gotjephlnz2jgiu20zni",
			"version": 1719307544,
			"resource_type": "raw",
			"type": "upload",
			"created_at": "2024-06-25T09:25:44Z",
			"bytes": 5,
			"url": "http://res.cloudinary.com/demo/raw/upload/v1719307544/encrypted_uploads/gotjephlnz2jgiu20zni",
			"secure_url": "https://res.cloudinary.com/demo/raw/upload/v1719307544/encrypted_uploads/gotjephlnz2jgiu20zni",
			"original_filename": "file"
		}`))
	}))
	defer srv.Close()

	s, err := NewCloudinaryStorage(CloudinaryOptions{
		CloudName:    "demo",
		APIKey:       "1234",
		APISecret:    "secret",
		UploadPrefix: srv.URL,
	})
	require.NoError(t, err)
	require.True(t, s.Configured())

	d, err := s.Store(context.Background(), "secret.enc", strings.NewReader("hello"), 5, "encrypted_uploads")
	require.NoError(t, err)

	assert.Equal(t, "/v1_1/demo/raw/upload", gotPath)
	assert.Equal(t, "hello", gotBody)
	assert.Equal(t, "secret.enc", gotName)
	assert.Equal(t, "encrypted_uploads", form["folder"])
	assert.Equal(t, "1234", form["api_key"])
	require.NotEmpty(t, form["timestamp"])
	assert.Equal(t, signCloudinaryParams(url.Values{
		"folder":    {"encrypted_uploads"},
		"timestamp": {form["timestamp"]},
	}, "secret"), form["signature"])

	assert.Equal(t, "encrypted_uploads/gotjephlnz2jgiu20zni", d.PublicID)
	assert.Equal(t, int64(5), d.Bytes)
	assert.Equal(t, "raw", d.ResourceType)
	assert.Equal(t, "encrypted_uploads", d.Folder)
	assert.True(t, strings.HasPrefix(d.SecureURL, "https://"))
}

func TestCloudinary_StoreRejected(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantAuth bool
	}{
		{"invalid signature", http.StatusUnauthorized, `{"error":{"message":"Invalid Signature abc. String to sign - 'folder=f&timestamp=1'."}}`, true},
		{"unknown api key", http.StatusUnauthorized, `{"error":{"message":"Unknown API key 1234"}}`, true},
		{"forbidden without body", http.StatusForbidden, ``, true},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"Empty file"}}`, false},
		{"server error", http.StatusInternalServerError, `oops`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, err := NewCloudinaryStorage(CloudinaryOptions{
				CloudName:    "demo",
				APIKey:       "1234",
				APISecret:    "secret",
				UploadPrefix: srv.URL,
			})
			require.NoError(t, err)

			_, err = s.Store(context.Background(), "a.bin", strings.NewReader("abc"), 3, "f")
			require.Error(t, err)
			assert.Equal(t, tt.wantAuth, errors.Is(err, ErrUnauthorized), err.Error())
		})
	}
}

func TestSignCloudinaryParams(t *testing.T) {
	// Reference pair from the provider's signature documentation.
	params := url.Values{
		"eager":     {"w_400,h_300,c_pad|w_260,h_200,c_crop"},
		"public_id": {"sample_image"},
		"timestamp": {"1315060510"},
	}
	assert.Equal(t, "bfd09f95f331f558cbd1320e67aa8d488770583e", signCloudinaryParams(params, "abcd"))
}

func TestCloudinary_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	s, err := NewCloudinaryStorage(CloudinaryOptions{
		CloudName:    "demo",
		APIKey:       "1234",
		APISecret:    "secret",
		UploadPrefix: addr,
	})
	require.NoError(t, err)

	_, err = s.Store(context.Background(), "a.bin", strings.NewReader("abc"), 3, "f")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}
