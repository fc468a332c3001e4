package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const defaultCloudinaryPrefix = "https://api.cloudinary.com"

// CloudinaryOptions holds the account credentials for the Cloudinary upload API.
type CloudinaryOptions struct {
	CloudName string
	APIKey    string
	APISecret string

	// UploadPrefix overrides the API host, e.g. for a regional endpoint or a local stub.
	UploadPrefix string
}

// errMissingCredentials mirrors what the provider would answer for an unauthenticated call.
var errMissingCredentials = errors.New("cloudinary credentials are not configured")

// CloudinaryStorage implements BlobStore on top of the Cloudinary upload API. Files are
// posted to the raw upload endpoint so the provider stores the bytes as-is.
type CloudinaryStorage struct {
	cloudName string
	apiKey    string
	apiSecret string
	endpoint  string
	client    *http.Client
	now       func() time.Time
}

// NewCloudinaryStorage builds the client from the SDK configuration. Missing credentials are
// not an error here: the store is still returned and every Store call fails with ErrUnauthorized.
func NewCloudinaryStorage(opts CloudinaryOptions) (*CloudinaryStorage, error) {
	if opts.CloudName == "" || opts.APIKey == "" || opts.APISecret == "" {
		return &CloudinaryStorage{}, nil
	}

	cld, err := cloudinary.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	prefix := cld.Config.API.UploadPrefix
	if opts.UploadPrefix != "" {
		prefix = opts.UploadPrefix
	}
	if prefix == "" {
		prefix = defaultCloudinaryPrefix
	}
	prefix = strings.TrimRight(prefix, "/")

	return &CloudinaryStorage{
		cloudName: cld.Config.Cloud.CloudName,
		apiKey:    cld.Config.Cloud.APIKey,
		apiSecret: cld.Config.Cloud.APISecret,
		endpoint:  fmt.Sprintf("%s/v1_1/%s/%s/upload", prefix, url.PathEscape(cld.Config.Cloud.CloudName), ResourceTypeRaw),
		client:    &http.Client{},
		now:       time.Now,
	}, nil
}

// Name implements BlobStore.
func (s *CloudinaryStorage) Name() string { return "cloudinary" }

// Configured reports whether credentials were supplied at startup.
func (s *CloudinaryStorage) Configured() bool { return s.apiSecret != "" }

// Store uploads body into folder. size is advisory; the body is streamed to the provider.
func (s *CloudinaryStorage) Store(ctx context.Context, name string, body io.Reader, _ int64, folder string) (*ObjectDescriptor, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("cloudinary upload: %w: %v", ErrUnauthorized, errMissingCredentials)
	}

	params := url.Values{}
	if folder != "" {
		params.Set("folder", folder)
	}
	params.Set("timestamp", strconv.FormatInt(s.now().Unix(), 10))
	params.Set("signature", signCloudinaryParams(params, s.apiSecret))
	params.Set("api_key", s.apiKey)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(mw, params, name, body))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	var res uploader.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil && resp.StatusCode < http.StatusBadRequest {
		return nil, fmt.Errorf("cloudinary upload: decode response: %w", err)
	}

	msg := res.Error.Message
	if resp.StatusCode >= http.StatusBadRequest && msg == "" {
		msg = resp.Status
	}
	if msg != "" {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || isCloudinaryAuthMessage(msg) {
			return nil, fmt.Errorf("cloudinary upload: %w: %s", ErrUnauthorized, msg)
		}
		return nil, fmt.Errorf("cloudinary upload: %s", msg)
	}

	stem, _ := splitName(name)
	d := &ObjectDescriptor{
		AssetID:          res.AssetID,
		PublicID:         res.PublicID,
		Version:          int64(res.Version),
		ResourceType:     res.ResourceType,
		Type:             res.Type,
		Format:           res.Format,
		Bytes:            int64(res.Bytes),
		URL:              res.URL,
		SecureURL:        res.SecureURL,
		Folder:           folder,
		OriginalFilename: res.OriginalFilename,
		ETag:             res.Etag,
		CreatedAt:        res.CreatedAt,
	}
	if d.ResourceType == "" {
		d.ResourceType = ResourceTypeRaw
	}
	if d.OriginalFilename == "" {
		d.OriginalFilename = stem
	}
	return d, nil
}

func writeUploadForm(mw *multipart.Writer, params url.Values, name string, body io.Reader) error {
	for k := range params {
		if err := mw.WriteField(k, params.Get(k)); err != nil {
			return err
		}
	}
	if name == "" {
		name = "file"
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	return mw.Close()
}

// signCloudinaryParams returns the hex SHA-1 of the sorted "k=v&k=v" string followed by the secret.
func signCloudinaryParams(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+strings.Join(params[k], ","))
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// isCloudinaryAuthMessage matches the provider's error texts for bad or missing credentials,
// e.g. "Invalid api_key 123", "Invalid Signature ...", "Invalid cloud_name foo".
func isCloudinaryAuthMessage(msg string) bool {
	m := strings.ToLower(msg)
	for _, needle := range []string{"api_key", "api_secret", "signature", "cloud_name", "unauthorized"} {
		if strings.Contains(m, needle) {
			return true
		}
	}
	return false
}
