package vimonline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
	"github.com/m-mizutani/vimpub/pkg/domain/types"
)

// DefaultBaseURL is the production listing service
const DefaultBaseURL = "https://www.vim.org"

// vimVersion is the fixed client-version marker the upload form requires
const vimVersion = "7.0"

// The script page lists one table row per published release; rows that
// carry a download link embed the version number in a <b> element. The
// page format is unversioned, which is why this parsing lives behind the
// ListingClient interface.
var (
	tableRowPattern = regexp.MustCompile(`(?s)<tr>.+?</tr>`)
	versionPattern  = regexp.MustCompile(`<b>(\d+(?:\.\d+)+)</b>`)
)

// Client implements the ListingClient against the Vim Online site
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.ListingClient = (*Client)(nil)

type Option func(*Client)

// WithBaseURL overrides the listing service base URL
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the HTTP client. The replacement must carry a
// cookie jar, the login session is cookie based.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a listing service client
func New(opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cookie jar")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Host returns the host name used for credential lookup
func (c *Client) Host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// ScriptPageURL returns the public page URL of a script
func (c *Client) ScriptPageURL(scriptID int) string {
	return fmt.Sprintf("%s/scripts/script.php?script_id=%d", c.baseURL, scriptID)
}

// FetchReleasedVersions scrapes every published version from the
// plug-in's script page
func (c *Client) FetchReleasedVersions(ctx context.Context, scriptID int) ([]model.Version, error) {
	pageURL := c.ScriptPageURL(scriptID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create script page request", goerr.V("url", pageURL))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch script page",
			goerr.V("url", pageURL),
			goerr.T(types.ErrTagRemoteUnavailable),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status from script page",
			goerr.V("url", pageURL),
			goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagRemoteUnavailable),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read script page",
			goerr.V("url", pageURL),
			goerr.T(types.ErrTagRemoteUnavailable),
		)
	}

	var versions []model.Version
	for _, row := range tableRowPattern.FindAllString(string(body), -1) {
		if !strings.Contains(row, "download_script.php") {
			continue
		}
		m := versionPattern.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		v, err := model.ParseVersion(m[1])
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}

	if len(versions) == 0 {
		return nil, goerr.Wrap(types.ErrNoReleasesFound, "script page has no parseable version rows",
			goerr.V("url", pageURL),
		)
	}
	return versions, nil
}

// UploadRelease logs in with the given credentials and submits the
// release archive with its version and changelog
func (c *Client) UploadRelease(ctx context.Context, creds model.Credentials, up *model.Upload) error {
	if err := c.login(ctx, creds); err != nil {
		return err
	}
	return c.submitUpload(ctx, up)
}

func (c *Client) login(ctx context.Context, creds model.Credentials) error {
	form := url.Values{
		"authenticate": {"true"},
		"referrer":     {""},
		"userName":     {creds.Login},
		"password":     {creds.Password},
	}

	loginURL := c.baseURL + "/login.php"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return goerr.Wrap(err, "failed to create login request", goerr.V("url", loginURL))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "login request failed",
			goerr.V("url", loginURL),
			goerr.T(types.ErrTagRemoteUnavailable),
		)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return goerr.New("login rejected by listing service",
			goerr.V("url", loginURL),
			goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagRemoteUnavailable),
		)
	}
	return nil
}

func (c *Client) submitUpload(ctx context.Context, up *model.Upload) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"ACTION", "UPLOAD_NEW"},
		{"script_id", strconv.Itoa(up.ScriptID)},
		{"vim_version", vimVersion},
		{"script_version", up.Version.String()},
		{"version_comment", up.Changelog},
	}
	for _, field := range fields {
		if err := form.WriteField(field.name, field.value); err != nil {
			return goerr.Wrap(err, "failed to encode upload field", goerr.V("field", field.name))
		}
	}

	archive, err := os.Open(up.ArchivePath)
	if err != nil {
		return goerr.Wrap(err, "failed to open release archive", goerr.V("path", up.ArchivePath))
	}
	defer archive.Close()

	part, err := form.CreateFormFile("script_file", filepath.Base(up.ArchivePath))
	if err != nil {
		return goerr.Wrap(err, "failed to encode archive attachment")
	}
	if _, err := io.Copy(part, archive); err != nil {
		return goerr.Wrap(err, "failed to read release archive", goerr.V("path", up.ArchivePath))
	}
	if err := form.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize upload form")
	}

	uploadURL := fmt.Sprintf("%s/scripts/add_script_version.php?script_id=%d", c.baseURL, up.ScriptID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload request", goerr.V("url", uploadURL))
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "upload request failed",
			goerr.V("url", uploadURL),
			goerr.T(types.ErrTagRemoteUnavailable),
		)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("upload rejected by listing service",
			goerr.V("url", uploadURL),
			goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagRemoteUnavailable),
		)
	}
	return nil
}
