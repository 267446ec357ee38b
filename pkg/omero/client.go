// Package omero provides a read-only HTTP client for the webgateway API
// exposed by OMERO-style microscopy image repositories.
//
// The repository organizes data in a three-level containment hierarchy,
// Project -> Dataset -> Image. Every detail or children call takes an id
// obtained from a prior list call; the client never synthesizes ids.
// There is no retry, auth, or pagination: a non-200 response or a
// malformed body surfaces as an error carrying the failing URL.
package omero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/chai2010/webp"
	"github.com/jtacoma/uritemplates"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	_ "golang.org/x/image/webp"
)

// Endpoint path templates, expanded per request.
const (
	tmplProjectList     = "/webgateway/proj/list/"
	tmplProjectDetail   = "/webgateway/proj/{id}/detail/"
	tmplProjectChildren = "/webgateway/proj/{id}/children/"
	tmplAnnotations     = "/webclient/api/annotations/?project={id}"
	tmplDatasetDetail   = "/webgateway/dataset/{id}/detail/"
	tmplDatasetChildren = "/webgateway/dataset/{id}/children/"
	tmplRenderImage     = "/webgateway/render_image/{id}"
)

const userAgent = "cellscout/1.0 (+https://github.com/omero-tools/cellscout)"

// Client talks to one repository server.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the given base URL, for instance
// "https://idr.openmicroscopy.org".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q (only http and https)", parsed.Scheme)
	}

	c := &Client{
		base:       &url.URL{Scheme: parsed.Scheme, Host: parsed.Host},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server base the client was created with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Projects lists all projects on the server, unfiltered.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.getJSON(ctx, tmplProjectList, nil, &projects); err != nil {
		return nil, err
	}
	c.log.Debug().Int("count", len(projects)).Msg("listed projects")
	return projects, nil
}

// Project fetches the detail record for one project id.
func (c *Client) Project(ctx context.Context, id int64) (Project, error) {
	var p Project
	if err := c.getJSON(ctx, tmplProjectDetail, vars(id), &p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Annotations fetches the structured annotation records attached to a
// project.
func (c *Client) Annotations(ctx context.Context, projectID int64) ([]Annotation, error) {
	var resp struct {
		Annotations []Annotation `json:"annotations"`
	}
	if err := c.getJSON(ctx, tmplAnnotations, vars(projectID), &resp); err != nil {
		return nil, err
	}
	return resp.Annotations, nil
}

// Datasets lists the child datasets of a project, in server order.
func (c *Client) Datasets(ctx context.Context, projectID int64) ([]Dataset, error) {
	var datasets []Dataset
	if err := c.getJSON(ctx, tmplProjectChildren, vars(projectID), &datasets); err != nil {
		return nil, err
	}
	c.log.Debug().Int64("project", projectID).Int("count", len(datasets)).Msg("listed datasets")
	return datasets, nil
}

// Dataset fetches the detail record for one dataset id.
func (c *Client) Dataset(ctx context.Context, id int64) (Dataset, error) {
	var d Dataset
	if err := c.getJSON(ctx, tmplDatasetDetail, vars(id), &d); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

// Images lists the child images of a dataset, in server order.
func (c *Client) Images(ctx context.Context, datasetID int64) ([]Image, error) {
	var images []Image
	if err := c.getJSON(ctx, tmplDatasetChildren, vars(datasetID), &images); err != nil {
		return nil, err
	}
	c.log.Debug().Int64("dataset", datasetID).Int("count", len(images)).Msg("listed images")
	return images, nil
}

// Thumbnail fetches and decodes a reduced-resolution preview by its
// server-relative path, as carried in Image.ThumbURL.
func (c *Client) Thumbnail(ctx context.Context, thumbPath string) (image.Image, error) {
	data, u, err := c.getBytes(ctx, thumbPath, nil)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail %s: %w", u, err)
	}
	return img, nil
}

// RenderImage fetches and decodes the full rendered image for an id.
func (c *Client) RenderImage(ctx context.Context, id int64) (image.Image, error) {
	data, u, err := c.getBytes(ctx, tmplRenderImage, vars(id))
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", u, err)
	}
	return img, nil
}

// Thumbnails fetches the thumbnail of every image using at most workers
// concurrent requests. The result slice matches the input order; the
// first failure cancels the remaining fetches and is returned.
func (c *Client) Thumbnails(ctx context.Context, images []Image, workers int) ([]image.Image, error) {
	if workers < 1 {
		workers = 1
	}

	thumbs := make([]image.Image, len(images))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, img := range images {
		g.Go(func() error {
			thumb, err := c.Thumbnail(ctx, img.ThumbURL)
			if err != nil {
				return err
			}
			thumbs[i] = thumb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.log.Debug().Int("count", len(thumbs)).Int("workers", workers).Msg("fetched thumbnails")
	return thumbs, nil
}

func vars(id int64) map[string]interface{} {
	return map[string]interface{}{"id": id}
}

// expand resolves a path template plus variables against the base URL.
func (c *Client) expand(tmpl string, templateVars map[string]interface{}) (*url.URL, error) {
	path := tmpl
	if templateVars != nil {
		t, err := uritemplates.Parse(tmpl)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint template %q: %w", tmpl, err)
		}
		path, err = t.Expand(templateVars)
		if err != nil {
			return nil, fmt.Errorf("expand endpoint template %q: %w", tmpl, err)
		}
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint path %q: %w", path, err)
	}
	return c.base.ResolveReference(ref), nil
}

func (c *Client) getJSON(ctx context.Context, tmpl string, templateVars map[string]interface{}, out interface{}) error {
	body, u, err := c.get(ctx, tmpl, templateVars)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", u, err)
	}
	return nil
}

func (c *Client) getBytes(ctx context.Context, tmpl string, templateVars map[string]interface{}) ([]byte, *url.URL, error) {
	body, u, err := c.get(ctx, tmpl, templateVars)
	if err != nil {
		return nil, nil, err
	}
	return body, u, nil
}

func (c *Client) get(ctx context.Context, tmpl string, templateVars map[string]interface{}) ([]byte, *url.URL, error) {
	u, err := c.expand(tmpl, templateVars)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request for %s: %w", u, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("GET %s: HTTP %d %s", u, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response from %s: %w", u, err)
	}
	return body, u, nil
}

// decodeImage decodes raw image bytes, trying the registered stdlib
// decoders first and falling back to an explicit WebP decode.
func decodeImage(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}
