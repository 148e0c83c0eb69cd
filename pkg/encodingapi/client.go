package encodingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/enclens/enclens/pkg/cache"
	apperr "github.com/enclens/enclens/pkg/errors"
	"github.com/enclens/enclens/pkg/httputil"
)

const defaultTimeout = 30 * time.Second

// listPageSize is the limit parameter sent to list endpoints.
const listPageSize = 100

// Config configures a Client.
type Config struct {
	BaseURL  string // API root, e.g. https://api.example.com/v1
	APIKey   string
	OrgID    string // optional tenant organization
	Cache    cache.Cache
	CacheTTL time.Duration
	Refresh  bool // bypass cache reads, still write fresh results
	Timeout  time.Duration
}

// Client fetches encoding resources from the remote REST API. It resolves
// polymorphic resources through their type-discriminated sub-endpoints,
// caches responses and retries transient failures.
type Client struct {
	http     *http.Client
	baseURL  string
	headers  map[string]string
	cache    cache.Cache
	cacheTTL time.Duration
	refresh  bool
}

// NewClient creates a Client for the given API. A nil Config.Cache disables
// caching.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	store := cfg.Cache
	if store == nil {
		store = cache.NewNullCache()
	}
	headers := map[string]string{
		"X-Api-Key": cfg.APIKey,
		"Accept":    "application/json",
	}
	if cfg.OrgID != "" {
		headers["X-Tenant-Org-Id"] = cfg.OrgID
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  cfg.BaseURL,
		headers:  headers,
		cache:    store,
		cacheTTL: cfg.CacheTTL,
		refresh:  cfg.Refresh,
	}
}

// get fetches path relative to the base URL and decodes the JSON response
// into v. Responses are served from cache when available.
func (c *Client) get(ctx context.Context, path string, v any) error {
	key := cache.Key("api", path)
	if !c.refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			log.FromContext(ctx).Debug("cache hit", "path", path)
			return json.Unmarshal(data, v)
		}
	}

	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = c.doRequest(ctx, path)
		return err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "decode response for %s", path)
	}
	_ = c.cache.Set(ctx, key, body, c.cacheTTL)
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "build request for %s", path)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	log.FromContext(ctx).Debug("GET", "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{
			Err: apperr.Wrap(apperr.ErrCodeNetwork, err, "request %s", path),
		}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, path); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{
			Err: apperr.Wrap(apperr.ErrCodeNetwork, err, "read response for %s", path),
		}
	}
	return body, nil
}

func checkStatus(code int, path string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return apperr.New(apperr.ErrCodeNotFound, "resource not found: %s", path)
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{
			Err: apperr.New(apperr.ErrCodeNetwork, "status %d for %s", code, path),
		}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apperr.New(apperr.ErrCodeInvalidInput, "authentication failed (status %d)", code)
	default:
		return apperr.New(apperr.ErrCodeNetwork, "status %d for %s", code, path)
	}
}

// list pages through a list endpoint until all items are collected. extra
// query parameters are appended to every page request.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var all []T
	for offset := 0; ; offset += listPageSize {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("limit", fmt.Sprint(listPageSize))
		q.Set("offset", fmt.Sprint(offset))

		var page ListResult[T]
		if err := c.get(ctx, path+"?"+q.Encode(), &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < listPageSize || (page.TotalCount > 0 && len(all) >= page.TotalCount) {
			return all, nil
		}
	}
}

// Encoding fetches the root encoding resource.
func (c *Client) Encoding(ctx context.Context, encodingID string) (*Encoding, error) {
	var enc Encoding
	if err := c.get(ctx, "/encoding/encodings/"+encodingID, &enc); err != nil {
		return nil, err
	}
	return &enc, nil
}

// StartRequest fetches the configuration the encoding was started with.
func (c *Client) StartRequest(ctx context.Context, encodingID string) (*StartRequest, error) {
	var start StartRequest
	if err := c.get(ctx, "/encoding/encodings/"+encodingID+"/start", &start); err != nil {
		return nil, err
	}
	return &start, nil
}

// Streams lists all streams of an encoding.
func (c *Client) Streams(ctx context.Context, encodingID string) ([]Stream, error) {
	return list[Stream](ctx, c, "/encoding/encodings/"+encodingID+"/streams", nil)
}

// Stream fetches one stream.
func (c *Client) Stream(ctx context.Context, encodingID, streamID string) (*Stream, error) {
	var s Stream
	path := "/encoding/encodings/" + encodingID + "/streams/" + streamID
	if err := c.get(ctx, path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// StreamInput fetches the input analysis of a stream.
func (c *Client) StreamInput(ctx context.Context, encodingID, streamID string) (*StreamInputDetails, error) {
	var d StreamInputDetails
	path := "/encoding/encodings/" + encodingID + "/streams/" + streamID + "/input"
	if err := c.get(ctx, path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// StreamFilters lists the filters applied to a stream.
func (c *Client) StreamFilters(ctx context.Context, encodingID, streamID string) ([]FilterRef, error) {
	path := "/encoding/encodings/" + encodingID + "/streams/" + streamID + "/filters"
	return list[FilterRef](ctx, c, path, nil)
}

// Sprites lists the sprites generated for a stream.
func (c *Client) Sprites(ctx context.Context, encodingID, streamID string) ([]Sprite, error) {
	path := "/encoding/encodings/" + encodingID + "/streams/" + streamID + "/sprites"
	return list[Sprite](ctx, c, path, nil)
}

// Thumbnails lists the thumbnails generated for a stream.
func (c *Client) Thumbnails(ctx context.Context, encodingID, streamID string) ([]Thumbnail, error) {
	path := "/encoding/encodings/" + encodingID + "/streams/" + streamID + "/thumbnails"
	return list[Thumbnail](ctx, c, path, nil)
}

// Muxings lists all muxings of an encoding, including their discriminators.
func (c *Client) Muxings(ctx context.Context, encodingID string) ([]Muxing, error) {
	return list[Muxing](ctx, c, "/encoding/encodings/"+encodingID+"/muxings", nil)
}

// Muxing fetches the full muxing resource through its typed sub-endpoint.
func (c *Client) Muxing(ctx context.Context, encodingID, kind, muxingID string) (*Muxing, error) {
	meta, ok := ResolveMuxingKind(kind)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled muxing type %q", kind)
	}
	var m Muxing
	path := "/encoding/encodings/" + encodingID + "/muxings/" + meta.Slug + "/" + muxingID
	if err := c.get(ctx, path, &m); err != nil {
		return nil, err
	}
	if m.Type == "" {
		m.Type = kind
	}
	return &m, nil
}

// MuxingDrms lists the DRM configurations of a muxing.
func (c *Client) MuxingDrms(ctx context.Context, encodingID, muxingKind, muxingID string) ([]Drm, error) {
	meta, ok := ResolveMuxingKind(muxingKind)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled muxing type %q", muxingKind)
	}
	path := "/encoding/encodings/" + encodingID + "/muxings/" + meta.Slug + "/" + muxingID + "/drm"
	return list[Drm](ctx, c, path, nil)
}

// Drm fetches the full DRM resource through its typed sub-endpoint.
func (c *Client) Drm(ctx context.Context, encodingID, muxingKind, muxingID, drmKind, drmID string) (*Drm, error) {
	muxMeta, ok := ResolveMuxingKind(muxingKind)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled muxing type %q", muxingKind)
	}
	drmMeta, ok := ResolveDrmKind(drmKind)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled drm type %q", drmKind)
	}
	var d Drm
	path := "/encoding/encodings/" + encodingID + "/muxings/" + muxMeta.Slug + "/" + muxingID +
		"/drm/" + drmMeta.Slug + "/" + drmID
	if err := c.get(ctx, path, &d); err != nil {
		return nil, err
	}
	if d.Type == "" {
		d.Type = drmKind
	}
	return &d, nil
}

// CodecConfiguration fetches a codec configuration, resolving its type first
// and then reading the typed sub-endpoint.
func (c *Client) CodecConfiguration(ctx context.Context, configID string) (*CodecConfiguration, error) {
	var ref TypeRef
	if err := c.get(ctx, "/encoding/configurations/"+configID+"/type", &ref); err != nil {
		return nil, err
	}
	meta, ok := ResolveCodecKind(ref.Type)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled codec type %q", ref.Type)
	}
	var cfg CodecConfiguration
	path := "/encoding/configurations/" + string(meta.Media) + "/" + meta.Slug + "/" + configID
	if err := c.get(ctx, path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Type == "" {
		cfg.Type = ref.Type
	}
	return &cfg, nil
}

// Output fetches an output, resolving its type first.
func (c *Client) Output(ctx context.Context, outputID string) (*Output, error) {
	var ref TypeRef
	if err := c.get(ctx, "/encoding/outputs/"+outputID+"/type", &ref); err != nil {
		return nil, err
	}
	meta, ok := ResolveOutputKind(ref.Type)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled output type %q", ref.Type)
	}
	var out Output
	if err := c.get(ctx, "/encoding/outputs/"+meta.Slug+"/"+outputID, &out); err != nil {
		return nil, err
	}
	if out.Type == "" {
		out.Type = ref.Type
	}
	return &out, nil
}

// Input fetches an input, resolving its type first.
func (c *Client) Input(ctx context.Context, inputID string) (*Input, error) {
	var ref TypeRef
	if err := c.get(ctx, "/encoding/inputs/"+inputID+"/type", &ref); err != nil {
		return nil, err
	}
	meta, ok := ResolveInputKind(ref.Type)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled input type %q", ref.Type)
	}
	var in Input
	if err := c.get(ctx, "/encoding/inputs/"+meta.Slug+"/"+inputID, &in); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = ref.Type
	}
	return &in, nil
}

// InputStream fetches a derived input stream. The generic endpoint returns
// the variant payload with its discriminator.
func (c *Client) InputStream(ctx context.Context, encodingID, inputStreamID string) (*InputStream, error) {
	var s InputStream
	path := "/encoding/encodings/" + encodingID + "/inputStreams/" + inputStreamID
	if err := c.get(ctx, path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Filter fetches a filter, resolving its type first.
func (c *Client) Filter(ctx context.Context, filterID string) (*Filter, error) {
	var ref TypeRef
	if err := c.get(ctx, "/encoding/filters/"+filterID+"/type", &ref); err != nil {
		return nil, err
	}
	meta, ok := ResolveFilterKind(ref.Type)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled filter type %q", ref.Type)
	}
	var f Filter
	if err := c.get(ctx, "/encoding/filters/"+meta.Slug+"/"+filterID, &f); err != nil {
		return nil, err
	}
	if f.Type == "" {
		f.Type = ref.Type
	}
	return &f, nil
}

// Manifests lists the manifests of the given kind referencing an encoding.
func (c *Client) Manifests(ctx context.Context, kind, encodingID string) ([]Manifest, error) {
	meta, ok := ResolveManifestKind(kind)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnhandledType, "unhandled manifest type %q", kind)
	}
	q := url.Values{}
	q.Set("encodingId", encodingID)
	manifests, err := list[Manifest](ctx, c, "/encoding/manifests/"+meta.Slug, q)
	if err != nil {
		return nil, err
	}
	for i := range manifests {
		if manifests[i].Type == "" {
			manifests[i].Type = kind
		}
	}
	return manifests, nil
}

// DashPeriods lists the periods of a DASH manifest.
func (c *Client) DashPeriods(ctx context.Context, manifestID string) ([]DashPeriod, error) {
	return list[DashPeriod](ctx, c, "/encoding/manifests/dash/"+manifestID+"/periods", nil)
}

// DashAdaptationSets lists the adaptation sets of one media type in a
// period. media is one of AdaptationSetKinds.
func (c *Client) DashAdaptationSets(ctx context.Context, manifestID, periodID, media string) ([]DashAdaptationSet, error) {
	path := "/encoding/manifests/dash/" + manifestID + "/periods/" + periodID + "/adaptationsets/" + media
	sets, err := list[DashAdaptationSet](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		sets[i].Media = media
	}
	return sets, nil
}

// DashRepresentations lists the representations of one kind in an
// adaptation set. kind is one of RepresentationKinds.
func (c *Client) DashRepresentations(ctx context.Context, manifestID, periodID, adaptationSetID, kind string) ([]DashRepresentation, error) {
	path := "/encoding/manifests/dash/" + manifestID + "/periods/" + periodID +
		"/adaptationsets/" + adaptationSetID + "/representations/" + kind
	reps, err := list[DashRepresentation](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	for i := range reps {
		reps[i].Kind = kind
	}
	return reps, nil
}

// DashDrmRepresentations lists the DRM-protected fMP4 representations of an
// adaptation set. They live under a sub-path of the plain fMP4 kind and are
// merged into the same tree level.
func (c *Client) DashDrmRepresentations(ctx context.Context, manifestID, periodID, adaptationSetID string) ([]DashRepresentation, error) {
	path := "/encoding/manifests/dash/" + manifestID + "/periods/" + periodID +
		"/adaptationsets/" + adaptationSetID + "/representations/fmp4/drm"
	reps, err := list[DashRepresentation](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	for i := range reps {
		reps[i].Kind = "fmp4 drm"
	}
	return reps, nil
}

// DashContentProtections lists the content protections of an adaptation set.
func (c *Client) DashContentProtections(ctx context.Context, manifestID, periodID, adaptationSetID string) ([]DashContentProtection, error) {
	path := "/encoding/manifests/dash/" + manifestID + "/periods/" + periodID +
		"/adaptationsets/" + adaptationSetID + "/contentprotection"
	return list[DashContentProtection](ctx, c, path, nil)
}

// HlsStreams lists the variant streams of an HLS manifest.
func (c *Client) HlsStreams(ctx context.Context, manifestID string) ([]HlsStream, error) {
	return list[HlsStream](ctx, c, "/encoding/manifests/hls/"+manifestID+"/streams", nil)
}

// HlsMedia lists the media playlist entries of one kind. kind is one of
// HlsMediaKinds.
func (c *Client) HlsMedia(ctx context.Context, manifestID, kind string) ([]HlsMedia, error) {
	path := "/encoding/manifests/hls/" + manifestID + "/media/" + kind
	media, err := list[HlsMedia](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	for i := range media {
		media[i].Kind = kind
	}
	return media, nil
}
