package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/enclens/enclens/pkg/encodingapi"
	"github.com/enclens/enclens/pkg/graph"
)

const defaultWorkers = 8

// walker resolves one encoding into a graph and report. Branches run
// concurrently under a semaphore; a failing branch records a warning and
// the rest of the walk continues. Only the root encoding fetch is fatal.
type walker struct {
	client  *encodingapi.Client
	workers int

	mu               sync.Mutex
	g                *graph.Graph
	report           *Report
	drmKeys          map[string][]DrmKey
	muxingsForStream map[string][]string
	warnings         []string
	inputPaths       map[string]bool

	wg  sync.WaitGroup
	sem chan struct{}
}

func newWalker(client *encodingapi.Client, workers int) *walker {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &walker{
		client:           client,
		workers:          workers,
		g:                graph.New(),
		report:           &Report{},
		drmKeys:          make(map[string][]DrmKey),
		muxingsForStream: make(map[string][]string),
		inputPaths:       make(map[string]bool),
		sem:              make(chan struct{}, workers),
	}
}

// branch runs fn concurrently. Branches must not spawn nested branches;
// the semaphore would deadlock.
func (w *walker) branch(ctx context.Context, what string, fn func() error) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case w.sem <- struct{}{}:
			defer func() { <-w.sem }()
		case <-ctx.Done():
			w.warnf("%s: %v", what, ctx.Err())
			return
		}
		if err := fn(); err != nil {
			w.warnf("%s: %v", what, err)
		}
	}()
}

func (w *walker) warnf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}

func (w *walker) node(n graph.Node) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.g.AddNode(n)
}

func (w *walker) edge(from, to string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.g.AddEdge(from, to); err != nil {
		w.warnings = append(w.warnings, err.Error())
	}
}

func (w *walker) run(ctx context.Context, encodingID string) error {
	log.FromContext(ctx).Debug("walking encoding", "id", encodingID, "workers", w.workers)
	if err := w.walkEncoding(ctx, encodingID); err != nil {
		return err
	}
	w.walkMuxings(ctx, encodingID)
	w.walkStreams(ctx, encodingID)
	w.walkManifests(ctx, encodingID)
	w.wg.Wait()

	sort.Slice(w.report.Muxings, func(i, j int) bool {
		a, b := w.report.Muxings[i], w.report.Muxings[j]
		if a.MuxingType != b.MuxingType {
			return a.MuxingType < b.MuxingType
		}
		return a.MuxingID < b.MuxingID
	})
	sort.Slice(w.report.Streams, func(i, j int) bool {
		a, b := w.report.Streams[i], w.report.Streams[j]
		if a.Media != b.Media {
			return a.Media < b.Media
		}
		return a.Bitrate > b.Bitrate
	})
	return nil
}

func (w *walker) walkEncoding(ctx context.Context, encodingID string) error {
	enc, err := w.client.Encoding(ctx, encodingID)
	if err != nil {
		return err
	}

	row := EncodingRow{
		ID:             enc.ID,
		Name:           enc.Name,
		Status:         enc.Status,
		EncoderVersion: enc.SelectedEncoderVersion,
		CloudRegion:    enc.SelectedCloudRegion,
	}
	row.Encoding, _ = json.Marshal(enc)

	if start, err := w.client.StartRequest(ctx, encodingID); err != nil {
		w.warnf("encoding %s start request: %v", encodingID, err)
	} else {
		row.StartRequest = start.Raw
	}

	w.node(graph.Node{
		ID:       enc.ID,
		Title:    "Encoding",
		Category: encodingapi.CategoryEncoding,
	})
	w.mu.Lock()
	w.report.Encoding = row
	w.mu.Unlock()
	return nil
}

// walkMuxings fetches every muxing, its outputs and its DRM configurations.
func (w *walker) walkMuxings(ctx context.Context, encodingID string) {
	muxings, err := w.client.Muxings(ctx, encodingID)
	if err != nil {
		w.warnf("list muxings for %s: %v", encodingID, err)
		return
	}

	for _, m := range muxings {
		muxing := m
		meta, _ := encodingapi.ResolveMuxingKind(muxing.Type)

		w.node(graph.Node{
			ID:       muxing.ID,
			Title:    title(meta, muxing.Type),
			Category: encodingapi.CategoryMuxing,
			Cluster:  muxing.ID,
			Ignored:  muxing.Ignored(),
		})

		streamIDs := make([]string, 0, len(muxing.Streams))
		for _, ms := range muxing.Streams {
			streamIDs = append(streamIDs, ms.StreamID)
			w.edge(ms.StreamID, muxing.ID)
		}
		w.mu.Lock()
		for _, sid := range streamIDs {
			w.muxingsForStream[sid] = append(w.muxingsForStream[sid], muxing.ID)
		}
		w.mu.Unlock()

		w.branch(ctx, "muxing "+muxing.ID, func() error {
			return w.walkMuxing(ctx, encodingID, muxing, streamIDs)
		})
	}
}

func (w *walker) walkMuxing(ctx context.Context, encodingID string, partial encodingapi.Muxing, streamIDs []string) error {
	muxing := &partial
	if full, err := w.client.Muxing(ctx, encodingID, partial.Type, partial.ID); err != nil {
		w.warnf("muxing %s details: %v", partial.ID, err)
	} else {
		muxing = full
	}

	for _, mo := range muxing.Outputs {
		out, err := w.client.Output(ctx, mo.OutputID)
		if err != nil {
			w.warnf("output %s for muxing %s: %v", mo.OutputID, muxing.ID, err)
			continue
		}
		w.addOutputNode(out)
		w.edge(muxing.ID, out.ID)

		filename := ""
		if !muxing.Segmented() {
			filename = muxing.Filename
			if filename != "" {
				w.node(graph.Node{
					ID:       filename,
					Title:    "File",
					Category: encodingapi.CategoryOutputFile,
				})
				w.edge(muxing.ID, filename)
				w.edge(filename, out.ID)
			}
		}

		urls, _ := encodingapi.ComputeURLs(out.Type, out.BucketName, mo.OutputPath, filename)
		w.addMuxingRow(MuxingRow{
			MuxingID:   muxing.ID,
			MuxingType: muxing.Type,
			AvgBitrate: muxing.AvgBitrate,
			OutputType: out.Type,
			Host:       out.BucketName,
			Filename:   filename,
			OutputPath: mo.OutputPath,
			URLs:       urls,
			StreamIDs:  streamIDs,
			Muxing:     muxing,
		})
	}

	drms, err := w.client.MuxingDrms(ctx, encodingID, muxing.Type, muxing.ID)
	if err != nil {
		w.warnf("drms for muxing %s: %v", muxing.ID, err)
		return nil
	}
	for _, d := range drms {
		full, err := w.client.Drm(ctx, encodingID, muxing.Type, muxing.ID, d.Type, d.ID)
		if err != nil {
			w.warnf("drm %s for muxing %s: %v", d.ID, muxing.ID, err)
			continue
		}
		w.walkDrm(ctx, muxing, full, streamIDs)
	}
	return nil
}

func (w *walker) walkDrm(ctx context.Context, muxing *encodingapi.Muxing, drm *encodingapi.Drm, streamIDs []string) {
	meta, _ := encodingapi.ResolveDrmKind(drm.Type)
	w.node(graph.Node{
		ID:       drm.ID,
		Title:    title(meta, drm.Type),
		Category: encodingapi.CategoryDRM,
		Cluster:  muxing.ID,
	})
	w.edge(muxing.ID, drm.ID)
	w.addDrmKey(drm.Type, DrmKey{Key: drm.Key, Kid: drm.Kid})

	for _, do := range drm.Outputs {
		out, err := w.client.Output(ctx, do.OutputID)
		if err != nil {
			w.warnf("output %s for drm %s: %v", do.OutputID, drm.ID, err)
			continue
		}
		w.addOutputNode(out)
		w.edge(drm.ID, out.ID)

		filename := ""
		if !muxing.Segmented() {
			filename = drm.Filename
		}
		urls, _ := encodingapi.ComputeURLs(out.Type, out.BucketName, do.OutputPath, filename)
		w.addMuxingRow(MuxingRow{
			MuxingID:   muxing.ID,
			MuxingType: muxing.Type,
			DrmID:      drm.ID,
			DrmType:    drm.Type,
			AvgBitrate: muxing.AvgBitrate,
			OutputType: out.Type,
			Host:       out.BucketName,
			Filename:   filename,
			OutputPath: do.OutputPath,
			URLs:       urls,
			StreamIDs:  streamIDs,
			Muxing:     muxing,
			Drm:        drm,
		})
	}
}

// addDrmKey accumulates decryption keys by DRM scheme, deduplicated by
// (key, kid).
func (w *walker) addDrmKey(scheme string, key DrmKey) {
	if key.Key == "" && key.Kid == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.drmKeys[scheme] {
		if existing == key {
			return
		}
	}
	w.drmKeys[scheme] = append(w.drmKeys[scheme], key)
}

func (w *walker) addMuxingRow(row MuxingRow) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.report.Muxings = append(w.report.Muxings, row)
}

func (w *walker) addOutputNode(out *encodingapi.Output) {
	w.node(graph.Node{
		ID:       out.ID,
		Title:    outputTitle(out.Type),
		Label:    out.BucketName,
		Category: encodingapi.CategoryOutput,
	})
}

// walkStreams fetches every stream with its codec, filters, decorations
// and derived input chain.
func (w *walker) walkStreams(ctx context.Context, encodingID string) {
	streams, err := w.client.Streams(ctx, encodingID)
	if err != nil {
		w.warnf("list streams for %s: %v", encodingID, err)
		return
	}

	for _, s := range streams {
		stream := s
		w.branch(ctx, "stream "+stream.ID, func() error {
			return w.walkStream(ctx, encodingID, &stream)
		})
	}
}

func (w *walker) walkStream(ctx context.Context, encodingID string, stream *encodingapi.Stream) error {
	w.node(graph.Node{
		ID:       stream.ID,
		Title:    "Stream",
		Label:    stream.Mode,
		Category: encodingapi.CategoryStream,
		Mode:     stream.Mode,
		Ignored:  stream.Ignored(),
	})
	w.edge(encodingID, stream.ID)

	row := StreamRow{
		StreamID: stream.ID,
		Mode:     stream.Mode,
		Media:    encodingapi.MediaUnknown,
		Stream:   stream,
	}

	codec, err := w.client.CodecConfiguration(ctx, stream.CodecConfigID)
	if err != nil {
		w.warnf("codec config %s for stream %s: %v", stream.CodecConfigID, stream.ID, err)
	} else {
		label := StreamLabel(codec, stream)
		meta, _ := encodingapi.ResolveCodecKind(codec.Type)
		w.node(graph.Node{
			ID:       codec.ID,
			Title:    title(meta, codec.Type),
			Label:    label,
			Category: encodingapi.CategoryCodec,
		})
		w.edge(stream.ID, codec.ID)

		row.Media = codec.MediaType()
		row.Codec = codec.Type
		row.Label = label
		row.Width = codec.Width
		row.Height = codec.Height
		row.Bitrate = codec.Bitrate
		row.CodecConfig = codec
	}

	// direct file inputs
	for _, si := range stream.InputStreams {
		if si.InputPath == "" {
			continue
		}
		w.addInputFile(ctx, si.InputID, si.InputPath, stream.ID)
	}

	row.Filters = w.walkFilters(ctx, encodingID, stream.ID)
	row.Sprites = w.walkSprites(ctx, encodingID, stream.ID)
	row.Thumbnails = w.walkThumbnails(ctx, encodingID, stream.ID)

	if info, err := w.client.StreamInput(ctx, encodingID, stream.ID); err == nil {
		row.InputInfo = info
	}

	var chainPath string
	for _, si := range stream.InputStreams {
		if si.InputStreamID == "" {
			continue
		}
		node, leafPath := w.walkInputChain(ctx, encodingID, si.InputStreamID, stream.ID, 0)
		if node != nil {
			row.InputChain = append(row.InputChain, node)
		}
		if chainPath == "" {
			chainPath = leafPath
		}
	}

	w.mu.Lock()
	w.report.Streams = append(w.report.Streams, row)
	w.mu.Unlock()

	w.addInputRow(stream, chainPath, row.InputInfo)
	return nil
}

// addInputFile links an ingest bucket and its file node to a consumer.
func (w *walker) addInputFile(ctx context.Context, inputID, inputPath, consumerID string) {
	short := ShortenPath(inputPath)

	in, err := w.client.Input(ctx, inputID)
	if err != nil {
		w.warnf("input %s: %v", inputID, err)
	} else {
		w.node(graph.Node{
			ID:       in.ID,
			Title:    inputTitle(in.Type),
			Label:    in.BucketName,
			Category: encodingapi.CategoryInput,
		})
		w.edge(in.ID, short)
	}

	w.node(graph.Node{
		ID:       short,
		Title:    "File",
		Category: encodingapi.CategoryInputFile,
	})
	w.edge(short, consumerID)
}

const maxChainDepth = 32

// walkInputChain resolves a derived input stream and recurses into the
// streams it derives from. It returns the chain node and the deepest
// input path found, which names the source file on the inputs table.
func (w *walker) walkInputChain(ctx context.Context, encodingID, inputStreamID, parentID string, depth int) (*InputChainNode, string) {
	if depth >= maxChainDepth {
		w.warnf("input stream chain at %s exceeds depth %d", inputStreamID, maxChainDepth)
		return nil, ""
	}

	is, err := w.client.InputStream(ctx, encodingID, inputStreamID)
	if err != nil {
		w.warnf("input stream %s: %v", inputStreamID, err)
		return nil, ""
	}

	meta, ok := encodingapi.ResolveInputStreamKind(is.Type)
	if !ok {
		w.warnf("input stream %s: unhandled type %q", is.ID, is.Type)
	}
	w.node(graph.Node{
		ID:       is.ID,
		Title:    title(meta, is.Type),
		Category: encodingapi.CategoryInputStream,
	})
	w.edge(is.ID, parentID)

	path := ""
	if is.InputPath != "" {
		path = is.InputPath
		w.addInputFile(ctx, is.InputID, is.InputPath, is.ID)
	}

	node := &InputChainNode{InputStream: is}
	for _, childID := range is.ChildIDs() {
		child, childPath := w.walkInputChain(ctx, encodingID, childID, is.ID, depth+1)
		if child != nil {
			node.Children = append(node.Children, child)
		}
		if path == "" {
			path = childPath
		}
	}
	return node, path
}

func (w *walker) walkFilters(ctx context.Context, encodingID, streamID string) map[int]*encodingapi.Filter {
	refs, err := w.client.StreamFilters(ctx, encodingID, streamID)
	if err != nil {
		w.warnf("filters for stream %s: %v", streamID, err)
		return nil
	}
	if len(refs) == 0 {
		return nil
	}

	filters := make(map[int]*encodingapi.Filter, len(refs))
	for _, ref := range refs {
		f, err := w.client.Filter(ctx, ref.ID)
		if err != nil {
			w.warnf("filter %s: %v", ref.ID, err)
			continue
		}
		meta, _ := encodingapi.ResolveFilterKind(f.Type)
		w.node(graph.Node{
			ID:       f.ID,
			Title:    title(meta, f.Type),
			Category: encodingapi.CategoryFilter,
			Cluster:  streamID,
		})
		w.edge(streamID, f.ID)
		filters[ref.Position] = f
	}
	return filters
}

func (w *walker) walkSprites(ctx context.Context, encodingID, streamID string) []encodingapi.Sprite {
	sprites, err := w.client.Sprites(ctx, encodingID, streamID)
	if err != nil {
		w.warnf("sprites for stream %s: %v", streamID, err)
		return nil
	}
	for _, sp := range sprites {
		w.node(graph.Node{
			ID:       sp.ID,
			Title:    "Sprite",
			Label:    sp.SpriteName,
			Category: encodingapi.CategorySprite,
		})
		w.edge(streamID, sp.ID)
		w.walkDecorationOutputs(ctx, sp.ID, sp.Outputs)
	}
	return sprites
}

func (w *walker) walkThumbnails(ctx context.Context, encodingID, streamID string) []encodingapi.Thumbnail {
	thumbs, err := w.client.Thumbnails(ctx, encodingID, streamID)
	if err != nil {
		w.warnf("thumbnails for stream %s: %v", streamID, err)
		return nil
	}
	for _, th := range thumbs {
		w.node(graph.Node{
			ID:       th.ID,
			Title:    "Thumbnail",
			Label:    th.Pattern,
			Category: encodingapi.CategoryThumbnail,
		})
		w.edge(streamID, th.ID)
		w.walkDecorationOutputs(ctx, th.ID, th.Outputs)
	}
	return thumbs
}

func (w *walker) walkDecorationOutputs(ctx context.Context, ownerID string, outputs []encodingapi.EncodingOutput) {
	for _, eo := range outputs {
		out, err := w.client.Output(ctx, eo.OutputID)
		if err != nil {
			w.warnf("output %s for %s: %v", eo.OutputID, ownerID, err)
			continue
		}
		w.addOutputNode(out)
		w.edge(ownerID, out.ID)
	}
}

// addInputRow records one row per distinct source path.
func (w *walker) addInputRow(stream *encodingapi.Stream, chainPath string, info *encodingapi.StreamInputDetails) {
	path := chainPath
	if len(stream.InputStreams) > 0 && stream.InputStreams[0].InputPath != "" {
		path = stream.InputStreams[0].InputPath
	}
	if path == "" {
		path = "n/a"
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inputPaths[path] {
		return
	}
	w.inputPaths[path] = true

	row := InputRow{Path: path, Details: info}
	if info != nil {
		row.Duration = info.Duration
		row.Bitrate = info.Bitrate
		row.VideoStreams = len(info.VideoStreams)
		row.AudioStreams = len(info.AudioStreams)
	}
	w.report.Inputs = append(w.report.Inputs, row)
}

// walkManifests resolves the manifests of every kind referencing the
// encoding.
func (w *walker) walkManifests(ctx context.Context, encodingID string) {
	for _, kind := range []string{"DASH", "HLS", "SMOOTH"} {
		manifests, err := w.client.Manifests(ctx, kind, encodingID)
		if err != nil {
			w.warnf("list %s manifests for %s: %v", kind, encodingID, err)
			continue
		}
		for _, m := range manifests {
			manifest := m
			w.branch(ctx, "manifest "+manifest.ID, func() error {
				return w.walkManifest(ctx, encodingID, &manifest)
			})
		}
	}
}

func (w *walker) walkManifest(ctx context.Context, encodingID string, manifest *encodingapi.Manifest) error {
	meta, _ := encodingapi.ResolveManifestKind(manifest.Type)
	w.node(graph.Node{
		ID:       manifest.ID,
		Title:    title(meta, manifest.Type),
		Label:    manifest.FileName(),
		Category: encodingapi.CategoryManifest,
	})
	w.edge(manifest.ID, encodingID)

	var tree *ManifestNode
	switch manifest.Type {
	case "DASH":
		tree = w.dashTree(ctx, manifest, meta.Object)
	case "HLS":
		tree = w.hlsTree(ctx, manifest, meta.Object)
	}

	for _, mo := range manifest.Outputs {
		out, err := w.client.Output(ctx, mo.OutputID)
		if err != nil {
			w.warnf("output %s for manifest %s: %v", mo.OutputID, manifest.ID, err)
			continue
		}
		w.addOutputNode(out)
		w.edge(manifest.ID, out.ID)

		urls, _ := encodingapi.ComputeURLs(out.Type, out.BucketName, mo.OutputPath, manifest.FileName())
		w.mu.Lock()
		w.report.Manifests = append(w.report.Manifests, ManifestRow{
			ManifestID: manifest.ID,
			Type:       manifest.Type,
			OutputType: out.Type,
			Host:       out.BucketName,
			URLs:       urls,
			Manifest:   manifest,
			Tree:       tree,
		})
		w.mu.Unlock()
	}
	return nil
}

func (w *walker) dashTree(ctx context.Context, manifest *encodingapi.Manifest, typeName string) *ManifestNode {
	root := &ManifestNode{Type: typeName, Payload: manifest}

	periods, err := w.client.DashPeriods(ctx, manifest.ID)
	if err != nil {
		w.warnf("periods for manifest %s: %v", manifest.ID, err)
		return root
	}
	for _, p := range periods {
		periodNode := &ManifestNode{Type: "Period", Payload: p}
		root.Children = append(root.Children, periodNode)

		for _, media := range encodingapi.AdaptationSetKinds {
			sets, err := w.client.DashAdaptationSets(ctx, manifest.ID, p.ID, media)
			if err != nil {
				w.warnf("%s adaptation sets for period %s: %v", media, p.ID, err)
				continue
			}
			for _, set := range sets {
				setNode := &ManifestNode{Type: media + " AdaptationSet", Payload: set}
				periodNode.Children = append(periodNode.Children, setNode)

				for _, kind := range encodingapi.RepresentationKinds {
					reps, err := w.client.DashRepresentations(ctx, manifest.ID, p.ID, set.ID, kind)
					if err != nil {
						continue
					}
					for _, rep := range reps {
						setNode.Children = append(setNode.Children, &ManifestNode{
							Type:    kind + " Representation",
							Payload: rep,
						})
					}
				}
				if drmReps, err := w.client.DashDrmRepresentations(ctx, manifest.ID, p.ID, set.ID); err == nil {
					for _, rep := range drmReps {
						setNode.Children = append(setNode.Children, &ManifestNode{
							Type:    rep.Kind + " Representation",
							Payload: rep,
						})
					}
				}
				if protections, err := w.client.DashContentProtections(ctx, manifest.ID, p.ID, set.ID); err == nil {
					for _, cp := range protections {
						setNode.Children = append(setNode.Children, &ManifestNode{
							Type:    "ContentProtection",
							Payload: cp,
						})
					}
				}
			}
		}
	}
	return root
}

func (w *walker) hlsTree(ctx context.Context, manifest *encodingapi.Manifest, typeName string) *ManifestNode {
	root := &ManifestNode{Type: typeName, Payload: manifest}

	streams, err := w.client.HlsStreams(ctx, manifest.ID)
	if err != nil {
		w.warnf("streams for hls manifest %s: %v", manifest.ID, err)
	}
	for _, s := range streams {
		root.Children = append(root.Children, &ManifestNode{Type: "StreamInfo", Payload: s})
	}

	for _, kind := range encodingapi.HlsMediaKinds {
		media, err := w.client.HlsMedia(ctx, manifest.ID, kind)
		if err != nil {
			continue
		}
		for _, m := range media {
			root.Children = append(root.Children, &ManifestNode{Type: kind + " MediaInfo", Payload: m})
		}
	}
	return root
}

// title picks the display name of a typed resource, falling back to the
// raw discriminator for unrecognized kinds.
func title(meta encodingapi.KindMeta, raw string) string {
	if meta.Object != "" {
		return meta.Object
	}
	if raw != "" {
		return raw
	}
	return encodingapi.Unknown
}

func outputTitle(kind string) string {
	meta, _ := encodingapi.ResolveOutputKind(kind)
	return title(meta, kind)
}

func inputTitle(kind string) string {
	meta, _ := encodingapi.ResolveInputKind(kind)
	return title(meta, kind)
}
