package encodingapi

// The remote API is polymorphic: muxings, outputs, DRM configs, codec
// configurations, filters and input streams are all reachable through
// type-discriminated sub-endpoints. The tables below map each discriminator
// the API can return to its endpoint slug and display metadata. Anything not
// in a table resolves to the Unknown sentinel of its family; callers report
// that and keep going.

// Category classifies a graph node into the fixed display taxonomy.
type Category string

// Node categories.
const (
	CategoryEncoding    Category = "encoding"
	CategoryStream      Category = "stream"
	CategoryCodec       Category = "codec"
	CategoryInput       Category = "input"
	CategoryInputStream Category = "inputstream"
	CategoryFilter      Category = "filter"
	CategoryMuxing      Category = "muxing"
	CategoryOutput      Category = "output"
	CategoryDRM         Category = "drm"
	CategoryManifest    Category = "manifest"
	CategorySprite      Category = "sprite"
	CategoryThumbnail   Category = "thumbnail"
	CategoryInputFile   Category = "inputfile"
	CategoryOutputFile  Category = "outputfile"
)

// Unknown is the sentinel discriminator for unrecognized subtypes.
const Unknown = "UNKNOWN"

// MediaType distinguishes audio from video codec configurations.
type MediaType string

// Media types.
const (
	MediaAudio   MediaType = "audio"
	MediaVideo   MediaType = "video"
	MediaUnknown MediaType = "unknown"
)

// kindInfo is one row of a discriminator table.
type kindInfo struct {
	object    string    // API object name (e.g. "Fmp4Muxing")
	slug      string    // endpoint path segment (e.g. "fmp4")
	media     MediaType // codec configurations only
	segmented bool      // muxings only
}

// muxingKinds maps muxing discriminators to their endpoint metadata.
// Segmented muxings produce chunked output with no single playable file.
var muxingKinds = map[string]kindInfo{
	"FMP4":             {object: "Fmp4Muxing", slug: "fmp4", segmented: true},
	"TS":               {object: "TsMuxing", slug: "ts", segmented: true},
	"WEBM":             {object: "WebmMuxing", slug: "webm", segmented: true},
	"CMAF":             {object: "CmafMuxing", slug: "cmaf", segmented: true},
	"MP4":              {object: "Mp4Muxing", slug: "mp4"},
	"PROGRESSIVE_TS":   {object: "ProgressiveTsMuxing", slug: "progressiveTs"},
	"PROGRESSIVE_WEBM": {object: "ProgressiveWebmMuxing", slug: "progressiveWebm"},
}

// outputKinds maps output discriminators. The two storage backends with URL
// computation support are S3 and GCS; others still resolve for fetching.
var outputKinds = map[string]kindInfo{
	"S3":                {object: "S3Output", slug: "s3"},
	"GCS":               {object: "GcsOutput", slug: "gcs"},
	"AKAMAI_NETSTORAGE": {object: "AkamaiNetStorageOutput", slug: "akamaiNetstorage"},
	"AZURE":             {object: "AzureOutput", slug: "azure"},
}

// inputKinds maps input discriminators.
var inputKinds = map[string]kindInfo{
	"S3":            {object: "S3Input", slug: "s3"},
	"S3_ROLE_BASED": {object: "S3RoleBasedInput", slug: "s3-role-based"},
	"GCS":           {object: "GcsInput", slug: "gcs"},
	"HTTP":          {object: "HttpInput", slug: "http"},
	"HTTPS":         {object: "HttpsInput", slug: "https"},
	"FTP":           {object: "FtpInput", slug: "ftp"},
	"SFTP":          {object: "SftpInput", slug: "sftp"},
	"AZURE":         {object: "AzureInput", slug: "azure"},
}

// drmKinds maps DRM discriminators. Unlike muxing slugs, DRM and codec
// slugs are fully lowercased ("ClearKeyDrm" serves under clearkey).
var drmKinds = map[string]kindInfo{
	"CENC":      {object: "CencDrm", slug: "cenc"},
	"AES":       {object: "AesEncryptionDrm", slug: "aes"},
	"CLEARKEY":  {object: "ClearKeyDrm", slug: "clearkey"},
	"FAIRPLAY":  {object: "FairPlayDrm", slug: "fairplay"},
	"WIDEVINE":  {object: "WidevineDrm", slug: "widevine"},
	"PLAYREADY": {object: "PlayReadyDrm", slug: "playready"},
	"PRIMETIME": {object: "PrimeTimeDrm", slug: "primetime"},
}

// codecKinds maps codec configuration discriminators.
var codecKinds = map[string]kindInfo{
	"H264":      {object: "H264VideoConfiguration", slug: "h264", media: MediaVideo},
	"H265":      {object: "H265VideoConfiguration", slug: "h265", media: MediaVideo},
	"VP9":       {object: "Vp9VideoConfiguration", slug: "vp9", media: MediaVideo},
	"AV1":       {object: "Av1VideoConfiguration", slug: "av1", media: MediaVideo},
	"MPEG2":     {object: "Mpeg2VideoConfiguration", slug: "mpeg2", media: MediaVideo},
	"AAC":       {object: "AacAudioConfiguration", slug: "aac", media: MediaAudio},
	"HE_AAC_V1": {object: "HeAacV1AudioConfiguration", slug: "heaacv1", media: MediaAudio},
	"HE_AAC_V2": {object: "HeAacV2AudioConfiguration", slug: "heaacv2", media: MediaAudio},
	"AC3":       {object: "Ac3AudioConfiguration", slug: "ac3", media: MediaAudio},
	"EAC3":      {object: "Eac3AudioConfiguration", slug: "eac3", media: MediaAudio},
	"OPUS":      {object: "OpusAudioConfiguration", slug: "opus", media: MediaAudio},
	"VORBIS":    {object: "VorbisAudioConfiguration", slug: "vorbis", media: MediaAudio},
	"MP2":       {object: "Mp2AudioConfiguration", slug: "mp2", media: MediaAudio},
	"MP3":       {object: "Mp3AudioConfiguration", slug: "mp3", media: MediaAudio},
}

// filterKinds maps filter discriminators.
var filterKinds = map[string]kindInfo{
	"CROP":           {object: "CropFilter", slug: "crop"},
	"DEINTERLACE":    {object: "DeinterlaceFilter", slug: "deinterlace"},
	"ROTATE":         {object: "RotateFilter", slug: "rotate"},
	"WATERMARK":      {object: "WatermarkFilter", slug: "watermark"},
	"DENOISE_HQDN3D": {object: "DenoiseHqdn3dFilter", slug: "denoiseHqdn3d"},
	"TEXT":           {object: "TextFilter", slug: "text"},
	"UNSHARP":        {object: "UnsharpFilter", slug: "unsharp"},
	"AUDIO_VOLUME":   {object: "AudioVolumeFilter", slug: "audioVolume"},
}

// inputStreamKinds is the closed set of input-stream variants. Child
// resolution walks the variant-specific reference fields; see
// InputStream.ChildIDs.
var inputStreamKinds = map[string]kindInfo{
	"INGEST":                   {object: "IngestInputStream", slug: "ingest"},
	"CONCATENATION":            {object: "ConcatenationInputStream", slug: "concatenation"},
	"TRIMMING_TIME_BASED":      {object: "TimeBasedTrimmingInputStream", slug: "trimming/timeBased"},
	"TRIMMING_TIME_CODE_TRACK": {object: "TimecodeTrackTrimmingInputStream", slug: "trimming/timecodeTrack"},
	"AUDIO_MIX":                {object: "AudioMixInputStream", slug: "audioMix"},
	"FILE":                     {object: "FileInputStream", slug: "file"},
}

// manifestKinds maps manifest discriminators. Smooth manifests resolve but
// their tree is not expanded.
var manifestKinds = map[string]kindInfo{
	"DASH":   {object: "DashManifest", slug: "dash"},
	"HLS":    {object: "HlsManifest", slug: "hls"},
	"SMOOTH": {object: "SmoothStreamingManifest", slug: "smooth"},
}

// KindMeta is the resolved metadata for a discriminator.
type KindMeta struct {
	Kind      string    // canonical discriminator, Unknown if unresolved
	Object    string    // API object name for display
	Slug      string    // endpoint path segment, empty if unresolved
	Media     MediaType // audio/video for codec kinds
	Segmented bool      // muxing kinds only
}

func resolve(table map[string]kindInfo, kind string) (KindMeta, bool) {
	info, ok := table[kind]
	if !ok {
		return KindMeta{Kind: Unknown, Media: MediaUnknown}, false
	}
	media := info.media
	if media == "" {
		media = MediaUnknown
	}
	return KindMeta{
		Kind:      kind,
		Object:    info.object,
		Slug:      info.slug,
		Media:     media,
		Segmented: info.segmented,
	}, true
}

// ResolveMuxingKind resolves a muxing discriminator.
// The second return value is false for unrecognized kinds.
func ResolveMuxingKind(kind string) (KindMeta, bool) { return resolve(muxingKinds, kind) }

// ResolveOutputKind resolves an output discriminator.
func ResolveOutputKind(kind string) (KindMeta, bool) { return resolve(outputKinds, kind) }

// ResolveInputKind resolves an input discriminator.
func ResolveInputKind(kind string) (KindMeta, bool) { return resolve(inputKinds, kind) }

// ResolveDrmKind resolves a DRM discriminator.
func ResolveDrmKind(kind string) (KindMeta, bool) { return resolve(drmKinds, kind) }

// ResolveCodecKind resolves a codec configuration discriminator.
func ResolveCodecKind(kind string) (KindMeta, bool) { return resolve(codecKinds, kind) }

// ResolveFilterKind resolves a filter discriminator.
func ResolveFilterKind(kind string) (KindMeta, bool) { return resolve(filterKinds, kind) }

// ResolveInputStreamKind resolves an input-stream discriminator.
func ResolveInputStreamKind(kind string) (KindMeta, bool) {
	return resolve(inputStreamKinds, kind)
}

// ResolveManifestKind resolves a manifest discriminator.
func ResolveManifestKind(kind string) (KindMeta, bool) { return resolve(manifestKinds, kind) }

// IsSegmentedMuxing reports whether the muxing kind produces segmented
// output. Unknown kinds report false.
func IsSegmentedMuxing(kind string) bool {
	meta, _ := ResolveMuxingKind(kind)
	return meta.Segmented
}

// CodecMediaType returns the media type for a codec discriminator, or
// MediaUnknown for unrecognized kinds.
func CodecMediaType(kind string) MediaType {
	meta, _ := ResolveCodecKind(kind)
	return meta.Media
}
