package encodingapi

import "testing"

func TestComputeURLsS3(t *testing.T) {
	set, ok := ComputeURLs("S3", "my-bucket", "/videos/", "out.mp4")
	if !ok {
		t.Fatal("S3 should be supported")
	}
	if want := "s3://my-bucket/videos/out.mp4"; set.StorageURL != want {
		t.Errorf("StorageURL = %q, want %q", set.StorageURL, want)
	}
	if want := "https://my-bucket.s3.amazonaws.com/videos/out.mp4"; set.StreamingURL != want {
		t.Errorf("StreamingURL = %q, want %q", set.StreamingURL, want)
	}
	if set.ConsoleURL == "" {
		t.Error("ConsoleURL should be set")
	}
}

func TestComputeURLsGCS(t *testing.T) {
	set, ok := ComputeURLs("GCS", "media", "encodings/abc", "index.mpd")
	if !ok {
		t.Fatal("GCS should be supported")
	}
	if want := "gs://media/encodings/abc/index.mpd"; set.StorageURL != want {
		t.Errorf("StorageURL = %q, want %q", set.StorageURL, want)
	}
	if want := "https://storage.googleapis.com/media/encodings/abc/index.mpd"; set.StreamingURL != want {
		t.Errorf("StreamingURL = %q, want %q", set.StreamingURL, want)
	}
}

func TestComputeURLsNoFilename(t *testing.T) {
	set, ok := ComputeURLs("S3", "my-bucket", "videos", "")
	if !ok {
		t.Fatal("S3 should be supported")
	}
	if set.StreamingURL != "" {
		t.Errorf("StreamingURL = %q, want empty without a filename", set.StreamingURL)
	}
	if want := "s3://my-bucket/videos"; set.StorageURL != want {
		t.Errorf("StorageURL = %q, want %q", set.StorageURL, want)
	}
}

func TestComputeURLsUnsupportedBackend(t *testing.T) {
	if _, ok := ComputeURLs("AKAMAI_NETSTORAGE", "bucket", "p", "f"); ok {
		t.Error("unsupported backends should report ok=false")
	}
}
