package encodingapi

import (
	"net/url"
	"strings"
)

// URLSet holds the addresses derived from an output placement. StreamingURL
// is empty when no filename is known (segmented outputs have no single
// playable file).
type URLSet struct {
	StreamingURL string `json:"streamingUrl,omitempty"`
	StorageURL   string `json:"storageUrl,omitempty"`
	ConsoleURL   string `json:"consoleUrl,omitempty"`
}

// ComputeURLs derives streaming, storage and console URLs for a file placed
// on an output. Only S3 and GCS buckets are supported; other output types
// return ok=false. Leading and trailing slashes on path are ignored.
func ComputeURLs(outputType, bucket, path, filename string) (URLSet, bool) {
	path = strings.Trim(path, "/")
	object := path
	if filename != "" {
		if object != "" {
			object += "/"
		}
		object += filename
	}

	switch outputType {
	case "S3":
		set := URLSet{
			StorageURL: "s3://" + bucket + "/" + object,
			ConsoleURL: "https://s3.console.aws.amazon.com/s3/buckets/" + bucket +
				"?prefix=" + url.QueryEscape(path+"/"),
		}
		if filename != "" {
			set.StreamingURL = "https://" + bucket + ".s3.amazonaws.com/" + object
		}
		return set, true
	case "GCS":
		set := URLSet{
			StorageURL: "gs://" + bucket + "/" + object,
			ConsoleURL: "https://console.cloud.google.com/storage/browser/" + bucket + "/" + path,
		}
		if filename != "" {
			set.StreamingURL = "https://storage.googleapis.com/" + bucket + "/" + object
		}
		return set, true
	default:
		return URLSet{}, false
	}
}
