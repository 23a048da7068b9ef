package domain

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

const MaxMediaSize = 10 * 1024 * 1024

type UploadedMedia struct {
	URL         string    `json:"url"`
	Kind        MediaKind `json:"kind"`
	StoragePath string    `json:"storage_path"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
}
