package commons

type MediaType string

const (
	IMG_TYPE MediaType = "img"
	VID_TYPE MediaType = "vid"
)

var (
	IMG_SUFFIX = []string{".jpg", ".jpeg", ".png", ".gif"}
	VID_SUFFIX = []string{".mp4"}
)

// ReplicatedItem records where one media item landed after replication.
// ObjectStoreURL is empty when the object-store write failed; the folder
// copy is always present.
type ReplicatedItem struct {
	FolderItemID   string `json:"folder_item_id"`
	ObjectStoreURL string `json:"object_store_url,omitempty"`
	FileName       string `json:"file_name"`
	MimeType       string `json:"mime_type"`
	SrcLink        string `json:"src_link,omitempty"`
}

// Manifest is the result of a fully successful batch. It is never
// partially populated: item count equals input source count, in input
// order.
type Manifest struct {
	FolderID string           `json:"folder_id"`
	Items    []ReplicatedItem `json:"items"`
}
