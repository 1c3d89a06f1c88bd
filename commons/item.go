package commons

// Item is a media payload in flight through the replication pipeline.
// Data is exclusively owned by the replication task working on it.
type Item struct {
	Src      string
	FileName string
	Ext      string
	Mime     string
	Type     MediaType
	Data     []byte `json:"-"`
}
