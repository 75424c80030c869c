package s3

type Document struct {
	Key  string       `json:"key"`
	Data []byte       `json:"data"`
	Kind DocumentKind `json:"kind"`
}

type DocumentKind string

const (
	DocumentKindJSON DocumentKind = "json"
)

func NewJSONDocument(key string, data []byte) *Document {
	return &Document{
		Key:  key,
		Data: data,
		Kind: DocumentKindJSON,
	}
}
