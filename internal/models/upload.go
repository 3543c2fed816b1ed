package models

import (
	"io"
	"time"
)

// ObjectInput is one file handed to object storage.
type ObjectInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredObject is the result of a successful upload; PublicURL is stored verbatim on assets.
type StoredObject struct {
	FileKey   string `json:"fileKey"`
	PublicURL string `json:"publicUrl"`
}

type PresignedUpload struct {
	FileKey   string    `json:"fileKey"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
