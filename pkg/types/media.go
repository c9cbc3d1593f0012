package types

import "time"

// UploadedMedia describes an object placed in the storage bucket. The record
// lives as long as the incident or payment that references it.
type UploadedMedia struct {
	ID        string    `db:"id" json:"id"`
	URL       string    `db:"url" json:"url"`
	Path      string    `db:"path" json:"path"`
	Filename  string    `db:"filename" json:"filename"`
	Size      int64     `db:"size" json:"size"`
	MimeType  string    `db:"mime_type" json:"mimeType"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
