// Package models defines server-side data models persisted in the metadata store.
package models

import "time"

// Kind is the type of a file record.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindImage  Kind = "image"
)

// Valid reports whether k is one of the accepted kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// IsFolder reports whether k is KindFolder.
func (k Kind) IsFolder() bool { return k == KindFolder }

// FileRecord describes a file or folder. The bytes of non-folder records
// live in the blob store under BlobRef.
type FileRecord struct {
	// ID is assigned by the metadata store on insert.
	ID string
	// OwnerID is the user that created the record.
	OwnerID string
	Name    string
	Kind    Kind
	// ParentID is the id of a folder record or common.RootParentID.
	ParentID string
	// IsPublic is the only field that changes after creation.
	IsPublic bool
	// BlobRef is empty for folders and set for every other kind.
	BlobRef   string
	CreatedAt time.Time
}

// ReadableBy reports whether requesterID may read the record's content.
// An empty requesterID is an anonymous caller.
func (f *FileRecord) ReadableBy(requesterID string) bool {
	return f.IsPublic || (requesterID != "" && requesterID == f.OwnerID)
}
