package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/booklingua/booklingua/constants"
)

// File represents a stored document for data transfer between layers.
// For translated files, Content is the editorial (pass 2) output with
// highlight markers, and OriginalContent is the raw pass 1 translation.
// Language is empty for original files.
type File struct {
	ID              uuid.UUID          `json:"id"`
	OrderID         uuid.UUID          `json:"order_id"`
	Type            constants.FileType `json:"type"`
	Language        string             `json:"language,omitempty"`
	Content         string             `json:"content"`
	OriginalContent string             `json:"original_content,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}
