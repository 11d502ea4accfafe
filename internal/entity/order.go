package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/booklingua/booklingua/constants"
)

// Order represents a paid translation order for data transfer between layers.
// Languages is fixed at order creation and never mutated by the pipeline.
type Order struct {
	ID                  uuid.UUID             `json:"id"`
	Email               string                `json:"email"`
	AuthorName          string                `json:"author_name"`
	BookTitle           string                `json:"book_title"`
	WordCount           int                   `json:"word_count"`
	SizeTier            string                `json:"size_tier"`
	SourceFormat        string                `json:"source_format"`
	Languages           []string              `json:"languages"`
	Genre               string                `json:"genre,omitempty"`
	Addons              []string              `json:"addons,omitempty"`
	SpecialInstructions string                `json:"special_instructions,omitempty"`
	AmountPaid          int64                 `json:"amount_paid"`
	Status              constants.OrderStatus `json:"status"`
	CreatedAt           time.Time             `json:"created_at"`
	CompletedAt         *time.Time            `json:"completed_at,omitempty"`
}
