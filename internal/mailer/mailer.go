package mailer

import "context"

// DownloadLink points a customer at one language's translated file.
type DownloadLink struct {
	Language string
	URL      string
}

// Completion is the customer-facing "your translations are ready" email.
type Completion struct {
	To         string
	AuthorName string
	BookTitle  string
	Links      []DownloadLink
}

// OperatorSummary is the internal completion notification.
type OperatorSummary struct {
	To         string
	OrderID    string
	AuthorName string
	Email      string
	BookTitle  string
	Languages  []string
	Status     string
}

// Notifier delivers transactional email. Fire-and-forget from the caller's
// perspective; failures surface as errors so the step retry budget applies.
type Notifier interface {
	SendCompletion(ctx context.Context, msg Completion) error
	SendOperatorSummary(ctx context.Context, msg OperatorSummary) error
}
