package constants

// FileType distinguishes rows in files.
type FileType string

const (
	FileTypeOriginal   FileType = "original"   // the uploaded manuscript text
	FileTypeTranslated FileType = "translated" // per-language pipeline output
)
