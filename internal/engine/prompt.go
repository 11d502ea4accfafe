package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/booklingua/booklingua/internal/highlight"
)

// EditorialSourceLimit bounds how much of the source manuscript the
// editorial prompt carries, to respect request-size limits. The full draft
// is always included; only the reference source is truncated.
const EditorialSourceLimit = 30000

// TranslationPrompt is the pass-1 request: source text to raw translation.
type TranslationPrompt struct {
	SourceText          string
	LanguageName        string
	LanguageStyle       string
	Genre               string
	BookTitle           string
	AuthorName          string
	SpecialInstructions string
}

func (p TranslationPrompt) Render() string {
	genre := p.Genre
	if genre == "" {
		genre = "general"
	}
	var b strings.Builder
	b.WriteString("You are a professional literary translator specializing in ")
	b.WriteString(genre)
	b.WriteString(" books.\n\nTranslate the following book into ")
	b.WriteString(p.LanguageName)
	b.WriteString(".\n\nLANGUAGE SETTINGS:\n")
	b.WriteString(p.LanguageStyle)
	b.WriteString("\n\nCRITICAL FORMATTING RULES:\n")
	b.WriteString("- Preserve ALL original formatting exactly: paragraph breaks, chapter headings, line breaks\n")
	b.WriteString("- Keep the same structure: if original has a blank line, keep the blank line\n")
	b.WriteString("- Maintain any special formatting markers or symbols\n")
	b.WriteString("- Keep chapter numbers/titles in the same position\n")
	b.WriteString("- Preserve any indentation patterns\n")
	b.WriteString("- If there are bullet points or numbered lists, keep them formatted the same way\n")
	b.WriteString("\nTRANSLATION GUIDELINES:\n")
	b.WriteString("- Preserve the author's unique voice and writing style\n")
	b.WriteString("- Keep proper nouns and names consistent throughout\n")
	b.WriteString("- Handle technical terms accurately - keep specialized terminology where appropriate\n")
	b.WriteString("- Ensure the translation reads naturally to native ")
	b.WriteString(p.LanguageName)
	b.WriteString(" speakers\n")
	b.WriteString("- Adapt idioms and expressions to equivalent ones in ")
	b.WriteString(p.LanguageName)
	b.WriteString("\n- Maintain the same tone (formal/informal) as the original\n")
	b.WriteString("\nBOOK TITLE: ")
	b.WriteString(p.BookTitle)
	b.WriteString("\nAUTHOR: ")
	b.WriteString(p.AuthorName)
	b.WriteString("\nGENRE: ")
	b.WriteString(genre)
	b.WriteString("\n\n")
	if p.SpecialInstructions != "" {
		b.WriteString("AUTHOR'S SPECIAL INSTRUCTIONS:\n")
		b.WriteString(p.SpecialInstructions)
		b.WriteString("\n\n")
	}
	b.WriteString("TEXT TO TRANSLATE:\n")
	b.WriteString(p.SourceText)
	b.WriteString("\n\nProvide ONLY the translation, preserving all formatting. No explanations or notes.")
	return b.String()
}

// EditorialPrompt is the pass-2 request: review the draft against the source
// and mark every change with the highlight grammar.
type EditorialPrompt struct {
	SourceText    string
	DraftText     string
	LanguageName  string
	LanguageStyle string
	Genre         string
}

func (p EditorialPrompt) Render() string {
	genre := p.Genre
	if genre == "" {
		genre = "general"
	}
	source := p.SourceText
	if len(source) > EditorialSourceLimit {
		// Back up to a rune boundary so the cut never splits a multi-byte
		// character.
		n := EditorialSourceLimit
		for n > 0 && !utf8.RuneStart(source[n]) {
			n--
		}
		source = source[:n]
	}
	var b strings.Builder
	b.WriteString("You are a senior ")
	b.WriteString(p.LanguageName)
	b.WriteString(" editor specializing in ")
	b.WriteString(genre)
	b.WriteString(" books.\n\nTASK: Review this translation and improve it for natural flow, cultural accuracy, and readability.\n\n")
	b.WriteString("FIRST, analyze the tone and style of the original English text:\n")
	b.WriteString("- Is it formal or casual?\n")
	b.WriteString("- Is it literary or conversational?\n")
	b.WriteString("- What is the author's unique voice?\n")
	b.WriteString("Then ensure your edits maintain that same tone and voice.\n\n")
	b.WriteString("LANGUAGE SETTINGS:\n")
	b.WriteString(p.LanguageStyle)
	b.WriteString("\n\nORIGINAL ENGLISH (for reference):\n")
	b.WriteString(source)
	b.WriteString("\n\nTRANSLATION TO REVIEW AND IMPROVE:\n")
	b.WriteString(p.DraftText)
	b.WriteString("\n\nEDITING INSTRUCTIONS:\n")
	b.WriteString("1. Improve phrases that sound awkward or unnatural in ")
	b.WriteString(p.LanguageName)
	b.WriteString("\n2. Fix any grammatical issues\n")
	b.WriteString("3. Adapt cultural references appropriately for ")
	b.WriteString(p.LanguageName)
	b.WriteString(" readers\n")
	b.WriteString("4. Ensure consistency in terminology throughout\n")
	b.WriteString("5. Maintain the author's voice and tone\n\n")
	b.WriteString("CRITICAL - HIGHLIGHTING FORMAT:\n")
	b.WriteString("When you make an improvement, show what the ORIGINAL translation said (before your edit) using this format:\n")
	b.WriteString(highlight.MarkerStart)
	b.WriteString("original phrase")
	b.WriteString(highlight.MarkerEnd)
	b.WriteString("improved phrase\n\n")
	b.WriteString("This way the author sees:\n")
	b.WriteString("- Yellow highlighted text = what the first translation said\n")
	b.WriteString("- Clean text after it = your improved version (what will be published)\n\n")
	b.WriteString("Example:\n")
	b.WriteString(highlight.MarkerStart)
	b.WriteString("El hombre caminó rápido")
	b.WriteString(highlight.MarkerEnd)
	b.WriteString("El hombre avanzó con paso veloz\n\n")
	b.WriteString("Only highlight phrases you actually changed. Do not highlight text you kept the same.\n\n")
	b.WriteString("PRESERVE ALL FORMATTING from the translation (paragraph breaks, chapters, etc.)\n\n")
	b.WriteString("Respond with the full improved translation with highlights showing original phrases that were changed.")
	return b.String()
}
