package models

// Document is one uploaded PDF after extraction, keyed by its original
// filename within a session.
type Document struct {
	Name  string
	Pages []Page
}

// Page holds the extracted text of a single page. Text may be empty when
// both the text layer and the OCR fallback yielded nothing.
type Page struct {
	Number int
	Text   string
}

// ChunkMeta is the provenance of one chunk. The session keeps chunk texts
// and metadata in two parallel slices that must stay index-aligned.
type ChunkMeta struct {
	Document string
	Page     int
}

// Text concatenates all pages of a document, page order preserved.
func (d Document) Text() string {
	var out string
	for i, p := range d.Pages {
		if i > 0 {
			out += " "
		}
		out += p.Text
	}
	return out
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the append-only conversation log.
type Message struct {
	ID      string
	Role    string
	Content string
	Source  string
}
