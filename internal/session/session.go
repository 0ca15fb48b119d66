package session

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studymate/internal/chunker"
	"studymate/internal/composer"
	"studymate/internal/embedding"
	"studymate/internal/index"
	"studymate/internal/models"
	"studymate/internal/nlp"
	"studymate/internal/retriever"
)

// Extractor turns one uploaded document into ordered pages.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) ([]models.Page, error)
}

// File is one uploaded document.
type File struct {
	Name string
	Data []byte
}

// Deps are the pipeline collaborators. Detector, Translator, and Summarizer
// are optional; the session degrades without them.
type Deps struct {
	Extractor  Extractor
	Encoder    embedding.Encoder
	Composer   *composer.Composer
	Detector   nlp.Detector
	Translator nlp.Translator
	Summarizer nlp.Summarizer
}

// Settings are the per-session pipeline options.
type Settings struct {
	ChunkSize        int
	ChunkOverlap     int
	TopK             int
	TranslateQuery   bool
	TargetLanguage   string
	SummaryMinLength int
	SummaryMaxLength int
}

// BatchReport describes the outcome of one upload batch. Failures are
// per-document; a failed document never aborts the rest of the batch.
type BatchReport struct {
	Documents  []string
	ChunkCount int
	Failures   map[string]error
}

// DocumentSummary is one document's standalone summary.
type DocumentSummary struct {
	Name    string
	Summary string
}

// Session is the pipeline state for one user: the current document corpus,
// the aligned chunk/metadata pair, the vector index over them, and the
// append-only conversation log. One Session per user session; nothing here
// is shared across sessions.
type Session struct {
	log      zerolog.Logger
	deps     Deps
	settings Settings

	documents []models.Document
	chunks    []string
	meta      []models.ChunkMeta
	idx       *index.Flat
	messages  []models.Message
}

func New(log zerolog.Logger, deps Deps, settings Settings) (*Session, error) {
	if deps.Extractor == nil {
		return nil, fmt.Errorf("session: extractor is required")
	}
	if deps.Encoder == nil {
		return nil, fmt.Errorf("session: encoder is required")
	}
	if deps.Composer == nil {
		return nil, fmt.Errorf("session: composer is required")
	}
	if settings.TopK <= 0 {
		settings.TopK = 5
	}
	if settings.TargetLanguage == "" {
		settings.TargetLanguage = "en"
	}
	s := &Session{log: log, deps: deps, settings: settings}
	s.append(models.RoleAssistant, models.WelcomeMessage, "")
	return s, nil
}

// Process ingests one upload batch, rebuilding the whole corpus: documents,
// chunks, metadata, and index are all replaced together. On an indexing
// failure the previous state is kept untouched. Per-document extraction
// failures are recorded in the report and the batch continues.
func (s *Session) Process(ctx context.Context, files []File) (*BatchReport, error) {
	// Reject invalid chunk settings before any extraction work.
	if _, err := chunker.Chunk("", s.settings.ChunkSize, s.settings.ChunkOverlap); err != nil {
		return nil, err
	}

	report := &BatchReport{Failures: make(map[string]error)}

	var (
		newDocs   []models.Document
		newChunks []string
		newMeta   []models.ChunkMeta
	)
	seen := make(map[string]bool)
	for _, f := range files {
		if seen[f.Name] {
			s.log.Warn().Str("document", f.Name).Msg("Duplicate filename in batch, skipping")
			continue
		}
		seen[f.Name] = true

		pages, err := s.deps.Extractor.Extract(ctx, f.Name, f.Data)
		if err != nil {
			s.log.Error().Err(err).Str("document", f.Name).Msg("Failed to extract text")
			report.Failures[f.Name] = err
			continue
		}

		doc := models.Document{Name: f.Name, Pages: pages}
		for _, page := range pages {
			pageChunks, err := chunker.Chunk(page.Text, s.settings.ChunkSize, s.settings.ChunkOverlap)
			if err != nil {
				return nil, err
			}
			for _, c := range pageChunks {
				newChunks = append(newChunks, c)
				newMeta = append(newMeta, models.ChunkMeta{Document: f.Name, Page: page.Number})
			}
		}
		newDocs = append(newDocs, doc)
		report.Documents = append(report.Documents, f.Name)
	}

	var vectors [][]float32
	if len(newChunks) > 0 {
		var err error
		vectors, err = s.deps.Encoder.Encode(ctx, newChunks)
		if err != nil {
			return report, &index.BuildError{Err: err}
		}
		if len(vectors) != len(newChunks) {
			return report, &index.BuildError{Err: fmt.Errorf("encoder returned %d vectors for %d chunks", len(vectors), len(newChunks))}
		}
	}
	idx, err := index.Build(vectors)
	if err != nil {
		return report, err
	}

	s.documents = newDocs
	s.chunks = newChunks
	s.meta = newMeta
	s.idx = idx
	report.ChunkCount = len(newChunks)

	s.log.Info().Int("documents", len(newDocs)).Int("chunks", len(newChunks)).Msg("Processed upload batch")
	return report, nil
}

// Ask answers one question against the current corpus and appends the
// exchange to the conversation log. Retrieval failures degrade to an empty
// context; the assistant message is always complete, never partial.
func (s *Session) Ask(ctx context.Context, query string) models.Message {
	effective := query
	if s.settings.TranslateQuery {
		translated, ok := nlp.TranslateQuery(ctx, s.deps.Detector, s.deps.Translator, query, s.settings.TargetLanguage, s.log)
		if ok {
			s.log.Info().Str("translated", translated).Msg("Translated query")
			effective = translated
		}
	}

	var results []retriever.Result
	if s.idx.Len() > 0 {
		r, err := retriever.New(s.deps.Encoder, s.idx, s.chunks, s.meta)
		if err != nil {
			s.log.Error().Err(err).Msg("Corpus state is inconsistent")
		} else {
			results, err = r.Retrieve(ctx, effective, s.settings.TopK)
			if err != nil {
				s.log.Warn().Err(err).Msg("Retrieval failed, answering without context")
				results = nil
			}
		}
	}

	answer := s.deps.Composer.Compose(ctx, effective, results)
	if answer.Backend != "" {
		s.log.Debug().Str("backend", answer.Backend).Msg("Generated answer")
	}

	s.append(models.RoleUser, query, "")
	return s.append(models.RoleAssistant, answer.Text, answer.Source)
}

// Summaries produces a standalone summary per document, independent of the
// retrieval index. Failures come back as in-band strings.
func (s *Session) Summaries(ctx context.Context) []DocumentSummary {
	summaries := make([]DocumentSummary, 0, len(s.documents))
	for _, doc := range s.documents {
		summaries = append(summaries, DocumentSummary{
			Name:    doc.Name,
			Summary: nlp.SummarizeDocument(ctx, s.deps.Summarizer, doc.Text(), s.settings.SummaryMinLength, s.settings.SummaryMaxLength),
		})
	}
	return summaries
}

// Messages returns a copy of the conversation log, oldest first.
func (s *Session) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Documents returns the names of the current corpus, upload order.
func (s *Session) Documents() []string {
	names := make([]string, len(s.documents))
	for i, d := range s.documents {
		names[i] = d.Name
	}
	return names
}

// ChunkCount reports the size of the indexed corpus.
func (s *Session) ChunkCount() int { return len(s.chunks) }

// ExportTranscript writes the conversation log as UTF-8 CSV with a
// {Role, Content, Source} header, one row per message.
func (s *Session) ExportTranscript(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Role", "Content", "Source"}); err != nil {
		return err
	}
	for _, m := range s.messages {
		if err := cw.Write([]string{m.Role, m.Content, m.Source}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Session) append(role, content, source string) models.Message {
	msg := models.Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Source:  source,
	}
	s.messages = append(s.messages, msg)
	return msg
}
