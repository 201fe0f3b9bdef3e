// Package assembler builds one output document from an ordered page list.
package assembler

import (
	"context"
	"errors"
	"fmt"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
	"pagevault/pkg/pdf"
	"pagevault/pkg/records"
)

// SourceResolver looks up source records by id.
type SourceResolver interface {
	GetSource(ctx context.Context, id string) (*models.SourceDocument, error)
}

// DocumentReader loads stored source bytes.
type DocumentReader interface {
	ReadDocument(ctx context.Context, path string) ([]byte, error)
}

// AssetResolutionError reports a page asset that cannot be satisfied.
type AssetResolutionError struct {
	Position  int
	SourceID  string
	PageIndex int
	Reason    string
}

func (e AssetResolutionError) Error() string {
	return fmt.Sprintf("page asset %d (source %s, page %d): %s", e.Position, e.SourceID, e.PageIndex, e.Reason)
}

// Result is an assembled document held in memory.
type Result struct {
	Name      string
	Data      []byte
	PageCount int
}

// Assembler resolves page references and concatenates the pages.
type Assembler struct {
	sources SourceResolver
	reader  DocumentReader
}

// New creates an Assembler.
func New(sources SourceResolver, reader DocumentReader) *Assembler {
	return &Assembler{sources: sources, reader: reader}
}

// Assemble produces a document whose page N is assets[N]. Nothing is
// written anywhere; any failure returns no bytes at all.
func (a *Assembler) Assemble(ctx context.Context, assets models.PageAssets, outputName string) (*Result, error) {
	resolve := &resolver{ctx: ctx, sources: a.sources, docs: make(map[string]*models.SourceDocument)}
	if err := assets.Walk(resolve); err != nil {
		return nil, err
	}

	opened, err := a.open(ctx, resolve)
	if err != nil {
		return nil, err
	}

	build := &builder{ctx: ctx, opened: opened, parts: make([][]byte, 0, len(assets))}
	if err := assets.Walk(build); err != nil {
		return nil, err
	}

	data, err := pdf.Merge(build.parts)
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", outputName, err)
	}

	log.Info().Str("output", outputName).Int("pages", len(assets)).Int("sources", len(opened)).Msg("Document assembled")
	return &Result{Name: outputName, Data: data, PageCount: len(assets)}, nil
}

type openedSource struct {
	data      []byte
	pageCount int
}

// open reads each distinct source once and checks every reference against
// the real page count, not only the stored one.
func (a *Assembler) open(ctx context.Context, resolve *resolver) (map[string]openedSource, error) {
	opened := make(map[string]openedSource, len(resolve.docs))
	for id, doc := range resolve.docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := a.reader.ReadDocument(ctx, doc.InternalPath)
		if err != nil {
			return nil, err
		}
		count, err := pdf.PageCountBytes(data)
		if err != nil {
			return nil, fmt.Errorf("open source %s: %w", id, err)
		}
		if count != doc.PageCount {
			log.Warn().Str("source_id", id).Int("recorded", doc.PageCount).Int("actual", count).Msg("Source page count drifted")
		}
		opened[id] = openedSource{data: data, pageCount: count}
	}

	for _, ref := range resolve.refs {
		if ref.PageIndex >= opened[ref.SourceID].pageCount {
			return nil, AssetResolutionError{
				Position:  ref.position,
				SourceID:  ref.SourceID,
				PageIndex: ref.PageIndex,
				Reason:    fmt.Sprintf("document has only %d pages", opened[ref.SourceID].pageCount),
			}
		}
	}
	return opened, nil
}

type positionedRef struct {
	models.SourcePageRef
	position int
}

// resolver checks every reference against the record store.
type resolver struct {
	ctx     context.Context
	sources SourceResolver
	docs    map[string]*models.SourceDocument
	refs    []positionedRef
}

func (r *resolver) VisitSourcePage(position int, ref models.SourcePageRef) error {
	doc, ok := r.docs[ref.SourceID]
	if !ok {
		var err error
		doc, err = r.sources.GetSource(r.ctx, ref.SourceID)
		if errors.Is(err, records.ErrSourceNotFound) {
			return AssetResolutionError{Position: position, SourceID: ref.SourceID, PageIndex: ref.PageIndex, Reason: "unknown source"}
		}
		if err != nil {
			return err
		}
		r.docs[ref.SourceID] = doc
	}

	if ref.PageIndex < 0 || ref.PageIndex >= doc.PageCount {
		return AssetResolutionError{
			Position:  position,
			SourceID:  ref.SourceID,
			PageIndex: ref.PageIndex,
			Reason:    fmt.Sprintf("page index out of range for %d pages", doc.PageCount),
		}
	}

	r.refs = append(r.refs, positionedRef{SourcePageRef: ref, position: position})
	return nil
}

func (r *resolver) VisitBlankPage(int, models.BlankPage) error {
	return nil
}

// builder produces one single-page part per asset, in order.
type builder struct {
	ctx    context.Context
	opened map[string]openedSource
	parts  [][]byte
}

func (b *builder) VisitSourcePage(_ int, ref models.SourcePageRef) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}
	src := b.opened[ref.SourceID]
	page, err := pdf.ExtractPage(src.data, ref.PageIndex, src.pageCount)
	if err != nil {
		return fmt.Errorf("copy page %d of %s: %w", ref.PageIndex, ref.SourceID, err)
	}
	b.parts = append(b.parts, page)
	return nil
}

func (b *builder) VisitBlankPage(_ int, blank models.BlankPage) error {
	b.parts = append(b.parts, pdf.Blank(blank.Size()))
	return nil
}
