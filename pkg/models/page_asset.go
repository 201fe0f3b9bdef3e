package models

import (
	"encoding/json"
	"fmt"
)

// PageSize names the supported blank page formats.
type PageSize string

const (
	PageSizeA4     PageSize = "A4"
	PageSizeLetter PageSize = "Letter"
)

// Valid reports whether the size is one of the known formats.
func (p PageSize) Valid() bool {
	return p == PageSizeA4 || p == PageSizeLetter
}

const (
	assetTypeSourcePage = "sourcePage"
	assetTypeBlankPage  = "blankPage"
)

// PageAssetVisitor handles every kind of page asset. Adding a kind adds a
// method here, which breaks every consumer until it handles the new kind.
type PageAssetVisitor interface {
	VisitSourcePage(position int, ref SourcePageRef) error
	VisitBlankPage(position int, blank BlankPage) error
}

// PageAsset is one entry of a project's ordered output. The set of
// implementations is closed to this package.
type PageAsset interface {
	Accept(position int, v PageAssetVisitor) error
	assetType() string
}

// SourcePageRef points at a zero-based page of an imported source.
type SourcePageRef struct {
	SourceID      string `json:"sourceId"`
	PageIndex     int    `json:"pageIndex"`
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
}

// Accept dispatches to VisitSourcePage.
func (r SourcePageRef) Accept(position int, v PageAssetVisitor) error {
	return v.VisitSourcePage(position, r)
}

func (SourcePageRef) assetType() string { return assetTypeSourcePage }

// BlankPage is a synthetic empty page.
type BlankPage struct {
	PageSize PageSize `json:"pageSize"`
}

// Size returns the page size, A4 when unset.
func (b BlankPage) Size() PageSize {
	if b.PageSize == "" {
		return PageSizeA4
	}
	return b.PageSize
}

// Accept dispatches to VisitBlankPage.
func (b BlankPage) Accept(position int, v PageAssetVisitor) error {
	return v.VisitBlankPage(position, b)
}

func (BlankPage) assetType() string { return assetTypeBlankPage }

// PageAssets is an ordered page list; position N is output page N.
type PageAssets []PageAsset

// Walk visits every asset in order and stops at the first error.
func (a PageAssets) Walk(v PageAssetVisitor) error {
	for i, asset := range a {
		if asset == nil {
			return ValidationError{Field: fmt.Sprintf("assets[%d]", i), Reason: "missing page asset"}
		}
		if err := asset.Accept(i, v); err != nil {
			return err
		}
	}
	return nil
}

type wireAsset struct {
	Type          string   `json:"type"`
	SourceID      string   `json:"sourceId,omitempty"`
	PageIndex     *int     `json:"pageIndex,omitempty"`
	ThumbnailPath string   `json:"thumbnailPath,omitempty"`
	PageSize      PageSize `json:"pageSize,omitempty"`
}

type wireEncoder struct {
	out []wireAsset
}

func (e *wireEncoder) VisitSourcePage(_ int, ref SourcePageRef) error {
	idx := ref.PageIndex
	e.out = append(e.out, wireAsset{
		Type:          ref.assetType(),
		SourceID:      ref.SourceID,
		PageIndex:     &idx,
		ThumbnailPath: ref.ThumbnailPath,
	})
	return nil
}

func (e *wireEncoder) VisitBlankPage(_ int, blank BlankPage) error {
	e.out = append(e.out, wireAsset{Type: blank.assetType(), PageSize: blank.Size()})
	return nil
}

// MarshalJSON writes the tagged union form stored in project state.
func (a PageAssets) MarshalJSON() ([]byte, error) {
	enc := &wireEncoder{out: make([]wireAsset, 0, len(a))}
	if err := a.Walk(enc); err != nil {
		return nil, err
	}
	return json.Marshal(enc.out)
}

// UnmarshalJSON parses the tagged union form. Missing pageSize means A4.
func (a *PageAssets) UnmarshalJSON(data []byte) error {
	var wire []wireAsset
	if err := json.Unmarshal(data, &wire); err != nil {
		return ValidationError{Field: "assets", Reason: err.Error()}
	}

	out := make(PageAssets, 0, len(wire))
	for i, w := range wire {
		field := fmt.Sprintf("assets[%d]", i)
		switch w.Type {
		case assetTypeSourcePage:
			if w.PageIndex == nil {
				return ValidationError{Field: field + ".pageIndex", Reason: "required"}
			}
			out = append(out, SourcePageRef{
				SourceID:      w.SourceID,
				PageIndex:     *w.PageIndex,
				ThumbnailPath: w.ThumbnailPath,
			})
		case assetTypeBlankPage:
			size := w.PageSize
			if size == "" {
				size = PageSizeA4
			}
			out = append(out, BlankPage{PageSize: size})
		default:
			return ValidationError{Field: field + ".type", Reason: fmt.Sprintf("unknown page asset type %q", w.Type)}
		}
	}

	*a = out
	return nil
}
