package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	projectNameMinLength = 1
	projectNameMaxLength = 100
)

// ProjectState is a named, ordered page list. The list is only ever
// replaced as a whole.
type ProjectState struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	State     PageAssets `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewID returns a time-sortable UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ValidateID checks that id is a well-formed UUID.
func ValidateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ValidationError{Field: field, Reason: "must be a UUID"}
	}
	return nil
}

// ValidateProjectName enforces the 1-100 character rule.
func ValidateProjectName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < projectNameMinLength || n > projectNameMaxLength {
		return ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("must be %d-%d characters", projectNameMinLength, projectNameMaxLength),
		}
	}
	return nil
}

type assetValidator struct{}

func (assetValidator) VisitSourcePage(position int, ref SourcePageRef) error {
	if err := ValidateID(fmt.Sprintf("assets[%d].sourceId", position), ref.SourceID); err != nil {
		return err
	}
	if ref.PageIndex < 0 {
		return ValidationError{Field: fmt.Sprintf("assets[%d].pageIndex", position), Reason: "must be non-negative"}
	}
	return nil
}

func (assetValidator) VisitBlankPage(position int, blank BlankPage) error {
	if !blank.Size().Valid() {
		return ValidationError{
			Field:  fmt.Sprintf("assets[%d].pageSize", position),
			Reason: fmt.Sprintf("unsupported page size %q", blank.PageSize),
		}
	}
	return nil
}

// ValidatePageAssets checks the shape of every asset. It does not resolve
// source references; that happens at assembly time.
func ValidatePageAssets(assets PageAssets) error {
	return assets.Walk(assetValidator{})
}
