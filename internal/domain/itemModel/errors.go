package itemModel

import "fmt"

// Error taxonomy. Every failure local to one item wraps one of these so callers
// can recover per item and keep processing the rest of the collection.

type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %q: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("image decode failed for %q: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type CaptioningError struct {
	ItemId string
	Err    error
}

func (e *CaptioningError) Error() string {
	return fmt.Sprintf("captioning failed for item %s: %v", e.ItemId, e.Err)
}

func (e *CaptioningError) Unwrap() error { return e.Err }

type InvalidDimensionsError struct {
	Width  int
	Height int
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("invalid resize dimensions %dx%d", e.Width, e.Height)
}

type LayoutError struct {
	ItemId string
	Err    error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout failed for item %s: %v", e.ItemId, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("pdf export failed: %v", e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
