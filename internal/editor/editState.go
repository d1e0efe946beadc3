package editor

type AspectRatio string

const (
	AspectOriginal AspectRatio = "original"
	AspectSquare   AspectRatio = "1:1"
	Aspect4x3      AspectRatio = "4:3"
	Aspect16x9     AspectRatio = "16:9"
)

// Resize is an explicit pixel target. Absent (nil on EditState) means the crop
// box dimensions are kept as-is.
type Resize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// EditState is the full parameter set of one edit pass. 100 is identity for the
// percentage filters, 0 for sepia/grayscale/blur. Rotation accumulates in 90
// degree steps and is only reduced mod 360 when applied.
type EditState struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Sepia      float64 `json:"sepia"`
	Grayscale  float64 `json:"grayscale"`
	Blur       float64 `json:"blur"`

	Rotation int  `json:"rotation"`
	FlipH    bool `json:"flipH"`
	FlipV    bool `json:"flipV"`

	AspectRatio AspectRatio `json:"aspectRatio"`

	Resize *Resize `json:"resize,omitempty"`
}

func DefaultEditState() EditState {
	return EditState{
		Brightness:  100,
		Contrast:    100,
		Saturation:  100,
		AspectRatio: AspectOriginal,
	}
}

func (s EditState) hasColorWork() bool {
	return s.Brightness != 100 || s.Contrast != 100 || s.Saturation != 100 ||
		s.Sepia != 0 || s.Grayscale != 0
}

// targetRatio returns the crop ratio as width/height, or 0 for "original".
func (s EditState) targetRatio() float64 {
	switch s.AspectRatio {
	case AspectSquare:
		return 1
	case Aspect4x3:
		return 4.0 / 3.0
	case Aspect16x9:
		return 16.0 / 9.0
	default:
		return 0
	}
}

// ApplyAspectLock recomputes the non-driving resize dimension from the original
// unrotated image ratio. The reference ratio deliberately ignores any active
// crop ratio; the on-screen crop box and the locked resize target can disagree.
func ApplyAspectLock(origWidth, origHeight int, r Resize, driver string) Resize {
	if origWidth <= 0 || origHeight <= 0 {
		return r
	}
	ratio := float64(origWidth) / float64(origHeight)
	if driver == "height" {
		r.Width = int(float64(r.Height)*ratio + 0.5)
	} else {
		r.Height = int(float64(r.Width)/ratio + 0.5)
	}
	return r
}
