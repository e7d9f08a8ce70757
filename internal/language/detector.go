package language

// Language tags used across the relay. Detection is intentionally coarse:
// the relay only needs enough signal to pick a sensible default source
// language for translation.
const (
	LangArabic  = "ar"
	LangEnglish = "en"
	LangAuto    = "auto"
)

// Detector classifies raw message text into a language tag.
type Detector interface {
	Detect(text string) string
}

// Heuristic detects language by character-range sniffing. Arabic script wins
// over Latin when both are present; text with neither yields "auto".
type Heuristic struct{}

// NewHeuristic creates the default detector.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Detect returns "ar" when the text contains any code point from the Arabic
// block, "en" when it contains any ASCII letter, and "auto" otherwise.
func (h *Heuristic) Detect(text string) string {
	hasLatin := false
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return LangArabic
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasLatin = true
		}
	}
	if hasLatin {
		return LangEnglish
	}
	return LangAuto
}
