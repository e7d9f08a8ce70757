package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristic_Detect_English(t *testing.T) {
	detector := NewHeuristic()

	assert.Equal(t, LangEnglish, detector.Detect("hello"))
	assert.Equal(t, LangEnglish, detector.Detect("Hello, world!"))
	assert.Equal(t, LangEnglish, detector.Detect("123 abc"))
}

func TestHeuristic_Detect_Arabic(t *testing.T) {
	detector := NewHeuristic()

	assert.Equal(t, LangArabic, detector.Detect("مرحبا"))
	assert.Equal(t, LangArabic, detector.Detect("مرحبا بالعالم"))
}

func TestHeuristic_Detect_Auto(t *testing.T) {
	detector := NewHeuristic()

	assert.Equal(t, LangAuto, detector.Detect("123"))
	assert.Equal(t, LangAuto, detector.Detect("!?.,"))
	assert.Equal(t, LangAuto, detector.Detect(""))
	assert.Equal(t, LangAuto, detector.Detect("こんにちは"))
}

func TestHeuristic_Detect_MixedScriptPrefersArabic(t *testing.T) {
	detector := NewHeuristic()

	// Arabic takes priority even when Latin letters appear first
	assert.Equal(t, LangArabic, detector.Detect("hello مرحبا"))
	assert.Equal(t, LangArabic, detector.Detect("مرحبا hello"))
}

func TestWhatlang_Detect_EmptyText(t *testing.T) {
	detector := NewWhatlang()

	assert.Equal(t, LangAuto, detector.Detect(""))
}

func TestWhatlang_Detect_EnglishSentence(t *testing.T) {
	detector := NewWhatlang()

	result := detector.Detect("This is clearly an English sentence with enough words to classify")
	assert.Equal(t, LangEnglish, result)
}

func TestWhatlang_Detect_NumericFallsBack(t *testing.T) {
	detector := NewWhatlang()

	// No script signal at all; the heuristic decides
	assert.Equal(t, LangAuto, detector.Detect("12345"))
}
