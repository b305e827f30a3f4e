package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"github.com/spf13/viper"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

// DetectLanguage returns the lowercase ISO 639-1 code of the content, or an empty string
// when detection is disabled or not confident enough.
func DetectLanguage(content string) string {
	if !viper.GetBool("posts.detect_language") || len(strings.TrimSpace(content)) == 0 {
		return ""
	}

	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})

	if language, exists := languageDetector.DetectLanguageOf(content); exists {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}
