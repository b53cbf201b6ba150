// Package readtime estimates how long a post takes to read.
package readtime

import (
	"unicode"

	"spacetraveling/models"
	"spacetraveling/richtext"
)

// WordsPerMinute 는 고정된 평균 읽기 속도다.
const WordsPerMinute = 200

// CountWords splits s on every whitespace rune. Consecutive separators yield
// empty words and an empty string counts as one word.
func CountWords(s string) int {
	n := 1
	for _, r := range s {
		if unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// Words totals the title, every present heading and every section body.
func Words(post *models.PostDetail) int {
	if post == nil {
		return 0
	}
	total := CountWords(post.Title)
	for _, section := range post.Content {
		if section.Heading != nil && *section.Heading != "" {
			total += CountWords(*section.Heading)
		}
		total += CountWords(richtext.AsText(section.Body))
	}
	return total
}

// Minutes returns the estimated reading time, rounded up.
func Minutes(post *models.PostDetail) int {
	words := Words(post)
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
