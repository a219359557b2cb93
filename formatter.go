package main

import "strings"

// DataFormatter applies the configured per-property formatters to report
// values before rendering.
type DataFormatter struct {
	config *Config
}

func newDataFormatter(config *Config) *DataFormatter {
	return &DataFormatter{config: config}
}

// format runs every configured formatter for the property over the value, in
// configuration order.
func (f *DataFormatter) format(property, value string) string {
	for _, formatter := range f.config.Formatters[property] {
		switch formatter.Method {
		case "limit_line_length":
			value = limitLineLength(value, formatter.Settings.MaxLength)
		case "trim":
			value = strings.TrimSpace(value)
		default:
			Log("unknown formatter method:", formatter.Method)
		}
	}
	return value
}

// limitLineLength re-wraps text so no line exceeds maxLength characters,
// breaking at word boundaries. Words longer than the limit stay on their own
// line. Existing paragraph breaks are preserved.
func limitLineLength(text string, maxLength int) string {
	if maxLength <= 0 {
		return text
	}
	paragraphs := strings.Split(text, "\n")
	for i, paragraph := range paragraphs {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		var lines []string
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) <= maxLength {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
		paragraphs[i] = strings.Join(lines, "\n")
	}
	return strings.Join(paragraphs, "\n")
}
