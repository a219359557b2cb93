package main

import "testing"

func TestLimitLineLength(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays", "one two", 20, "one two"},
		{"wraps at word boundary", "aaa bbb ccc ddd", 7, "aaa bbb\nccc ddd"},
		{"long word on own line", "aaa extraordinarily bbb", 5, "aaa\nextraordinarily\nbbb"},
		{"keeps paragraphs", "aaa bbb\n\nccc ddd", 7, "aaa bbb\n\nccc ddd"},
		{"zero disables", "aaa bbb ccc", 0, "aaa bbb ccc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limitLineLength(tt.in, tt.max); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatterChain(t *testing.T) {
	config := defaultConfig()
	config.Formatters = map[string][]Formatter{
		"description": {
			{Method: "trim"},
			{Method: "limit_line_length", Settings: struct {
				MaxLength int `yaml:"max_length"`
			}{MaxLength: 10}},
		},
	}
	if err := config.compile(); err != nil {
		t.Fatal(err)
	}

	got := newDataFormatter(&config).format("description", "  a podcast about things  ")
	want := "a podcast\nabout\nthings"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
