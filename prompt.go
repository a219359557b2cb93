package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptInput is swapped for a canned reader in tests.
var promptInput io.Reader = os.Stdin

var promptScanner *bufio.Scanner

func readLine() string {
	if promptScanner == nil {
		promptScanner = bufio.NewScanner(promptInput)
	}
	if !promptScanner.Scan() {
		return ""
	}
	return strings.TrimSpace(promptScanner.Text())
}

// askYesNo asks a yes/no question; anything but "y" counts as no.
func askYesNo(question string) bool {
	fmt.Printf("❓ %s (y/N): ", question)
	return strings.EqualFold(readLine(), "y")
}

// takeInput prompts for a free-form value; a blank answer means "skip".
func takeInput(prompt string) string {
	fmt.Printf("⌨️ %s: ", prompt)
	return readLine()
}

// askFunc is the interactive collaborator used by the manual numbering pass.
type askFunc func(prompt string) string
