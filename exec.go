package main

import (
	"bufio"
	"fmt"
	"os/exec"
)

// runCommand runs an external tool, streaming its combined output line by
// line to the log and, when set, to lineHandler.
func runCommand(name string, args []string, lineHandler func(line string)) error {
	LogDebug("running:", name, args)
	cmd := exec.Command(name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		LogDebug(line)
		if lineHandler != nil {
			lineHandler(line)
		}
	}
	if err := scanner.Err(); err != nil {
		LogError("error reading output of", name, ":", err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
