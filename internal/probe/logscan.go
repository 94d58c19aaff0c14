package probe

import (
	"bufio"
	"os"
	"strings"
)

// RecentLogErrors returns the last n lines of the file that mention an
// error or failure, case-insensitively. Best-effort: any read problem
// yields nil.
func RecentLogErrors(path string, n int) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var matches []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") || strings.Contains(lower, "fail") {
			matches = append(matches, strings.TrimSpace(line))
			if len(matches) > n {
				matches = matches[1:]
			}
		}
	}
	return matches
}
