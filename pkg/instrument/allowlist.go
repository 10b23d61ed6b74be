/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: allowlist.go
Description: Source file allow-list for the Akaylee Instrument pass. Loaded
once at pass construction from a newline-separated file of filename suffixes;
a non-empty list restricts instrumentation to blocks whose resolved source
file ends in one of the entries.
*/

package instrument

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// AllowList is an ordered sequence of filename suffixes. The zero value
// (empty list) disables location filtering entirely.
type AllowList []string

// LoadAllowList reads an allow-list from path, one suffix per line. Blank
// lines are skipped. An empty path yields an empty list. An unreadable file
// is a configuration error and must abort the run.
func LoadAllowList(path string) (AllowList, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open allow-list %s: %w", path, err)
	}
	defer f.Close()

	var list AllowList
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		list = append(list, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read allow-list %s: %w", path, err)
	}
	return list, nil
}

// Empty reports whether the list disables filtering
func (l AllowList) Empty() bool {
	return len(l) == 0
}

// Matches reports whether filename ends in one of the list entries. Suffix
// match rather than equality: resolved filenames are often full paths while
// list entries are usually bare names.
func (l AllowList) Matches(filename string) bool {
	for _, suffix := range l {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}
