// Package corpus loads per-entity raw text and dense-id remaps from disk
// for the command line tools. The library itself takes these as in-memory
// maps; this package only bridges the file formats.
package corpus

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ErrUnsupportedFormat is returned for corpus files with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported corpus format")

// Load reads a raw id → text mapping, dispatching on the file extension:
// .json for a JSON object, .tsv or .txt for tab-separated id/text lines.
func Load(path string) (map[string]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return LoadJSON(path)
	case ".tsv", ".txt":
		return LoadTSV(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadJSON reads a JSON object mapping raw entity ids to text.
func LoadJSON(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %q: %w", path, err)
	}

	var idText map[string]string
	if err := json.Unmarshal(b, &idText); err != nil {
		return nil, fmt.Errorf("decode corpus %q: %w", path, err)
	}

	return idText, nil
}

// LoadTSV reads id<TAB>text lines. Blank lines are skipped; a line without a
// tab is an error. Later lines win on duplicate ids.
func LoadTSV(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %q: %w", path, err)
	}
	defer f.Close()

	idText := make(map[string]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, text, ok := strings.Cut(raw, "\t")
		if !ok {
			return nil, fmt.Errorf("corpus %q line %d: missing tab separator", path, line)
		}
		idText[id] = text
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus %q: %w", path, err)
	}

	return idText, nil
}

// LoadIDMap reads a JSON object mapping raw entity ids to dense integer ids
// and validates that the dense ids are contiguous and 0-based.
func LoadIDMap(path string) (map[string]int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read id map %q: %w", path, err)
	}

	var idMap map[string]int
	if err := json.Unmarshal(b, &idMap); err != nil {
		return nil, fmt.Errorf("decode id map %q: %w", path, err)
	}

	dense := lo.Values(idMap)
	sort.Ints(dense)
	for i, id := range dense {
		if id != i {
			return nil, fmt.Errorf("id map %q: dense ids must be a contiguous 0-based range, got %v", path, dense)
		}
	}

	return idMap, nil
}

// SequentialIDMap builds an identity remap for corpora that have no external
// id management: raw ids are assigned dense ids in sorted order for
// determinism.
func SequentialIDMap(idText map[string]string) map[string]int {
	rawIDs := lo.Keys(idText)
	sort.Strings(rawIDs)

	idMap := make(map[string]int, len(rawIDs))
	for i, id := range rawIDs {
		idMap[id] = i
	}
	return idMap
}
