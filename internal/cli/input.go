package cli

import (
	"fmt"
	"io"

	"github.com/cognicore/quill/internal/corpus"
)

// readInputs loads every named file, or stdin when there are none.
func readInputs(stdin io.Reader, paths []string) ([]corpus.Item, error) {
	if len(paths) == 0 || (len(paths) == 1 && paths[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []corpus.Item{{URL: "stdin", Title: "stdin", Source: "stdin", Body: string(data)}}, nil
	}

	items := make([]corpus.Item, 0, len(paths))
	for _, p := range paths {
		item, err := corpus.LoadFile(p)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

