package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"context-summarizer/internal/usecase/extract"
)

// readInput reads the named file, or stdin for "" and "-". The media type comes
// from typeFlag when set, else from the file extension; stdin defaults to text.
func readInput(cmd *cobra.Command, path, typeFlag string) (data []byte, mediaType string, err error) {
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("could not read from stdin: %w", err)
		}
		mediaType = extract.MediaTypePlainText
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("could not read file %s: %w", path, err)
		}
		mediaType = extract.MediaTypeForExtension(filepath.Ext(path))
	}

	if typeFlag != "" {
		mediaType = resolveType(typeFlag)
	}
	if mediaType == "" {
		return nil, "", fmt.Errorf("cannot tell the document type of %s: pass --type txt, pdf or html", path)
	}
	return data, mediaType, nil
}

// resolveType accepts a short name ("pdf", ".txt") or a full media type.
func resolveType(t string) string {
	if strings.Contains(t, "/") {
		return extract.MediaType(t)
	}
	return extract.MediaTypeForExtension(t)
}
