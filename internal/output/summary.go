package output

import (
	"fmt"

	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/utils"
)

// FormatSummaryLine renders the file count, total size and optional token count of a run.
func FormatSummaryLine(summary extract.Summary) string {
	label := "files"
	if summary.Files == 1 {
		label = "file"
	}
	extra := ""
	if summary.Tokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.Tokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.Files, label, utils.FormatFileSize(summary.Bytes), extra, modelSuffix)
}

// FormatCountersLine renders what happened to the listed files.
func FormatCountersLine(summary extract.Summary) string {
	return fmt.Sprintf("inlined=%d skipped=%d errors=%d redacted=%d", summary.Inlined, summary.Skipped, summary.Errors, summary.Redacted)
}
