package chat

import (
	"fmt"
	"strings"
)

// BuildContext renders prior conversation turns followed by extracted
// document texts into a single prompt block. It is a pure function of its
// inputs: identical inputs produce identical output, and reordering the
// texts changes the output. Empty texts contribute nothing.
//
// No combined length limit is applied here; length governance is the
// per-file extraction cap plus the fixed history window of the turn service.
func BuildContext(priorMessages []*Message, extractedTexts []string) string {
	var b strings.Builder

	if len(priorMessages) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, m := range priorMessages {
			label := "User"
			if m.Role == RoleAssistant {
				label = "Fee"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, m.Content)
		}
	}

	wroteHeader := false
	docIndex := 0
	for _, text := range extractedTexts {
		if text == "" {
			continue
		}
		if !wroteHeader {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString("Document content:\n")
			wroteHeader = true
		}
		docIndex++
		fmt.Fprintf(&b, "--- Document %d ---\n%s\n", docIndex, text)
	}

	return b.String()
}
