package rag

import (
	"path/filepath"
	"strings"

	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
)

// buildChunks produces the stored chunks for one provider file: the
// complete document, plus extracted contact and address sections when
// their trigger lines are present. Privacy sections are scanned too but
// not stored as a separate chunk yet.
func buildChunks(provider, sourceFile, content string) []vectorstore.Document {
	docs := []vectorstore.Document{{
		ID:   provider + "_" + vectorstore.ChunkComplete,
		Text: content,
		Meta: vectorstore.Metadata{
			Provider:   provider,
			SourceFile: sourceFile,
			ChunkType:  vectorstore.ChunkComplete,
		},
	}}

	lines := strings.Split(content, "\n")
	var contactSection, addressSection, policySection []string

	for i, line := range lines {
		lower := strings.ToLower(line)

		// contact/phone lines plus one line before and two after for context
		if strings.Contains(lower, "contact") || strings.Contains(lower, "phone") ||
			strings.Contains(lower, "email") || strings.Contains(lower, "tel:") {
			contactSection = append(contactSection, window(lines, i-1, i+3)...)
		}
		if strings.Contains(lower, "address") {
			addressSection = append(addressSection, window(lines, i-1, i+3)...)
		}
		if strings.Contains(lower, "privacy") {
			policySection = append(policySection, window(lines, i-1, i+5)...)
		}
	}
	// privacy sections: collected but not yet stored as their own chunk
	_ = policySection

	if len(contactSection) > 0 {
		docs = append(docs, vectorstore.Document{
			ID:   provider + "_" + vectorstore.ChunkContact,
			Text: strings.Join(dedupeLines(contactSection), "\n"),
			Meta: vectorstore.Metadata{
				Provider:   provider,
				SourceFile: sourceFile,
				ChunkType:  vectorstore.ChunkContact,
			},
		})
	}
	if len(addressSection) > 0 {
		docs = append(docs, vectorstore.Document{
			ID:   provider + "_" + vectorstore.ChunkAddress,
			Text: strings.Join(dedupeLines(addressSection), "\n"),
			Meta: vectorstore.Metadata{
				Provider:   provider,
				SourceFile: sourceFile,
				ChunkType:  vectorstore.ChunkAddress,
			},
		})
	}
	return docs
}

// window returns lines[from:to] clamped to valid bounds.
func window(lines []string, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return nil
	}
	return lines[from:to]
}

// dedupeLines removes repeated lines keeping first-seen order.
func dedupeLines(lines []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// providerNameFromFile derives the provider name from a document
// filename: "green_line.txt" becomes "Green Line".
func providerNameFromFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".txt")
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
