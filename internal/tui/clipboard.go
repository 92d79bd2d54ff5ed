package tui

import (
	"html"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard is the system clipboard as the model uses it.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) {
	// pbpaste asked for plain text avoids the RTF flavour some apps put first.
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

// cleanPaste turns clipboard contents into note text: rich text is reduced
// to its words, line endings become \n and other control characters go.
func cleanPaste(text string) string {
	switch {
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = stripHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 && r != 127 {
			out.WriteRune(r)
		}
	}
	return strings.TrimSpace(out.String())
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func stripRTF(text string) string {
	var out strings.Builder
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; r {
		case '{', '}':
		case '\\':
			if i+1 >= len(rs) {
				continue
			}
			next := rs[i+1]
			if !isLetter(next) {
				if next == '\\' || next == '{' || next == '}' {
					out.WriteRune(next)
				}
				i++
				continue
			}
			j := i + 1
			for j < len(rs) && isLetter(rs[j]) {
				j++
			}
			word := string(rs[i+1 : j])
			for j < len(rs) && (rs[j] == '-' || rs[j] >= '0' && rs[j] <= '9') {
				j++
			}
			// One space ends a control word and is not text.
			if j < len(rs) && rs[j] == ' ' {
				j++
			}
			switch word {
			case "par", "line":
				out.WriteByte('\n')
			case "tab":
				out.WriteByte('\t')
			}
			i = j - 1
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func stripHTML(text string) string {
	var out, tag strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			switch strings.ToLower(strings.Fields(tag.String() + " x")[0]) {
			case "br", "br/", "/p", "/div", "/li":
				out.WriteByte('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			out.WriteRune(r)
		}
	}
	return html.UnescapeString(out.String())
}
