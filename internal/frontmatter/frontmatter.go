// Package frontmatter splits and parses YAML front matter, the "---" fenced
// metadata block at the top of a content file.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrUnclosed indicates an opening front matter delimiter without a closing
// one. Callers decide whether that fails the file or just skips parsing.
var ErrUnclosed = errors.New("frontmatter: opening delimiter without closing delimiter")

// Split separates a leading front matter block from the body. When content
// carries no front matter, found is false and body is the full input. The
// returned meta excludes the delimiters. CRLF content is handled; the body
// keeps its original line endings.
func Split(content []byte) (meta, body []byte, found bool, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	rest := content[len(open):]

	// Empty block: the closing fence follows immediately.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	fence := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, fence)
	if idx < 0 {
		// A closing fence at EOF without a trailing newline still counts.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrUnclosed
	}
	return rest[:idx+len(nl)], rest[idx+len(fence):], true, nil
}

// Parse unmarshals raw front matter into a map. Empty input yields an
// empty, non-nil map so callers can stash fields without nil checks.
func Parse(meta []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(meta) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(meta, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Compose renders a full document: fenced YAML front matter followed by
// body. With no fields it returns the body unchanged. Map keys serialize
// sorted, so output is stable.
func Compose(fields map[string]any, body []byte) ([]byte, error) {
	if len(fields) == 0 {
		return body, nil
	}
	meta, err := yaml.Marshal(fields)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(meta)
	out.WriteString("---\n")
	out.Write(body)
	return out.Bytes(), nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
