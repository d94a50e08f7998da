// Package xmlmin is a deliberately small, namespace-tolerant XML tag and
// block extractor for the Metadata API's SOAP responses, which are
// regular enough that a streaming/schema-validating parser buys nothing
// over targeted string scanning.
//
// Open tags may carry a namespace prefix (sf:, met:, tns:, ...); the
// matching close tag is accepted whether or not it repeats that prefix.
// Depth-counted matching lets the same tag name nest (e.g. describeValueType's
// recursive valueTypeFields).
package xmlmin

import (
	"regexp"
	"strings"
)

var tagCache = map[string]*regexp.Regexp{}

func openTagPattern(name string) *regexp.Regexp {
	if re, ok := tagCache["open:"+name]; ok {
		return re
	}
	re := regexp.MustCompile(`<(?:[A-Za-z0-9_]+:)?` + regexp.QuoteMeta(name) + `(?:\s[^>]*)?(/?)>`)
	tagCache["open:"+name] = re
	return re
}

func closeTagPattern(name string) *regexp.Regexp {
	if re, ok := tagCache["close:"+name]; ok {
		return re
	}
	re := regexp.MustCompile(`</(?:[A-Za-z0-9_]+:)?` + regexp.QuoteMeta(name) + `>`)
	tagCache["close:"+name] = re
	return re
}

// Tag extracts the text content of the first occurrence of name,
// tolerating a namespace prefix on the open tag. Returns ok=false if the
// tag isn't present.
func Tag(doc, name string) (string, bool) {
	open := openTagPattern(name)
	loc := open.FindStringIndex(doc)
	if loc == nil {
		return "", false
	}
	if strings.HasSuffix(doc[loc[0]:loc[1]], "/>") {
		return "", true
	}
	close := closeTagPattern(name)
	closeLoc := close.FindStringIndex(doc[loc[1]:])
	if closeLoc == nil {
		return "", false
	}
	return doc[loc[1] : loc[1]+closeLoc[0]], true
}

// AllTags extracts the text content of every top-level (non-nested)
// occurrence of name in document order.
func AllTags(doc, name string) []string {
	var out []string
	rest := doc
	offset := 0
	for {
		content, ok := Tag(rest[offset:], name)
		if !ok {
			break
		}
		out = append(out, content)
		open := openTagPattern(name)
		loc := open.FindStringIndex(rest[offset:])
		if loc == nil {
			break
		}
		close := closeTagPattern(name)
		closeLoc := close.FindStringIndex(rest[offset+loc[1]:])
		if closeLoc == nil {
			break
		}
		offset = offset + loc[1] + closeLoc[1]
	}
	return out
}

// Block extracts the full `<name ...>...</name>` span, including the
// tags themselves, depth-counting so that nested occurrences of the same
// tag name (describeValueType's recursive valueTypeFields, for instance)
// don't terminate the match early.
func Block(doc, name string) (string, bool) {
	open := openTagPattern(name)
	close := closeTagPattern(name)
	startLoc := open.FindStringIndex(doc)
	if startLoc == nil {
		return "", false
	}
	depth := 1
	pos := startLoc[1]
	for depth > 0 {
		nextOpen := open.FindStringIndex(doc[pos:])
		nextClose := close.FindStringIndex(doc[pos:])
		switch {
		case nextClose == nil:
			return "", false
		case nextOpen != nil && nextOpen[0] < nextClose[0]:
			depth++
			pos += nextOpen[1]
		default:
			depth--
			pos += nextClose[1]
		}
	}
	return doc[startLoc[0]:pos], true
}

// AllBlocks extracts every top-level `<name>...</name>` block in
// document order, depth-counted the same way Block is.
func AllBlocks(doc, name string) []string {
	var out []string
	rest := doc
	for {
		block, ok := Block(rest, name)
		if !ok {
			break
		}
		out = append(out, block)
		idx := strings.Index(rest, block)
		if idx < 0 {
			break
		}
		rest = rest[idx+len(block):]
	}
	return out
}

// Inner strips a Block result's outermost open/close tag, returning just
// its content — needed before recursing into a block to search for
// further nested occurrences of the SAME tag name (searching the full
// block, tags included, would just re-match its own wrapper).
func Inner(block string) string {
	start := strings.IndexByte(block, '>')
	end := strings.LastIndexByte(block, '<')
	if start < 0 || end < 0 || end <= start {
		return ""
	}
	return block[start+1 : end]
}

// Bool parses a tag's text content as "true"/"false", defaulting to
// false when the tag is absent or unparsable.
func Bool(doc, name string) bool {
	v, ok := Tag(doc, name)
	return ok && strings.TrimSpace(v) == "true"
}

// Int parses a tag's text content as a base-10 integer, defaulting to 0.
func Int(doc, name string) int {
	v, ok := Tag(doc, name)
	if !ok {
		return 0
	}
	n := 0
	for _, r := range strings.TrimSpace(v) {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
