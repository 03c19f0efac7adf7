package maven

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

var errNoRootElement = errors.New("no root element")

// node is a generic XML element. Names are compared by local name, so POMs
// with and without the Maven namespace are handled alike. Offsets are byte
// positions in the parsed content.
type node struct {
	XMLName  xml.Name
	Content  string
	Children []*node

	// textStart and textEnd delimit the raw content between the start and
	// the end tag.
	textStart int
	textEnd   int
}

func parsePOM(content string) (*node, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.Strict = false

	var root *node
	var open []*node
	for {
		beforeToken := int(decoder.InputOffset())
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			element := &node{XMLName: t.Name, textStart: int(decoder.InputOffset())}
			if len(open) > 0 {
				parent := open[len(open)-1]
				parent.Children = append(parent.Children, element)
			} else if root == nil {
				root = element
			}
			open = append(open, element)
		case xml.EndElement:
			if len(open) == 0 {
				continue
			}
			element := open[len(open)-1]
			element.textEnd = beforeToken
			open = open[:len(open)-1]
		case xml.CharData:
			if len(open) > 0 {
				open[len(open)-1].Content += string(t)
			}
		}
	}

	if root == nil {
		return nil, errNoRootElement
	}
	return root, nil
}

// find walks a slash separated path of element names below n.
func (n *node) find(path string) *node {
	current := n
	for _, name := range strings.Split(path, "/") {
		next := current.child(name)
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

func (n *node) child(name string) *node {
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

func (n *node) children(name string) []*node {
	var result []*node
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			result = append(result, c)
		}
	}
	return result
}

// text returns the trimmed text of the named child element.
func (n *node) text(name string) (string, bool) {
	c := n.child(name)
	if c == nil {
		return "", false
	}
	return strings.TrimSpace(c.Content), true
}

// textSpan returns the byte range of the trimmed text of the named child in
// content. It fails when the raw text differs from the decoded one, as with
// entities, comments or CDATA sections.
func (n *node) textSpan(content, name string) (int, int, bool) {
	c := n.child(name)
	if c == nil || c.textEnd < c.textStart || c.textEnd > len(content) {
		return 0, 0, false
	}

	raw := content[c.textStart:c.textEnd]
	trimmed := strings.TrimSpace(raw)
	if trimmed != strings.TrimSpace(c.Content) {
		return 0, 0, false
	}
	start := c.textStart + strings.Index(raw, trimmed)
	return start, start + len(trimmed), true
}
