package sources

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/goliatone/go-lookup/lookup"
)

// Element flattens every descendant of e into tag -> text pairs. Keys are local
// tag names and values the concatenated text of the element. When a tag appears
// more than once the last one in document order wins.
func Element(e *etree.Element) lookup.Source {
	if e == nil {
		return lookup.Null("node")
	}
	values := map[string]string{}
	var walk func(*etree.Element)
	walk = func(parent *etree.Element) {
		for _, child := range parent.ChildElements() {
			values[child.Tag] = textContent(child)
			walk(child)
		}
	}
	walk(e)
	return Map(values)
}

// Children is like Element but only looks at the direct child elements of e.
func Children(e *etree.Element) lookup.Source {
	if e == nil {
		return lookup.Null("node")
	}
	values := map[string]string{}
	for _, child := range e.ChildElements() {
		values[child.Tag] = textContent(child)
	}
	return Map(values)
}

// Document flattens a whole document, root element included.
func Document(doc *etree.Document) lookup.Source {
	if doc == nil {
		return lookup.Null("document")
	}
	return Element(&doc.Element)
}

// ParseXML reads data into a document and returns its Document source.
func ParseXML(data []byte) (lookup.Source, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, lookup.FormatError(err)
	}
	return Document(doc), nil
}

func textContent(e *etree.Element) string {
	var b strings.Builder
	for _, token := range e.Child {
		switch t := token.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString(textContent(t))
		}
	}
	return b.String()
}
