package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gost-dom/browser/dom"
	"github.com/gost-dom/browser/html"
)

// ConsoleSelector selects the scroll container in windows created by
// NewConsoleWindow.
const ConsoleSelector = "#console"

// ScrollLineAttr is the attribute a DOMSurface records its scroll position
// in.
const ScrollLineAttr = "data-scroll-line"

const consolePage = `<!DOCTYPE html><html><head><title></title></head><body>` +
	`<h1 id="title"></h1>` +
	`<div id="console" class="console"><pre id="console-text"></pre></div>` +
	`</body></html>`

// NewConsoleWindow creates a gost-dom window holding an empty console
// container under a heading with the given title.
func NewConsoleWindow(title string) (html.Window, error) {
	win, err := html.NewWindowReader(strings.NewReader(consolePage))
	if err != nil {
		return nil, fmt.Errorf("create console window: %w", err)
	}
	doc := win.Document()
	if h, _ := doc.QuerySelector("#title"); h != nil {
		h.SetTextContent(title)
	}
	if t, _ := doc.QuerySelector("title"); t != nil {
		t.SetTextContent(title)
	}
	return win, nil
}

// DOMSurface is a Surface backed by a <pre> element inside a scroll
// container of a gost-dom window. Extent is measured from the DOM after the
// text is committed, in lines. The scroll position is kept on the container
// as the ScrollLineAttr attribute.
//
// gost-dom windows are not safe for concurrent use; the surface must only be
// used from the presenter's context.
type DOMSurface struct {
	win       html.Window
	container dom.Element
	text      dom.Element
}

// NewDOMSurface binds to the element matching selector in win. A <pre>
// child is created if the container does not have one.
func NewDOMSurface(win html.Window, selector string) (*DOMSurface, error) {
	doc := win.Document()
	container, err := doc.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if container == nil {
		return nil, errors.New("no element matches " + strconv.Quote(selector))
	}

	text, err := container.QuerySelector("pre")
	if err != nil {
		return nil, fmt.Errorf("query pre in %q: %w", selector, err)
	}
	if text == nil {
		text = doc.CreateElement("pre")
		if _, err := container.AppendChild(text); err != nil {
			return nil, fmt.Errorf("append pre to %q: %w", selector, err)
		}
	}
	container.SetAttribute(ScrollLineAttr, "0")
	return &DOMSurface{win: win, container: container, text: text}, nil
}

// SetText replaces the <pre> content.
func (s *DOMSurface) SetText(text string) {
	s.text.SetTextContent(text)
}

// Extent counts the lines of the committed <pre> content.
func (s *DOMSurface) Extent() int {
	return strings.Count(s.text.InnerHTML(), "\n")
}

// ScrollTo records pos as the container's scroll line.
func (s *DOMSurface) ScrollTo(pos int) {
	if pos < 0 {
		pos = 0
	}
	s.container.SetAttribute(ScrollLineAttr, strconv.Itoa(pos))
}

// ScrollLine returns the recorded scroll position.
func (s *DOMSurface) ScrollLine() int {
	v, ok := s.container.GetAttribute(ScrollLineAttr)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// HTML serializes the window's body content.
func (s *DOMSurface) HTML() string {
	return s.win.Document().Body().InnerHTML()
}
