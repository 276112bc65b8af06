package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Element is a node of a snapshot document
type Element struct {
	doc  *Document
	node *html.Node
}

var (
	_ interfaces.WebElement = (*Element)(nil)
	_ interfaces.FrameOwner = (*Element)(nil)
)

func (e *Element) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return e.doc.find(ctx, e.node, by)
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	return strings.ToLower(e.node.Data), nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return collapse(htmlquery.InnerText(e.node)), nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, name) {
			return attr.Val, true, nil
		}
	}
	return "", false, nil
}

// ContentScope parses the inline srcdoc of an <iframe> or <frame>
func (e *Element) ContentScope(ctx context.Context) (interfaces.SearchContext, error) {
	tag := strings.ToLower(e.node.Data)
	if tag != "iframe" && tag != "frame" {
		return nil, fmt.Errorf("%s is not a frame", nodePath(e.node))
	}
	srcdoc, ok, _ := e.Attribute(ctx, "srcdoc")
	if !ok {
		return nil, fmt.Errorf("%s has no inline document", nodePath(e.node))
	}
	doc, err := e.doc.frame(e.node, srcdoc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (e *Element) String() string {
	return nodePath(e.node)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nodePath renders an XPath that identifies n, anchored on the nearest id
func nodePath(n *html.Node) string {
	var path []string
	for ; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		tag := strings.ToLower(n.Data)
		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			path = append(path, fmt.Sprintf("//*[@id='%s']", id))
			break
		}

		index := 1
		for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
			if prev.Type == html.ElementNode && strings.ToLower(prev.Data) == tag {
				index++
			}
		}
		path = append(path, fmt.Sprintf("%s[%d]", tag, index))
	}

	if len(path) == 0 {
		return "/"
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	xpath := strings.Join(path, "/")
	if !strings.HasPrefix(xpath, "//*[@id=") {
		xpath = "/" + xpath
	}
	return xpath
}
