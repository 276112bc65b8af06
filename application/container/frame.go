package container

import (
	"context"
	"fmt"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Frame is a scope over the document hosted by an <iframe> or <frame>.
// The frame element and its document are re-resolved on every query.
type Frame struct {
	root interfaces.WebElement
}

var _ Container = (*Frame)(nil)

func NewFrame(root interfaces.WebElement) *Frame {
	return &Frame{root: root}
}

func (f *Frame) Root() interfaces.WebElement {
	return f.root
}

func (f *Frame) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	owner, ok := f.root.(interfaces.FrameOwner)
	if !ok {
		return nil, fmt.Errorf("frame %s: element %T cannot host a document", f, f.root)
	}
	doc, err := owner.ContentScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", f, err)
	}
	return doc.FindElements(ctx, by)
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame(%v)", f.root)
}
