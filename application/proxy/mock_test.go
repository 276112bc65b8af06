package proxy

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

type mockScope struct {
	mock.Mock
}

func (m *mockScope) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	args := m.Called(ctx, by)
	found, _ := args.Get(0).([]interfaces.WebElement)
	return found, args.Error(1)
}

func (m *mockScope) String() string { return "mock scope" }

// fakeElement is a live element with fixed text
type fakeElement struct {
	text string
}

func (f *fakeElement) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return nil, nil
}
func (f *fakeElement) TagName(ctx context.Context) (string, error) { return "span", nil }
func (f *fakeElement) Text(ctx context.Context) (string, error)    { return f.text, nil }
func (f *fakeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	return "", false, nil
}

func elements(texts ...string) []interfaces.WebElement {
	out := make([]interfaces.WebElement, len(texts))
	for i, text := range texts {
		out[i] = &fakeElement{text: text}
	}
	return out
}
