package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisepage/application/proxy"
	"wisepage/domain/entities"
)

func TestList_DirectItems(t *testing.T) {
	ctx := context.Background()
	menu := NewList(proxy.NewElement(load(t), entities.ByID("menu")))

	ordered, err := menu.Ordered(ctx)
	require.NoError(t, err)
	assert.False(t, ordered)

	items, err := menu.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	text, err := items[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Home", text)

	about, err := menu.Item(ctx, 1)
	require.NoError(t, err)
	sub, err := about.FindElement(ctx, entities.ByTagName("ol"))
	require.NoError(t, err)

	nested := NewList(sub)
	ordered, err = nested.Ordered(ctx)
	require.NoError(t, err)
	assert.True(t, ordered)

	subItems, err := nested.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, subItems, 1)

	_, err = menu.Item(ctx, 2)
	assert.ErrorIs(t, err, entities.ErrIndexOutOfRange)
}

func TestFrame_QueriesHostedDocument(t *testing.T) {
	ctx := context.Background()
	doc := load(t)
	frame := NewFrame(proxy.NewElement(doc, entities.ByID("frame")))

	// the frame document is separate from the host document
	found, err := frame.FindElements(ctx, entities.ByID("grid"))
	require.NoError(t, err)
	assert.Empty(t, found)

	framed := NewTable(proxy.NewElement(frame, entities.ByID("framed")))
	foot, err := framed.Foot(ctx)
	require.NoError(t, err)
	require.NotNil(t, foot)
	assert.Equal(t, 1, rowCount(t, foot))

	body, err := framed.Body(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rowCount(t, body))
}

func TestFrame_RootMustHostDocument(t *testing.T) {
	frame := NewFrame(proxy.NewElement(load(t), entities.ByID("menu")))
	_, err := frame.FindElements(context.Background(), entities.ByTagName("li"))
	assert.Error(t, err)
}
