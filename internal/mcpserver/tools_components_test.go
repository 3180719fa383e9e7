package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/internal/testutil"
)

func miniSpec() specInput {
	return specInput{Content: string(testutil.StripeMini)}
}

func TestListComponents(t *testing.T) {
	result, output, err := handleListComponents(context.Background(), &mcp.CallToolRequest{}, listComponentsInput{Spec: miniSpec()})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, 11, output.Total)
	assert.Equal(t, 11, output.Matched)
	assert.Len(t, output.Components, 11)
}

func TestListComponents_FilterAndPaginate(t *testing.T) {
	_, output, err := handleListComponents(context.Background(), &mcp.CallToolRequest{}, listComponentsInput{
		Spec:    miniSpec(),
		Pattern: "*customer",
		Limit:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Matched)
	assert.Equal(t, 1, output.Returned)
	require.Len(t, output.Components, 1)
	assert.Equal(t, "customer", output.Components[0].Path)
}

func TestListComponents_GroupByPackage(t *testing.T) {
	_, output, err := handleListComponents(context.Background(), &mcp.CallToolRequest{}, listComponentsInput{
		Spec:    miniSpec(),
		GroupBy: "package",
	})
	require.NoError(t, err)
	assert.Empty(t, output.Components)
	total := 0
	for _, g := range output.Groups {
		total += g.Count
	}
	assert.Equal(t, 11, total)
}

func TestListComponents_InvalidGroupBy(t *testing.T) {
	result, _, err := handleListComponents(context.Background(), &mcp.CallToolRequest{}, listComponentsInput{
		Spec:    miniSpec(),
		GroupBy: "method",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestInspectComponent(t *testing.T) {
	result, output, err := handleInspectComponent(context.Background(), &mcp.CallToolRequest{}, inspectComponentInput{
		Spec:      miniSpec(),
		Component: "customer",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	assert.Equal(t, "Customer", output.Ident)
	assert.Equal(t, "CustomerID", output.IDType)

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "# customer")
}

func TestInspectComponent_Missing(t *testing.T) {
	for _, name := range []string{"", "broken_thing"} {
		result, _, err := handleInspectComponent(context.Background(), &mcp.CallToolRequest{}, inspectComponentInput{
			Spec:      miniSpec(),
			Component: name,
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError, name)
	}
}
