package parsers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallTree = `{
  "title": "root",
  "guid": "root________",
  "children": [
    {"title": "Go", "uri": "https://go.dev", "dateAdded": 1700000000123, "iconUri": "https://go.dev/favicon.ico"},
    null,
    {"title": "Empty"},
    {"title": "Nested", "dateAdded": 5.9, "children": [{"title": "", "uri": "https://x"}]}
  ]
}`

func TestDecodeTree_Structure(t *testing.T) {
	root, err := DecodeTree([]byte(smallTree))
	require.NoError(t, err)

	assert.Equal(t, NodeFolder, root.Kind)
	assert.Equal(t, "root", root.Title)
	require.Len(t, root.Children, 4)

	link := root.Children[0]
	assert.Equal(t, NodeLink, link.Kind)
	assert.Equal(t, "https://go.dev", link.TargetURL)
	assert.Equal(t, int64(1700000000123), link.CreatedAtMs)
	require.NotNil(t, link.IconURL)
	assert.Equal(t, "https://go.dev/favicon.ico", *link.IconURL)

	assert.Nil(t, root.Children[1])

	empty := root.Children[2]
	assert.Equal(t, NodeFolder, empty.Kind)
	assert.Nil(t, empty.Children)

	nested := root.Children[3]
	assert.Equal(t, int64(5), nested.CreatedAtMs)
	require.Len(t, nested.Children, 1)
	assert.Equal(t, "https://x", nested.Children[0].TargetURL)
	assert.Equal(t, 2, CountLinks(root))
}

func TestTreeNode_UnmarshalMatchesDecodeTree(t *testing.T) {
	decoded, err := DecodeTree([]byte(smallTree))
	require.NoError(t, err)

	var node TreeNode
	require.NoError(t, json.Unmarshal([]byte(smallTree), &node))

	assert.Equal(t, *decoded, node)
}

func TestDecodeTree_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "null document", doc: `null`},
		{name: "truncated", doc: `{"children": [`},
		{name: "bad dateAdded deep in the tree", doc: `{"children": [{"children": [{"uri": "https://x", "dateAdded": "soon"}]}]}`},
		{name: "array root", doc: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTree([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeTree_DeepDocument(t *testing.T) {
	const depth = 5000
	doc := strings.Repeat(`{"title": "f", "children": [`, depth) +
		`{"title": "leaf", "uri": "https://leaf"}` +
		strings.Repeat(`]}`, depth)

	root, err := DecodeTree([]byte(doc))
	require.NoError(t, err)

	node := root
	for i := 0; i < depth; i++ {
		require.Equal(t, NodeFolder, node.Kind)
		require.Len(t, node.Children, 1)
		node = node.Children[0]
	}
	assert.Equal(t, "https://leaf", node.TargetURL)
}
