package parsers

import (
	"encoding/json"
	"fmt"
)

// NodeKind discriminates the two shapes of a bookmark tree node.
type NodeKind int

const (
	NodeFolder NodeKind = iota
	NodeLink
)

// TreeNode is one node of a browser bookmark export. Link nodes carry
// TargetURL, CreatedAtMs and IconURL; folder nodes carry Children.
//
// The tree is built once by the decoder and only read afterwards.
type TreeNode struct {
	Kind        NodeKind
	Title       string
	CreatedAtMs int64
	IconURL     *string
	TargetURL   string
	Children    []*TreeNode
}

// browserNode mirrors the export format. Housekeeping fields such as guid,
// index, lastModified, id, typeCode, type and root are not needed.
type browserNode struct {
	Title     string         `json:"title"`
	DateAdded json.Number    `json:"dateAdded"`
	URI       *string        `json:"uri"`
	IconURI   *string        `json:"iconUri"`
	Children  []*browserNode `json:"children"`
}

// UnmarshalJSON decides the node kind structurally: a node with "uri" is a
// link, anything else is a folder whose "children" may be missing.
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	var raw browserNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	node, err := buildTree(&raw)
	if err != nil {
		return err
	}
	*n = *node
	return nil
}

// buildTree converts a decoded document into TreeNodes without recursion.
// Null entries in a children list stay nil.
func buildTree(root *browserNode) (*TreeNode, error) {
	type pending struct {
		src *browserNode
		dst *TreeNode
	}

	out := &TreeNode{}
	stack := []pending{{src: root, dst: out}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		created, err := millis(top.src.DateAdded)
		if err != nil {
			return nil, err
		}

		if top.src.URI != nil {
			*top.dst = TreeNode{
				Kind:        NodeLink,
				Title:       top.src.Title,
				CreatedAtMs: created,
				IconURL:     top.src.IconURI,
				TargetURL:   *top.src.URI,
			}
			continue
		}

		*top.dst = TreeNode{
			Kind:        NodeFolder,
			Title:       top.src.Title,
			CreatedAtMs: created,
		}
		if top.src.Children == nil {
			continue
		}
		top.dst.Children = make([]*TreeNode, len(top.src.Children))
		for i, child := range top.src.Children {
			if child == nil {
				continue
			}
			top.dst.Children[i] = &TreeNode{}
			stack = append(stack, pending{src: child, dst: top.dst.Children[i]})
		}
	}
	return out, nil
}

func millis(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("dateAdded %q: %w", n, err)
	}
	return int64(f), nil
}

// DecodeTree decodes a bookmark export document. The JSON is scanned once
// whatever the nesting depth.
func DecodeTree(data []byte) (*TreeNode, error) {
	var root *browserNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("document is empty")
	}
	return buildTree(root)
}

// CountLinks returns the number of link nodes under root, root included.
func CountLinks(root *TreeNode) int {
	if root == nil {
		return 0
	}
	count := 0
	stack := []*TreeNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if node.Kind == NodeLink {
			count++
			continue
		}
		stack = append(stack, node.Children...)
	}
	return count
}
