package parsers

import (
	"context"
	"os"
	"strings"
)

const (
	DefaultParserName = "Default JSON"
	builtInPath       = "In app"
)

// BrowserJSONParser reads browser bookmark backups: a JSON tree of folders and
// links. Every link becomes one record tagged with the titles of the folders
// above it.
type BrowserJSONParser struct {
	name    string
	formats []string
}

func NewBrowserJSONParser() *BrowserJSONParser {
	return &BrowserJSONParser{
		name:    DefaultParserName,
		formats: []string{"json"},
	}
}

func (p *BrowserJSONParser) Name() string {
	return p.name
}

func (p *BrowserJSONParser) SupportedFormats() []string {
	return append([]string(nil), p.formats...)
}

func (p *BrowserJSONParser) Describe() Descriptor {
	return Descriptor{
		Name:             p.name,
		Kind:             KindBuiltIn,
		Path:             builtInPath,
		SupportedFormats: p.SupportedFormats(),
	}
}

func (p *BrowserJSONParser) Parse(ctx context.Context, inputPath string) (*ParseOutcome, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, newError(ErrFileRead, err, "reading %s", inputPath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := DecodeTree(data)
	if err != nil {
		return nil, newError(ErrInvalidFormat, err, "decoding bookmark tree from %s", inputPath)
	}

	return &ParseOutcome{
		Successful: Flatten(root),
		Failed:     []ParseFailure{},
	}, nil
}

type frame struct {
	node *TreeNode
	tags []string
}

// Flatten walks the tree depth-first in document order and returns one record
// per link. The walk uses an explicit stack, not recursion. Children are
// pushed in reverse so they pop in their original order.
func Flatten(root *TreeNode) []ParsedRecord {
	records := make([]ParsedRecord, 0, CountLinks(root))
	if root == nil {
		return records
	}

	stack := []frame{{node: root, tags: []string{}}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := current.node
		if node == nil {
			continue
		}

		if node.Kind == NodeLink {
			records = append(records, linkRecord(node, current.tags))
			continue
		}

		childTags := current.tags
		if title := strings.TrimSpace(node.Title); title != "" {
			childTags = make([]string, len(current.tags), len(current.tags)+1)
			copy(childTags, current.tags)
			childTags = append(childTags, title)
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: node.Children[i], tags: childTags})
		}
	}

	return records
}

func linkRecord(node *TreeNode, tags []string) ParsedRecord {
	title := node.Title
	return ParsedRecord{
		NewBookmarkRecord: NewBookmarkRecord{
			Title:     &title,
			Link:      node.TargetURL,
			IconLink:  node.IconURL,
			CreatedAt: Timestamp(node.CreatedAtMs / 1000),
		},
		Tags: tags,
	}
}
