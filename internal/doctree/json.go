package doctree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EncodeJSON encodes a tree as JSON. Leaves carry "type" and "text";
// containers carry "type" and a "content" array; attributes, when present,
// appear under "attrs".
func EncodeJSON(n *Node) (string, error) {
	if n == nil {
		return "", ErrInvalidDocument
	}
	return encodeNode(n)
}

func encodeNode(n *Node) (string, error) {
	js, err := sjson.Set(`{}`, "type", n.Type)
	if err != nil {
		return "", fmt.Errorf("encode node: %w", err)
	}
	for k, v := range n.Attrs {
		// Dots in attr keys would otherwise be read as path separators.
		path := "attrs." + strings.ReplaceAll(k, ".", `\.`)
		if js, err = sjson.Set(js, path, v); err != nil {
			return "", fmt.Errorf("encode attr %q: %w", k, err)
		}
	}
	if n.IsLeaf() {
		if js, err = sjson.Set(js, "text", n.Text); err != nil {
			return "", fmt.Errorf("encode text: %w", err)
		}
		return js, nil
	}
	if js, err = sjson.SetRaw(js, "content", "[]"); err != nil {
		return "", fmt.Errorf("encode content: %w", err)
	}
	for i, c := range n.Children {
		cs, err := encodeNode(c)
		if err != nil {
			return "", err
		}
		if js, err = sjson.SetRaw(js, "content."+strconv.Itoa(i), cs); err != nil {
			return "", fmt.Errorf("encode child %d: %w", i, err)
		}
	}
	return js, nil
}

// DecodeJSON decodes a tree from the JSON form produced by EncodeJSON.
func DecodeJSON(s string) (*Node, error) {
	if !gjson.Valid(s) {
		return nil, ErrInvalidDocument
	}
	return decodeNode(gjson.Parse(s))
}

func decodeNode(v gjson.Result) (*Node, error) {
	if !v.IsObject() {
		return nil, ErrInvalidDocument
	}
	n := &Node{Type: v.Get("type").String()}
	if n.Type == "" {
		return nil, ErrMissingType
	}
	if attrs := v.Get("attrs"); attrs.IsObject() {
		n.Attrs = make(map[string]any)
		attrs.ForEach(func(key, val gjson.Result) bool {
			n.Attrs[key.String()] = val.Value()
			return true
		})
	}
	content := v.Get("content")
	if !content.Exists() {
		n.Text = v.Get("text").String()
		return n, nil
	}
	if !content.IsArray() {
		return nil, ErrInvalidDocument
	}
	n.Children = make([]*Node, 0, int(content.Get("#").Int()))
	var decodeErr error
	content.ForEach(func(_, child gjson.Result) bool {
		c, err := decodeNode(child)
		if err != nil {
			decodeErr = err
			return false
		}
		n.Children = append(n.Children, c)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return n, nil
}
