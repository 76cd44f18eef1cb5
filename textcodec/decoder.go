package textcodec

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/internal/textscan"
)

// Decode parses delimited text into a value tree.
//
// Array schemas yield a []any with one element per non-blank block. Record schemas
// yield a []any of map[string]any, one per non-blank block. Scalar and range schemas
// decode the whole input as a single token.
//
// The number of decoded blocks is the WithElementCount value when given, else the
// schema's fixed element count, else every non-blank block.
//
// Parameters:
//   - text: encoded input
//   - enc: text encoding; validated before any token is processed
//   - schema: component describing the decoded values
//   - opts: WithElementCount, WithLenientParsing, WithLegacyDecimalSubstitution, WithLogger
//
// Returns:
//   - any: the decoded value tree
//   - error: errs.ErrTokenCountMismatch when a block does not hold exactly the tokens
//     its schema needs, errs.ErrInvalidToken for unparsable numbers (unless lenient);
//     the first failing block fails the whole call
func Decode(text string, enc encoding.TextEncoding, schema component.Component, opts ...Option) (any, error) {
	d, err := newDecoder(enc, schema, opts)
	if err != nil {
		return nil, err
	}

	if !schema.Kind().IsArray() && !schema.Kind().IsRecord() {
		return d.parseToken(d.preprocess(text), schema)
	}

	elem := schema
	limit := d.cfg.elementCount
	if schema.Kind().IsArray() {
		var count *component.ElementCount
		elem, count, _ = component.ElementOf(schema)
		if elem == nil {
			return nil, fmt.Errorf("%w: %s %q has no element type", errs.ErrInvalidSchema, schema.Kind(), schema.Meta().Name)
		}
		if n, fixed := count.Fixed(); fixed && limit < 0 {
			limit = n
		}
	}

	blocks := d.blocks(text)
	if limit >= 0 && limit < len(blocks) {
		blocks = blocks[:limit]
	}

	out := make([]any, 0, len(blocks))
	for i, block := range blocks {
		v, err := d.decodeBlock(block, elem)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		out = append(out, v)
	}

	return out, nil
}

// DecodeRecord parses a single block into a map keyed by the field names of record,
// which must be a DataRecord or Vector.
func DecodeRecord(block string, enc encoding.TextEncoding, record component.Component, opts ...Option) (map[string]any, error) {
	d, err := newDecoder(enc, record, opts)
	if err != nil {
		return nil, err
	}
	if !record.Kind().IsRecord() {
		return nil, fmt.Errorf("%w: %s is not a record", errs.ErrInvalidSchema, record.Kind())
	}

	v, err := d.decodeBlock(d.preprocess(block), record)
	if err != nil {
		return nil, err
	}

	m, _ := v.(map[string]any)

	return m, nil
}

// SplitBlocks returns the non-blank blocks of text, split quote-aware on the block
// separator.
func SplitBlocks(text string, enc encoding.TextEncoding) []string {
	blocks := textscan.Split(text, enc.BlockSeparator)
	out := blocks[:0]
	for _, b := range blocks {
		if !textscan.IsBlank(b) {
			out = append(out, b)
		}
	}

	return out
}

// CountTokens returns the number of tokens the decoder would split block into,
// applying the whitespace collapsing rule first when enabled.
func CountTokens(block string, enc encoding.TextEncoding) int {
	if enc.CollapseWhiteSpaces {
		block = textscan.CollapseWhiteSpaces(block, enc.TokenSeparator)
	}

	return textscan.Count(block, enc.TokenSeparator)
}

type decoder struct {
	enc encoding.TextEncoding
	cfg *Config
}

func newDecoder(enc encoding.TextEncoding, schema component.Component, opts []Option) (*decoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", errs.ErrInvalidSchema)
	}

	return &decoder{enc: enc, cfg: cfg}, nil
}

// preprocess applies whitespace collapsing and legacy decimal substitution to one block.
func (d *decoder) preprocess(block string) string {
	if d.enc.CollapseWhiteSpaces {
		block = textscan.CollapseWhiteSpaces(block, d.enc.TokenSeparator)
	}
	if d.cfg.legacyDecimal && d.enc.HasCustomDecimal() {
		block = strings.ReplaceAll(block, d.enc.Decimal(), ".")
	}

	return block
}

func (d *decoder) blocks(text string) []string {
	raw := textscan.Split(text, d.enc.BlockSeparator)
	out := make([]string, 0, len(raw))
	for _, b := range raw {
		if textscan.IsBlank(b) {
			continue
		}
		out = append(out, d.preprocess(b))
	}

	if dropped := len(raw) - len(out); dropped > 0 {
		d.cfg.logger.Debug("dropped blank blocks", zap.Int("dropped", dropped), zap.Int("blocks", len(out)))
	}

	return out
}

// decodeBlock decodes one preprocessed block as c.
func (d *decoder) decodeBlock(block string, c component.Component) (any, error) {
	if !c.Kind().IsArray() && !c.Kind().IsRecord() {
		return d.parseToken(block, c)
	}

	tokens := textscan.Split(block, d.enc.TokenSeparator)
	if n, fixed := component.TokenCount(c); fixed && n != len(tokens) {
		return nil, fmt.Errorf("%w: %s %q expects %d tokens, got %d",
			errs.ErrTokenCountMismatch, c.Kind(), c.Meta().Name, n, len(tokens))
	}

	cur := &cursor{tokens: tokens}
	v, err := d.readValue(cur, c)
	if err != nil {
		return nil, err
	}
	if cur.pos != len(tokens) {
		return nil, fmt.Errorf("%w: %s %q consumed %d tokens, block has %d",
			errs.ErrTokenCountMismatch, c.Kind(), c.Meta().Name, cur.pos, len(tokens))
	}

	return v, nil
}

type cursor struct {
	tokens []string
	pos    int
}

func (c *cursor) next() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	t := c.tokens[c.pos]
	c.pos++

	return t, true
}

func (d *decoder) readValue(cur *cursor, c component.Component) (any, error) {
	switch t := c.(type) {
	case *component.DataRecord, *component.Vector:
		fields := component.Children(t)
		m := make(map[string]any, len(fields))
		for _, field := range fields {
			if field == nil {
				return nil, fmt.Errorf("%w: nil field in %q", errs.ErrInvalidSchema, t.Meta().Name)
			}
			v, err := d.readValue(cur, field)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Meta().Name, err)
			}
			m[field.Meta().Name] = v
		}

		return m, nil
	case *component.DataArray, *component.DataStream, *component.Matrix:
		return d.readArray(cur, t)
	default:
		tok, ok := cur.next()
		if !ok {
			return nil, fmt.Errorf("%w: missing token for %q", errs.ErrTokenCountMismatch, c.Meta().Name)
		}

		return d.parseToken(tok, c)
	}
}

func (d *decoder) readArray(cur *cursor, c component.Component) (any, error) {
	elem, count, _ := component.ElementOf(c)
	if elem == nil {
		return nil, fmt.Errorf("%w: %s %q has no element type", errs.ErrInvalidSchema, c.Kind(), c.Meta().Name)
	}

	n, fixed := count.Fixed()
	if !fixed {
		tok, ok := cur.next()
		if !ok {
			return nil, fmt.Errorf("%w: missing element count for %q", errs.ErrTokenCountMismatch, c.Meta().Name)
		}
		s, _ := textscan.Unquote(tok)
		size, ok := parseCount(s)
		if !ok || size < 0 || int(size) > len(cur.tokens)-cur.pos {
			return nil, fmt.Errorf("%w: element count %q for %q", errs.ErrInvalidToken, s, c.Meta().Name)
		}
		n = int(size)
	}

	items := make([]any, n)
	for i := range items {
		v, err := d.readValue(cur, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = v
	}

	return items, nil
}
