package textcodec

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/internal/textscan"
)

// parseToken trims and unquotes a raw token and parses it as the scalar or range c.
func (d *decoder) parseToken(raw string, c component.Component) (any, error) {
	s, quoted := textscan.Unquote(raw)
	kind := c.Kind()

	if !quoted && isNull(s) {
		return nil, nil
	}
	if quoted && s == "" && kind != component.KindText && kind != component.KindCategory {
		return nil, nil
	}

	if kind.IsRange() {
		parts := strings.Fields(s)
		if len(parts) != 2 {
			if d.cfg.lenient {
				return s, nil
			}

			return nil, fmt.Errorf("%w: %s %q needs two bounds, got %q", errs.ErrInvalidToken, kind, c.Meta().Name, s)
		}

		out := make([]any, 2)
		for i, p := range parts {
			if isNull(p) {
				continue
			}
			v, err := d.parseScalar(p, kind.Bound(), c.Meta().Name)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}

		return out, nil
	}

	return d.parseScalar(s, kind, c.Meta().Name)
}

func (d *decoder) parseScalar(s string, kind component.Kind, name string) (any, error) {
	switch kind { //nolint:exhaustive
	case component.KindBoolean:
		switch strings.ToLower(s) {
		case "true", "1", "t", "yes":
			return true, nil
		default:
			return false, nil
		}
	case component.KindCount:
		if n, ok := parseCount(d.delocalize(s)); ok {
			return n, nil
		}

		return d.invalid(s, kind, name)
	case component.KindQuantity:
		if f, ok := parseQuantity(d.delocalize(s)); ok {
			return f, nil
		}

		return d.invalid(s, kind, name)
	case component.KindTime:
		if strings.ContainsAny(s, "T-:") {
			return s, nil
		}
		if f, ok := parseQuantity(d.delocalize(s)); ok {
			return f, nil
		}

		return s, nil
	case component.KindCategory, component.KindText:
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a scalar kind", errs.ErrInvalidSchema, kind)
	}
}

func (d *decoder) invalid(s string, kind component.Kind, name string) (any, error) {
	if d.cfg.lenient {
		return math.NaN(), nil
	}

	return nil, fmt.Errorf("%w: %q is not a valid %s for %q", errs.ErrInvalidToken, s, kind, name)
}

// delocalize turns the decimal separator of a numeric token back into '.'.
func (d *decoder) delocalize(s string) string {
	if d.cfg.legacyDecimal || !d.enc.HasCustomDecimal() {
		return s
	}

	return strings.Replace(s, d.enc.Decimal(), ".", 1)
}

func isNull(s string) bool {
	return s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "nil")
}
