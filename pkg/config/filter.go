package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidFilter marks a filter specification that is neither a string
// form, a list, nor a /regex/ pattern.
var ErrInvalidFilter = errors.New("invalid filter specification")

// Filter selects which dependency names are considered for upgrade. A nil
// Filter matches every name.
type Filter struct {
	names   map[string]bool
	pattern *regexp.Regexp
}

// ParseFilter builds a Filter from a configuration value. Recognized forms:
//
//   - nil: no filtering
//   - "/expr/": regular-expression match
//   - "a b c" or "a,b,c": exact name list
//   - list of strings: exact name list
func ParseFilter(spec interface{}) (*Filter, error) {
	switch v := spec.(type) {
	case nil:
		return nil, nil
	case string:
		return parseFilterString(v)
	case []string:
		return filterFromNames(v), nil
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: list element %v (%T)", ErrInvalidFilter, item, item)
			}
			names = append(names, s)
		}
		return filterFromNames(names), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidFilter, spec)
	}
}

func parseFilterString(s string) (*Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") && len(s) > 1 {
		expr := s[1 : len(s)-1]
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %v", ErrInvalidFilter, expr, err)
		}
		return &Filter{pattern: re}, nil
	}

	return filterFromNames(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})), nil
}

func filterFromNames(names []string) *Filter {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = true
		}
	}
	return &Filter{names: set}
}

// Match reports whether a dependency name passes the filter.
func (f *Filter) Match(name string) bool {
	if f == nil {
		return true
	}
	if f.pattern != nil {
		return f.pattern.MatchString(name)
	}
	return f.names[name]
}
