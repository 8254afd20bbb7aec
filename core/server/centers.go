package server

import "strings"

// CenterList returns the configured center codes, trimmed and upper-cased.
func (c Config) CenterList() []string {
	if strings.TrimSpace(c.Centers) == "" {
		return nil
	}
	parts := strings.Split(c.Centers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsKnownCenter reports whether the given code is a configured center.
// An empty center list accepts any code (single-site deployments).
func (c Config) IsKnownCenter(code string) bool {
	centers := c.CenterList()
	if len(centers) == 0 {
		return true
	}
	code = strings.ToUpper(code)
	for _, known := range centers {
		if known == code {
			return true
		}
	}
	return false
}
