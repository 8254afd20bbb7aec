package filetype

import "fmt"

// Registry routes a submitted filename to its format.
type Registry struct {
	formats []Format
}

// NewRegistry creates a registry with every known format. Registration
// order is matching order.
func NewRegistry() *Registry {
	return &Registry{
		formats: []Format{
			&Clinical{},
			&MAF{},
			&BED{},
			&CNA{},
			&SEG{},
			&SV{},
		},
	}
}

// Formats returns the registered formats.
func (r *Registry) Formats() []Format {
	return r.formats
}

// Resolve returns the first format whose filename validation accepts the
// file for the given center.
func (r *Registry) Resolve(center, filename string) (Format, error) {
	for _, f := range r.formats {
		if err := f.ValidateFilename(center, filename); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("filename %q does not match any known file type for center %s", filename, center)
}
