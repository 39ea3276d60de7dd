package filter

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes a page request: number below 1 becomes 1, a missing size becomes
// defaultSize (or DefaultPageSize) and sizes above MaxPageSize are capped.
func NewPage(number, size, defaultSize int) Page {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns ceil(total/size).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
