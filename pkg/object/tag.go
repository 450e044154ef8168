package object

// MaxTagSize is the storage of a Tag in bytes. Tag text must be shorter.
const MaxTagSize = 32

// Tag is a short label stored inline, so objects carrying one hold no
// pointer for it. The zero Tag is empty.
type Tag struct {
	data [MaxTagSize]byte
	size uint8
}

// NewTag stores text in a Tag. Empty text, or text of MaxTagSize bytes or
// more, yields the empty Tag.
func NewTag(text string) Tag {
	var t Tag
	if len(text) == 0 || len(text) >= MaxTagSize {
		return t
	}
	t.size = uint8(copy(t.data[:], text))
	return t
}

// Compare reports whether the tag holds exactly text.
func (t Tag) Compare(text string) bool {
	return len(text) == int(t.size) && string(t.data[:t.size]) == text
}

// Len returns the size of the tag text in bytes.
func (t Tag) Len() int { return int(t.size) }

// IsZero reports whether the tag is empty.
func (t Tag) IsZero() bool { return t.size == 0 }

func (t Tag) String() string { return string(t.data[:t.size]) }
