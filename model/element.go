package model

// BlockKind represents the type of an output block
type BlockKind int

const (
	BlockUnknown BlockKind = iota
	BlockTitle
	BlockHeading
	BlockParagraph
	BlockBullet
)

func (k BlockKind) String() string {
	switch k {
	case BlockTitle:
		return "Title"
	case BlockHeading:
		return "Heading"
	case BlockParagraph:
		return "Paragraph"
	case BlockBullet:
		return "Bullet"
	default:
		return "Unknown"
	}
}

// Colors used for emphasized runs, as six-digit hex without '#'.
const (
	ColorRed   = "FF0000"
	ColorBlack = "000000"
)

// Block is one rendered unit of the summary document.
type Block struct {
	Kind  BlockKind
	Level int // heading level 1-9; 0 for other kinds
	Text  string
	Bold  bool
	Color string // empty means the style default
}

// Title creates a title block.
func Title(text string) Block {
	return Block{Kind: BlockTitle, Text: text}
}

// Heading creates a heading block at the given level.
func Heading(level int, text string) Block {
	return Block{Kind: BlockHeading, Level: level, Text: text}
}

// Paragraph creates a plain paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

// Bullet creates a bulleted list item block.
func Bullet(text string) Block {
	return Block{Kind: BlockBullet, Text: text}
}

// Emphasize returns a copy of b rendered bold in the given color.
func (b Block) Emphasize(color string) Block {
	b.Bold = true
	b.Color = color
	return b
}
