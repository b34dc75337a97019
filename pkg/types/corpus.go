// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Book describes one book in the corpus catalogue.
type Book struct {
	// Name is the book title (e.g. "Genesis").
	Name string `json:"name" yaml:"name"`

	// Chapters is the number of chapters in the book.
	Chapters int `json:"chapters" yaml:"chapters"`

	// Verses is the number of verses in the book.
	Verses int `json:"verses" yaml:"verses"`

	// Languages lists the languages the text is available in.
	Languages []string `json:"languages" yaml:"languages"`
}

// Catalogue is the raw corpus metadata written by the collect stage.
type Catalogue struct {
	// Testament names the collection (e.g. "Old Testament").
	Testament string `json:"testament" yaml:"testament"`

	// Books lists the catalogued books in canonical order.
	Books []Book `json:"books" yaml:"books"`
}

// SegmentMetadata carries provenance for a training segment.
type SegmentMetadata struct {
	BookName     string `json:"book_name" yaml:"book_name"`
	ChapterCount int    `json:"chapter_count" yaml:"chapter_count"`
	VerseCount   int    `json:"verse_count" yaml:"verse_count"`
}

// Segment is one pre-processed text unit: a line of training_data.jsonl.
type Segment struct {
	Text      string          `json:"text" yaml:"text"`
	Languages []string        `json:"languages" yaml:"languages"`
	Metadata  SegmentMetadata `json:"metadata" yaml:"metadata"`
}
