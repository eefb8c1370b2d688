package notion

// Request bodies for the pages and blocks endpoints.

type createPageRequest struct {
	Parent     parent     `json:"parent"`
	Properties properties `json:"properties"`
	Children   []block    `json:"children"`
}

type appendRequest struct {
	Children []block `json:"children"`
}

type parent struct {
	PageID string `json:"page_id"`
}

type properties struct {
	Title titleProperty `json:"title"`
}

type titleProperty struct {
	Title []richText `json:"title"`
}

type block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *richBlock `json:"paragraph,omitempty"`
	Heading2  *richBlock `json:"heading_2,omitempty"`
	Heading3  *richBlock `json:"heading_3,omitempty"`
}

type richBlock struct {
	RichText []richText `json:"rich_text"`
}

type richText struct {
	Type string      `json:"type"`
	Text textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

func text(s string) richText {
	return richText{Type: "text", Text: textContent{Content: s}}
}

func paragraph(s string) block {
	return block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &richBlock{RichText: []richText{text(s)}},
	}
}

// heading returns a heading block. Levels above 3 render as level 3.
func heading(level int, s string) block {
	rb := &richBlock{RichText: []richText{text(s)}}
	if level <= 2 {
		return block{Object: "block", Type: "heading_2", Heading2: rb}
	}
	return block{Object: "block", Type: "heading_3", Heading3: rb}
}
