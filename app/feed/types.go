package feed

// Source is one feed entry of the OPML outline, in document order.
type Source struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// Article is the normalized shape of a feed item.
type Article struct {
	Category    string `json:"category"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	PublishedAt string `json:"publishedAt,omitempty"` // feed-provided text, never reformatted
}

// Warning records a feed whose fetch attempt failed.
type Warning struct {
	Category string `json:"category"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Message  string `json:"message"`
}

// Item is what the parser extracts from a single feed entry.
type Item struct {
	Title       string
	Link        string
	PublishedAt string
}

// Result is the outcome of fetching a batch of sources.
type Result struct {
	Articles []Article
	Warnings []Warning
}
