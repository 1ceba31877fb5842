package news

// Article represents a fetched news article. Articles are immutable once
// produced within a run; downstream steps read them but never modify them.
type Article struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Source  string `json:"source"`
}
