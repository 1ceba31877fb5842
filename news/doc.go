// Package news gathers reference articles for content generation.
//
// A [Source] yields [Article] values for a topic: [GoogleSource] queries a
// Google-News-style search API and extracts each page as markdown, while
// [DirectorySource] serves articles from local JSON files. [TopicEncoder]
// condenses a free-form user prompt into a search query before fetching.
package news
