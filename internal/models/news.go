package models

// NewsItem is a headline listed on a ticker's quote page
type NewsItem struct {
	ID              int    `json:"id,omitempty"`
	Ticker          string `json:"ticker"`
	Date            string `json:"date"`
	Title           string `json:"title"`
	Link            string `json:"link"`
	IsInNewsDetails string `json:"is_in_news_details,omitempty"`
}

// TickerDetails is everything scraped from one quote page.
// Float is nil when the page does not show it.
type TickerDetails struct {
	Ticker string     `json:"ticker"`
	News   []NewsItem `json:"news"`
	Float  *string    `json:"float,omitempty"`
}
