package entity

import "time"

// Channel is the top-level metadata block of the output feed.
type Channel struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

// Item is one entry of the output feed.
type Item struct {
	Title       string
	Link        string
	Published   time.Time
	Description string
	Categories  []string
}

// Feed is the assembled output document: channel metadata plus items in final order.
type Feed struct {
	Channel Channel
	Items   []Item
}
