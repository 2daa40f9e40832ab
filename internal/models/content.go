package models

// Project is a single portfolio project. Technologies is stored as a JSON
// array in a single text column and always round-trips as an ordered list.
type Project struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Image            string   `json:"image"`
	Category         string   `json:"category"`
	Technologies     []string `json:"technologies"`
	Date             string   `json:"date"`
	DemoURL          *string  `json:"demoUrl,omitempty"`
	GithubURL        *string  `json:"githubUrl,omitempty"`
	Featured         bool     `json:"featured"`
}

type JournalPost struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	ReadTime int      `json:"readTime"`
}

type Experience struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// TimelineEntry uses the year value itself as its key.
type TimelineEntry struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Photo struct {
	ID           string  `json:"id"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	FullURL      string  `json:"fullUrl"`
	Caption      string  `json:"caption"`
	Location     string  `json:"location"`
	Camera       *string `json:"camera,omitempty"`
	Film         *string `json:"film,omitempty"`
}
