package models

// UpstreamRecommendation is the remote wire shape for a recommendation.
// Note that the recommend endpoint spells "description" correctly, unlike
// the todo list endpoints.
type UpstreamRecommendation struct {
	Task        string `json:"task"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Recommendation is a remote-suggested purchasable product or bare task
// matched to free-text user input. TaskOnly means the remote service could
// not find a purchasable match and returned a bare task suggestion.
type Recommendation struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	TaskOnly    bool   `json:"taskOnly"`
}

// ToRecommendation maps the wire shape to the domain type. A response
// missing either link or description is a task-only result: url and
// description are cleared and price is zeroed.
func (u UpstreamRecommendation) ToRecommendation() Recommendation {
	if u.Link == "" || u.Description == "" {
		return Recommendation{
			Title:    u.Task,
			Category: u.Category,
			TaskOnly: true,
		}
	}
	return Recommendation{
		Title:       u.Task,
		URL:         u.Link,
		Description: u.Description,
		ImageURL:    u.ImageURL,
		Category:    u.Category,
		Price:       u.Price,
	}
}

// ToUpstream converts a domain recommendation back to the remote wire
// shape. Task-only results keep only task and category, as the remote
// service serves them.
func (r Recommendation) ToUpstream() UpstreamRecommendation {
	if r.TaskOnly {
		return UpstreamRecommendation{Task: r.Title, Category: r.Category}
	}
	return UpstreamRecommendation{
		Task:        r.Title,
		Description: r.Description,
		Link:        r.URL,
		Category:    r.Category,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
	}
}
