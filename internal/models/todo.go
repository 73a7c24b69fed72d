package models

// ListStatus selects which remote todo list to fetch
type ListStatus string

const (
	ListStatusActive    ListStatus = "uncompletion"
	ListStatusCompleted ListStatus = "completion"
)

// Todo represents a todo item. The remote service is the system of record;
// IDs are assigned remotely and immutable once created.
type Todo struct {
	ID          int    `json:"id"`
	UserID      int    `json:"userId"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	Completed   bool   `json:"completed"`
}

// UpstreamTodo is the remote wire shape for a todo. The field name
// "discription" is the remote service's actual spelling and must be
// preserved verbatim for wire compatibility.
type UpstreamTodo struct {
	ID          int    `json:"id"`
	Task        string `json:"task"`
	Discription string `json:"discription,omitempty"`
	Link        string `json:"link,omitempty"`
	UserID      int    `json:"userId"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ToTodo converts the upstream wire shape into the domain type.
func (u UpstreamTodo) ToTodo(completed bool) Todo {
	return Todo{
		ID:          u.ID,
		UserID:      u.UserID,
		Title:       u.Task,
		URL:         u.Link,
		Description: u.Discription,
		ImageURL:    u.ImageURL,
		Completed:   completed,
	}
}

// ToUpstream converts a domain todo back to the remote wire shape.
func (t Todo) ToUpstream() UpstreamTodo {
	return UpstreamTodo{
		ID:          t.ID,
		Task:        t.Title,
		Discription: t.Description,
		Link:        t.URL,
		UserID:      t.UserID,
		ImageURL:    t.ImageURL,
	}
}
