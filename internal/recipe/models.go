package recipe

import "time"

// Difficulty represents how hard a recipe is to prepare.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Step is a single instruction in a recipe. Steps are persisted as
// individually JSON-serialized strings in the remote store.
type Step struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
}

// Recipe represents a shared recipe.
type Recipe struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image,omitempty"`
	Ingredients []string   `json:"ingredients"`
	Steps       []Step     `json:"steps"`
	PrepTime    int        `json:"prep_time"`
	CookTime    int        `json:"cook_time"`
	Difficulty  Difficulty `json:"difficulty"`
	Calories    int        `json:"calories,omitempty"`
	Servings    int        `json:"servings,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	LikesCount  int        `json:"likes_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateInput holds the fields supplied when creating a recipe.
type CreateInput struct {
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image,omitempty"`
	Ingredients []string   `json:"ingredients"`
	Steps       []Step     `json:"steps"`
	PrepTime    int        `json:"prep_time"`
	CookTime    int        `json:"cook_time"`
	Difficulty  Difficulty `json:"difficulty"`
	Calories    int        `json:"calories,omitempty"`
	Servings    int        `json:"servings,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// UpdateInput holds the recipe fields the author may edit. Nil fields are
// left untouched.
type UpdateInput struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Image       *string     `json:"image,omitempty"`
	Ingredients *[]string   `json:"ingredients,omitempty"`
	Steps       *[]Step     `json:"steps,omitempty"`
	PrepTime    *int        `json:"prep_time,omitempty"`
	CookTime    *int        `json:"cook_time,omitempty"`
	Difficulty  *Difficulty `json:"difficulty,omitempty"`
	Calories    *int        `json:"calories,omitempty"`
	Servings    *int        `json:"servings,omitempty"`
	Tags        *[]string   `json:"tags,omitempty"`
}

// ListFilter selects recipes for a listing.
type ListFilter struct {
	AuthorID   string
	Difficulty Difficulty
	Limit      int
	Offset     int
}
