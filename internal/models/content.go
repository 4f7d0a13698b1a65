package models

// Style — оформление редактируемого текста. Отсутствующие поля
// наследуются от дефолтов витрины.
type Style struct {
	Font      string `json:"font,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Align     string `json:"align,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// StyledText — атомарная редактируемая единица контента.
// Content всегда строка (для rich-полей — HTML, уже санитизированный).
type StyledText struct {
	Content string `json:"content"`
	Style   Style  `json:"style"`
	Link    string `json:"link,omitempty"`
}

// Product — позиция магазина.
type Product struct {
	ID          string     `json:"id"`
	Name        StyledText `json:"name"`
	Description StyledText `json:"description"`
	Price       StyledText `json:"price"`
	Photo       string     `json:"photo,omitempty"`
	Link        string     `json:"link,omitempty"`
}

// swagger:model UpdateContentRequest
type UpdateContentRequest struct {
	Path  string `json:"path" example:"home.aboutTitle"`
	Value any    `json:"value"`
}
