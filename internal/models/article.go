package models

// Article — проект (статья) в разделе Project Cars.
// Живёт в списках projects / projectsDraft (и их под-вкладочных вариантах).
type Article struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Excerpt      string   `json:"excerpt,omitempty"`
	Banner       string   `json:"banner,omitempty"`
	CoverPhoto   string   `json:"coverPhoto,omitempty"`
	CategoryTags []string `json:"categoryTags,omitempty"`
	Blocks       []Block  `json:"blocks"`
	Published    bool     `json:"published"`
}

// Block — тегированный вариант блока статьи: text | image | youtube | specs.
// Заполнены только поля своего типа.
type Block struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// text
	HTML string `json:"html,omitempty"`

	// image
	URL       string `json:"url,omitempty"`
	Size      int    `json:"size,omitempty"` // проценты ширины
	Alignment string `json:"alignment,omitempty"`
	SideText  string `json:"sideText,omitempty"`

	// youtube
	VideoID string `json:"videoId,omitempty"`

	// specs
	SpecsTitle string     `json:"specsTitle,omitempty"`
	Specs      []SpecPair `json:"specs,omitempty"`
	SpecsPhoto string     `json:"specsPhoto,omitempty"`
}

// SpecPair — строка характеристик: подпись и значение (rich-текст).
type SpecPair struct {
	Label StyledText `json:"label"`
	Value StyledText `json:"value"`
}

// swagger:model CreateArticleRequest
type CreateArticleRequest struct {
	Title        string   `json:"title" example:"BMW M3 E46 — Stage 2"`
	Excerpt      string   `json:"excerpt,omitempty"`
	Banner       string   `json:"banner,omitempty"`
	CoverPhoto   string   `json:"coverPhoto,omitempty"`
	CategoryTags []string `json:"categoryTags,omitempty"`
	Blocks       []Block  `json:"blocks,omitempty"`
	// SubTab — суффикс под-вкладки; пусто = основной список projects.
	SubTab string `json:"subTab,omitempty"`
}
