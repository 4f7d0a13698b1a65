package models

// SavedSheet — сохранённый технический лист (раскладка генератора PDF).
// Сам рендер PDF вне зоны ответственности сервиса, храним только раскладку.
type SavedSheet struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	FolderID  string       `json:"folderId,omitempty"`
	Fields    []SheetField `json:"fields"`
	CreatedAt string       `json:"createdAt,omitempty"`
}

// SheetField — абсолютно позиционированное поле листа (проценты).
type SheetField struct {
	ID    string     `json:"id"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	W     float64    `json:"w"`
	H     float64    `json:"h"`
	Text  StyledText `json:"text"`
	Image string     `json:"image,omitempty"`
}

// Folder — папка сохранённых листов.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
